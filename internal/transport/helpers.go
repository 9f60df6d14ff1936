package transport

import (
	"context"
	"errors"
	"io"

	"github.com/UnendingLoop/NanoEdit/internal/model"
	"github.com/UnendingLoop/NanoEdit/internal/mwlogger"
)

func errorCodeDefiner(err error) int {
	switch {
	case errors.Is(err, model.ErrCommon500):
		return 500
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrResultNotReady):
		return 404
	case errors.Is(err, model.ErrIncorrectQuery),
		errors.Is(err, model.ErrIncorrectID),
		errors.Is(err, model.ErrEmptySource):
		return 400
	case errors.Is(err, model.ErrEditInProgress):
		return 409
	case errors.Is(err, model.ErrFileTooLarge):
		return 413
	default:
		return 500
	}
}

func closeFileFlow(ctx context.Context, res io.Closer) {
	if res == nil {
		return
	}
	if err := res.Close(); err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Err(err).Msg("Handler failed to close fileflow")
	}
}
