// Package service provides business-logic for the app: editing sessions and their lifecycle
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/UnendingLoop/NanoEdit/internal/imagedata"
	"github.com/UnendingLoop/NanoEdit/internal/model"
	"github.com/UnendingLoop/NanoEdit/internal/mwlogger"
	"github.com/UnendingLoop/NanoEdit/internal/session"
	"github.com/google/uuid"
)

type Options struct {
	MaxUploadBytes int64
	EditTimeout    time.Duration // 0 - без ограничения
}

type SessionService struct {
	editor session.Editor
	opts   Options
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session.Controller
}

func NewSessionService(ed session.Editor, opts Options) *SessionService {
	return &SessionService{
		editor:   ed,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*session.Controller),
	}
}

func (s *SessionService) Create(ctx context.Context) (*model.SessionInfo, error) {
	id := uuid.New()
	ctrl := session.NewController(s.editor)

	s.mu.Lock()
	s.sessions[id] = ctrl
	s.mu.Unlock()

	logger := mwlogger.LoggerFromContext(ctx)
	logger.Info().Str("session_id", id.String()).Msg("Session created")
	return &model.SessionInfo{SessionID: id.String(), State: ctrl.View()}, nil
}

func (s *SessionService) View(ctx context.Context, id string) (*model.View, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	return viewOf(ctrl), nil
}

func (s *SessionService) LoadImage(ctx context.Context, id string, upload *model.ImageUpload) (*model.View, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ctx = mwlogger.WithSession(ctx, id)
	logger := mwlogger.LoggerFromContext(ctx)

	// тип файла не проверяем - это дело модели, проверяем только что он вообще есть
	if upload == nil || upload.File == nil || upload.Size <= 0 {
		return nil, model.ErrEmptySource
	}
	if s.opts.MaxUploadBytes > 0 && upload.Size > s.opts.MaxUploadBytes {
		return nil, model.ErrFileTooLarge
	}

	if err := ctrl.LoadFile(ctx, upload.File, upload.ContentType, upload.FileName); err != nil {
		switch {
		case errors.Is(err, model.ErrSuperseded):
			logger.Info().Str("file", upload.FileName).Msg("File read superseded by a newer upload")
		default:
			logger.Error().Err(err).Msg("Failed to read uploaded image")
			return nil, model.ErrCommon500
		}
	}

	return viewOf(ctrl), nil
}

func (s *SessionService) ConvertToBlackAndWhite(ctx context.Context, id string) (*model.View, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ctx = mwlogger.WithSession(ctx, id)

	ctx, cancel := s.editContext(ctx)
	defer cancel()

	dispatched, err := ctrl.ConvertToBlackAndWhite(ctx)
	if err != nil {
		return nil, err
	}
	return s.afterEdit(ctx, ctrl, dispatched), nil
}

func (s *SessionService) SetPrompt(ctx context.Context, id string, prompt string) (*model.View, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ctrl.SetPrompt(prompt)
	return viewOf(ctrl), nil
}

// CustomEdit optionally replaces the pending prompt and then runs it.
func (s *SessionService) CustomEdit(ctx context.Context, id string, prompt *string) (*model.View, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ctx = mwlogger.WithSession(ctx, id)

	if prompt != nil {
		ctrl.SetPrompt(*prompt)
	}

	ctx, cancel := s.editContext(ctx)
	defer cancel()

	dispatched, err := ctrl.RunCustomEdit(ctx)
	if err != nil {
		return nil, err
	}
	return s.afterEdit(ctx, ctrl, dispatched), nil
}

func (s *SessionService) Reset(ctx context.Context, id string) (*model.View, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ctrl.Reset()
	return viewOf(ctrl), nil
}

func (s *SessionService) Result(ctx context.Context, id string) (*model.Result, error) {
	ctrl, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	processed := ctrl.State().Processed
	if processed == "" {
		return nil, model.ErrResultNotReady
	}

	data, mimeType, err := imagedata.Decode(processed)
	if err != nil {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Error().Err(err).Str("session_id", id).Msg("Failed to decode processed image")
		return nil, model.ErrCommon500
	}

	return &model.Result{Data: data, MIMEType: mimeType, FileName: model.DownloadName}, nil
}

func (s *SessionService) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return model.ErrIncorrectID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[uid]; !ok {
		return model.ErrSessionNotFound
	}
	delete(s.sessions, uid)
	return nil
}

// EvictIdle drops sessions untouched for longer than maxIdle. Sessions with an
// edit in flight are kept.
func (s *SessionService) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	logger := mwlogger.LoggerFromContext(ctx)
	deadline := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, ctrl := range s.sessions {
		touched, busy := ctrl.IdleSince()
		if busy || touched.After(deadline) {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}

	if evicted > 0 {
		logger.Info().Int("evicted", evicted).Int("left", len(s.sessions)).Msg("Idle sessions evicted")
	}
	return evicted
}

func (s *SessionService) lookup(id string) (*session.Controller, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrIncorrectID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	ctrl, ok := s.sessions[uid]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return ctrl, nil
}

func (s *SessionService) editContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.EditTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.EditTimeout)
	}
	return context.WithCancel(ctx)
}

// afterEdit логирует ошибку только если вызов модели реально был
func (s *SessionService) afterEdit(ctx context.Context, ctrl *session.Controller, dispatched bool) *model.View {
	v := viewOf(ctrl)
	if dispatched && v.Error != "" {
		logger := mwlogger.LoggerFromContext(ctx)
		logger.Warn().Str("kind", string(v.ErrorKind)).Msg("Edit finished with error: " + v.Error)
	}
	return v
}

func viewOf(ctrl *session.Controller) *model.View {
	v := ctrl.View()
	return &v
}
