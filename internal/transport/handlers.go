// Package transport provides methods for processing requests from endpoints
package transport

import (
	"context"
	"errors"
	"io"

	"github.com/UnendingLoop/NanoEdit/internal/model"
	"github.com/UnendingLoop/NanoEdit/internal/mwlogger"
	"github.com/UnendingLoop/NanoEdit/internal/web"
	"github.com/wb-go/wbf/ginext"
)

type SessionHandler struct {
	service SessionService
}

type SessionService interface {
	Create(ctx context.Context) (*model.SessionInfo, error)
	View(ctx context.Context, id string) (*model.View, error)
	LoadImage(ctx context.Context, id string, upload *model.ImageUpload) (*model.View, error)
	ConvertToBlackAndWhite(ctx context.Context, id string) (*model.View, error)
	SetPrompt(ctx context.Context, id string, prompt string) (*model.View, error)
	CustomEdit(ctx context.Context, id string, prompt *string) (*model.View, error) // nil - берем ранее сохраненный промпт
	Reset(ctx context.Context, id string) (*model.View, error)
	Result(ctx context.Context, id string) (*model.Result, error) // раскодированная картинка для скачивания
	Delete(ctx context.Context, id string) error
}

func NewSessionHandler(svc SessionService) *SessionHandler {
	return &SessionHandler{
		service: svc,
	}
}

func (h SessionHandler) SimplePinger(ctx *ginext.Context) {
	ctx.JSON(200, map[string]string{"message": "pong"})
}

// Index отдает встроенную страничку редактора
func (h SessionHandler) Index(ctx *ginext.Context) {
	ctx.Data(200, "text/html; charset=utf-8", web.IndexHTML)
}

func (h SessionHandler) Create(ctx *ginext.Context) {
	res, err := h.service.Create(ctx.Request.Context())
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(201, res)
}

func (h SessionHandler) Get(ctx *ginext.Context) {
	res, err := h.service.View(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h SessionHandler) UploadImage(ctx *ginext.Context) {
	id := ctx.Param("id")

	imageFile, imageHeader, err := ctx.Request.FormFile("image")
	if err != nil {
		ctx.JSON(400, map[string]string{"error": "image is required"})
		return
	}
	defer closeFileFlow(ctx.Request.Context(), imageFile)

	upload := model.ImageUpload{
		File:        imageFile,
		ContentType: imageHeader.Header.Get("Content-Type"),
		FileName:    imageHeader.Filename,
		Size:        imageHeader.Size,
	}

	res, err := h.service.LoadImage(ctx.Request.Context(), id, &upload)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h SessionHandler) BlackAndWhite(ctx *ginext.Context) {
	res, err := h.service.ConvertToBlackAndWhite(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	// ошибка модели - не ошибка запроса, она лежит внутри View
	ctx.JSON(200, res)
}

func (h SessionHandler) SetPrompt(ctx *ginext.Context) {
	var req model.PromptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Prompt == nil {
		ctx.JSON(400, map[string]string{"error": model.ErrIncorrectQuery.Error()})
		return
	}

	res, err := h.service.SetPrompt(ctx.Request.Context(), ctx.Param("id"), *req.Prompt)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h SessionHandler) Edit(ctx *ginext.Context) {
	// тело опционально: без него отправляем сохраненный промпт
	var req model.PromptRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			ctx.JSON(400, map[string]string{"error": model.ErrIncorrectQuery.Error()})
			return
		}
	}

	res, err := h.service.CustomEdit(ctx.Request.Context(), ctx.Param("id"), req.Prompt)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h SessionHandler) Reset(ctx *ginext.Context) {
	res, err := h.service.Reset(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.JSON(200, res)
}

func (h SessionHandler) Download(ctx *ginext.Context) {
	id := ctx.Param("id")

	res, err := h.service.Result(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+res.FileName+`"`)
	ctx.Data(200, res.MIMEType, res.Data)
}

func (h SessionHandler) Delete(ctx *ginext.Context) {
	id := ctx.Param("id")
	if err := h.service.Delete(ctx.Request.Context(), id); err != nil {
		ctx.JSON(errorCodeDefiner(err), map[string]string{"error": err.Error()})
		return
	}

	logger := mwlogger.LoggerFromContext(ctx.Request.Context())
	logger.Info().Str("session_id", id).Msg("Session deleted")
	ctx.Status(204)
}
