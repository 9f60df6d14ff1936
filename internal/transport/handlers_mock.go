package transport

import (
	"context"

	"github.com/UnendingLoop/NanoEdit/internal/model"
	"github.com/gin-gonic/gin"
)

type mockSessionService struct {
	createFn     func(ctx context.Context) (*model.SessionInfo, error)
	viewFn       func(ctx context.Context, id string) (*model.View, error)
	loadImageFn  func(ctx context.Context, id string, upload *model.ImageUpload) (*model.View, error)
	bwFn         func(ctx context.Context, id string) (*model.View, error)
	setPromptFn  func(ctx context.Context, id string, prompt string) (*model.View, error)
	customEditFn func(ctx context.Context, id string, prompt *string) (*model.View, error)
	resetFn      func(ctx context.Context, id string) (*model.View, error)
	resultFn     func(ctx context.Context, id string) (*model.Result, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (m *mockSessionService) Create(ctx context.Context) (*model.SessionInfo, error) {
	return m.createFn(ctx)
}

func (m *mockSessionService) View(ctx context.Context, id string) (*model.View, error) {
	return m.viewFn(ctx, id)
}

func (m *mockSessionService) LoadImage(ctx context.Context, id string, upload *model.ImageUpload) (*model.View, error) {
	return m.loadImageFn(ctx, id, upload)
}

func (m *mockSessionService) ConvertToBlackAndWhite(ctx context.Context, id string) (*model.View, error) {
	return m.bwFn(ctx, id)
}

func (m *mockSessionService) SetPrompt(ctx context.Context, id string, prompt string) (*model.View, error) {
	return m.setPromptFn(ctx, id, prompt)
}

func (m *mockSessionService) CustomEdit(ctx context.Context, id string, prompt *string) (*model.View, error) {
	return m.customEditFn(ctx, id, prompt)
}

func (m *mockSessionService) Reset(ctx context.Context, id string) (*model.View, error) {
	return m.resetFn(ctx, id)
}

func (m *mockSessionService) Result(ctx context.Context, id string) (*model.Result, error) {
	return m.resultFn(ctx, id)
}

func (m *mockSessionService) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

func init() {
	gin.SetMode(gin.TestMode)
}
