package main

import (
	"context"
	"time"

	"github.com/UnendingLoop/NanoEdit/internal/model"
)

type SessionAPIService interface {
	Create(ctx context.Context) (*model.SessionInfo, error)
	View(ctx context.Context, id string) (*model.View, error)
	LoadImage(ctx context.Context, id string, upload *model.ImageUpload) (*model.View, error)
	ConvertToBlackAndWhite(ctx context.Context, id string) (*model.View, error)
	SetPrompt(ctx context.Context, id string, prompt string) (*model.View, error)
	CustomEdit(ctx context.Context, id string, prompt *string) (*model.View, error)
	Reset(ctx context.Context, id string) (*model.View, error)
	Result(ctx context.Context, id string) (*model.Result, error)
	Delete(ctx context.Context, id string) error
	EvictIdle(ctx context.Context, maxIdle time.Duration) int
}
