package service

import (
	"context"

	"github.com/UnendingLoop/NanoEdit/internal/model"
)

// MOCK EDITOR

type mockEditor struct {
	calls  int
	gotIns string
	editFn func(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error)
}

func (m *mockEditor) EditImage(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error) {
	m.calls++
	m.gotIns = instruction
	return m.editFn(ctx, src, instruction)
}
