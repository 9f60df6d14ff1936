package session

import (
	"context"
	"sync"

	"github.com/UnendingLoop/NanoEdit/internal/model"
)

type mockEditor struct {
	mu     sync.Mutex
	calls  int
	gotSrc []model.ImagePayload
	gotIns []string
	editFn func(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error)
}

func (m *mockEditor) EditImage(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error) {
	m.mu.Lock()
	m.calls++
	m.gotSrc = append(m.gotSrc, src)
	m.gotIns = append(m.gotIns, instruction)
	m.mu.Unlock()
	return m.editFn(ctx, src, instruction)
}

func (m *mockEditor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
