package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/UnendingLoop/NanoEdit/internal/imagedata"
	"github.com/UnendingLoop/NanoEdit/internal/model"
)

// Editor - контракт сервиса редактирования
type Editor interface {
	EditImage(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error)
}

// Controller owns the state of one session. The lock is never held across I/O:
// file reads and edit calls run unlocked and their results are applied only if
// nothing newer has replaced the original meanwhile.
type Controller struct {
	editor Editor
	now    func() time.Time

	mu      sync.Mutex
	state   model.SessionState
	prompt  string
	epoch   uint64 // растет при каждой смене оригинала и при сбросе
	loadSeq uint64 // номер последнего начатого чтения файла
	touched time.Time
}

func NewController(ed Editor) *Controller {
	c := &Controller{editor: ed, now: time.Now, state: Empty()}
	c.touched = c.now()
	return c
}

// LoadFile reads the whole file and makes it the new original. When several
// reads overlap, the one started last wins and the others get ErrSuperseded.
func (c *Controller) LoadFile(ctx context.Context, r io.Reader, contentType, filename string) error {
	c.mu.Lock()
	c.loadSeq++
	ticket := c.loadSeq
	c.touch()
	c.mu.Unlock()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read selected file: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := imagedata.FromUpload(data, contentType, filename)

	c.mu.Lock()
	defer c.mu.Unlock()
	if ticket != c.loadSeq {
		return model.ErrSuperseded
	}
	c.state = Loaded(payload)
	c.epoch++
	c.touch()
	return nil
}

// ConvertToBlackAndWhite runs the fixed grayscale instruction. Without an
// original it does nothing and reports dispatched=false.
func (c *Controller) ConvertToBlackAndWhite(ctx context.Context) (dispatched bool, err error) {
	return c.dispatch(ctx, model.BlackAndWhitePrompt)
}

func (c *Controller) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompt = prompt
	c.touch()
}

func (c *Controller) Prompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prompt
}

// RunCustomEdit sends the pending prompt as typed. Blank prompt is a no-op.
func (c *Controller) RunCustomEdit(ctx context.Context) (dispatched bool, err error) {
	prompt := c.Prompt()
	if !canSubmit(prompt) {
		return false, nil
	}
	return c.dispatch(ctx, prompt)
}

func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Empty()
	c.prompt = ""
	c.epoch++
	c.loadSeq++ // незавершенные чтения файлов больше не актуальны
	c.touch()
}

func (c *Controller) State() model.SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) View() model.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Render(c.state, c.prompt)
}

// IdleSince reports the last activity time and whether an edit is running.
func (c *Controller) IdleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched, c.state.IsLoading()
}

func (c *Controller) dispatch(ctx context.Context, instruction string) (bool, error) {
	c.mu.Lock()
	next, ok := Dispatch(c.state)
	if !ok {
		busy := c.state.IsLoading()
		c.mu.Unlock()
		if busy {
			return false, model.ErrEditInProgress
		}
		return false, nil
	}
	c.state = next
	epoch := c.epoch
	src := next.Original
	c.touch()
	c.mu.Unlock()

	res, err := c.editor.EditImage(ctx, src, instruction)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	if epoch != c.epoch {
		// оригинал сменили или сбросили, пока шел запрос - результат уже не про него
		return true, nil
	}
	if err == nil && res == "" {
		err = &model.EditError{Kind: model.KindNoImagePart, Message: model.MsgNoImagePart}
	}
	if err != nil {
		c.state = Failed(c.state, asEditError(err))
		return true, nil
	}
	c.state = Succeeded(c.state, res)
	return true, nil
}

func (c *Controller) touch() {
	c.touched = c.now()
}

func asEditError(err error) *model.EditError {
	var editErr *model.EditError
	if errors.As(err, &editErr) {
		return editErr
	}
	msg := err.Error()
	if msg == "" {
		msg = model.MsgEditFailed
	}
	return &model.EditError{Kind: model.KindTransport, Message: msg, Cause: err}
}

func canSubmit(prompt string) bool {
	return strings.TrimSpace(prompt) != ""
}
