package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/UnendingLoop/NanoEdit/internal/imagedata"
	"github.com/UnendingLoop/NanoEdit/internal/model"
	"github.com/UnendingLoop/NanoEdit/internal/mwlogger"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	photo  = []byte("jpeg-bytes")
	result = imagedata.Encode(model.PNG, []byte("png-bytes"))
)

func newSvc(ed *mockEditor) *SessionService {
	return NewSessionService(ed, Options{MaxUploadBytes: 1 << 20})
}

func okEditor() *mockEditor {
	return &mockEditor{editFn: func(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error) {
		return result, nil
	}}
}

func upload(data []byte) *model.ImageUpload {
	return &model.ImageUpload{
		File:        bytes.NewReader(data),
		ContentType: model.JPEG,
		FileName:    "photo.jpg",
		Size:        int64(len(data)),
	}
}

// хелпер: сессия с уже загруженной картинкой
func sessionWithPhoto(t *testing.T, svc *SessionService) string {
	t.Helper()
	info, err := svc.Create(context.Background())
	require.NoError(t, err)

	_, err = svc.LoadImage(context.Background(), info.SessionID, upload(photo))
	require.NoError(t, err)
	return info.SessionID
}

// CREATE
func TestSessionService_Create(t *testing.T) {
	svc := newSvc(okEditor())

	info, err := svc.Create(context.Background())
	require.NoError(t, err)
	require.NoError(t, uuid.Validate(info.SessionID))
	require.Equal(t, model.PhaseEmpty, info.State.Phase)
}

// CREATE - LOGS WITH REQUEST LOGGER
func TestSessionService_Create_Logs(t *testing.T) {
	var buf bytes.Buffer
	ctx := mwlogger.WithLogger(context.Background(), zerolog.New(&buf))
	svc := newSvc(okEditor())

	info, err := svc.Create(ctx)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Session created")
	require.Contains(t, buf.String(), info.SessionID)
}

// LOOKUP - FAIL
func TestSessionService_Lookup(t *testing.T) {
	svc := newSvc(okEditor())

	_, err := svc.View(context.Background(), "bad-id")
	require.ErrorIs(t, err, model.ErrIncorrectID)

	_, err = svc.View(context.Background(), uuid.New().String())
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}

// LOADIMAGE
func TestSessionService_LoadImage(t *testing.T) {
	tests := []struct {
		name    string
		upload  *model.ImageUpload
		wantErr error
	}{
		{"ok", upload(photo), nil},
		{"nil upload", nil, model.ErrEmptySource},
		{"empty file", upload([]byte{}), model.ErrEmptySource},
		{"too large", &model.ImageUpload{File: bytes.NewReader(photo), Size: 2 << 20}, model.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSvc(okEditor())
			info, err := svc.Create(context.Background())
			require.NoError(t, err)

			v, err := svc.LoadImage(context.Background(), info.SessionID, tt.upload)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.PhaseReady, v.Phase)
			require.Equal(t, imagedata.Encode(model.JPEG, photo), v.Original)
		})
	}
}

// BW - SUCCESS
func TestSessionService_ConvertToBlackAndWhite_OK(t *testing.T) {
	ed := okEditor()
	svc := newSvc(ed)
	id := sessionWithPhoto(t, svc)

	v, err := svc.ConvertToBlackAndWhite(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, result, v.Processed)
	require.Equal(t, model.LabelResult, v.ResultLabel)
	require.Equal(t, model.DownloadName, v.DownloadName)
	require.Equal(t, model.BlackAndWhitePrompt, ed.gotIns)
}

// BW - FAIL IS NOT A SERVICE ERROR
func TestSessionService_ConvertToBlackAndWhite_EditFailure(t *testing.T) {
	ed := &mockEditor{editFn: func(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error) {
		return "", &model.EditError{Kind: model.KindTransport, Message: "quota exceeded"}
	}}
	svc := newSvc(ed)
	id := sessionWithPhoto(t, svc)

	v, err := svc.ConvertToBlackAndWhite(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "quota exceeded", v.Error)
	require.Equal(t, model.KindTransport, v.ErrorKind)
	require.False(t, v.IsLoading)
	require.Empty(t, v.Processed)
}

// CUSTOM EDIT - NO-OP DOES NOT REPEAT OLD ERROR
func TestSessionService_CustomEdit_NoopAfterFailure(t *testing.T) {
	ed := &mockEditor{editFn: func(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error) {
		return "", &model.EditError{Kind: model.KindTransport, Message: "quota exceeded"}
	}}
	svc := newSvc(ed)
	id := sessionWithPhoto(t, svc)

	var buf bytes.Buffer
	ctx := mwlogger.WithLogger(context.Background(), zerolog.New(&buf))

	_, err := svc.ConvertToBlackAndWhite(ctx, id)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "Edit finished with error")

	buf.Reset()
	blank := " "
	v, err := svc.CustomEdit(ctx, id, &blank)
	require.NoError(t, err)
	require.Equal(t, 1, ed.calls)
	require.Equal(t, "quota exceeded", v.Error)
	require.NotContains(t, buf.String(), "Edit finished with error")
}

// EDIT TIMEOUT
func TestSessionService_EditTimeout(t *testing.T) {
	ed := &mockEditor{editFn: func(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error) {
		_, ok := ctx.Deadline()
		require.True(t, ok)
		return result, nil
	}}
	svc := NewSessionService(ed, Options{EditTimeout: time.Minute})
	id := sessionWithPhoto(t, svc)

	_, err := svc.ConvertToBlackAndWhite(context.Background(), id)
	require.NoError(t, err)
}

// CUSTOM EDIT
func TestSessionService_CustomEdit(t *testing.T) {
	ed := okEditor()
	svc := newSvc(ed)
	id := sessionWithPhoto(t, svc)

	// пустой промпт - ничего не отправляем
	blank := "   "
	v, err := svc.CustomEdit(context.Background(), id, &blank)
	require.NoError(t, err)
	require.Zero(t, ed.calls)
	require.Empty(t, v.Processed)

	_, err = svc.SetPrompt(context.Background(), id, "make it retro")
	require.NoError(t, err)

	v, err = svc.CustomEdit(context.Background(), id, nil)
	require.NoError(t, err)
	require.Equal(t, 1, ed.calls)
	require.Equal(t, "make it retro", ed.gotIns)
	require.Equal(t, result, v.Processed)
	require.Equal(t, "make it retro", v.Prompt)
}

// RESET
func TestSessionService_Reset(t *testing.T) {
	svc := newSvc(okEditor())
	id := sessionWithPhoto(t, svc)
	_, err := svc.SetPrompt(context.Background(), id, "x")
	require.NoError(t, err)

	v, err := svc.Reset(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, model.PhaseEmpty, v.Phase)
	require.Empty(t, v.Original)
	require.Empty(t, v.Prompt)
}

// RESULT
func TestSessionService_Result(t *testing.T) {
	svc := newSvc(okEditor())
	id := sessionWithPhoto(t, svc)

	_, err := svc.Result(context.Background(), id)
	require.ErrorIs(t, err, model.ErrResultNotReady)

	_, err = svc.ConvertToBlackAndWhite(context.Background(), id)
	require.NoError(t, err)

	res, err := svc.Result(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), res.Data)
	require.Equal(t, model.PNG, res.MIMEType)
	require.Equal(t, model.DownloadName, res.FileName)
}

// DELETE
func TestSessionService_Delete(t *testing.T) {
	svc := newSvc(okEditor())
	id := sessionWithPhoto(t, svc)

	require.NoError(t, svc.Delete(context.Background(), id))
	require.ErrorIs(t, svc.Delete(context.Background(), id), model.ErrSessionNotFound)
	require.ErrorIs(t, svc.Delete(context.Background(), "nope"), model.ErrIncorrectID)
}

// EVICTIDLE
func TestSessionService_EvictIdle(t *testing.T) {
	svc := newSvc(okEditor())
	id := sessionWithPhoto(t, svc)

	// сессию только что трогали - остается
	require.Zero(t, svc.EvictIdle(context.Background(), 30*time.Minute))
	_, err := svc.View(context.Background(), id)
	require.NoError(t, err)

	// часы сервиса уходят на час вперед
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	require.Equal(t, 1, svc.EvictIdle(context.Background(), 30*time.Minute))

	_, err = svc.View(context.Background(), id)
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}
