// Package model provides data-structs for internal app-usage
package model

import (
	"errors"
	"io"

	"github.com/disintegration/imaging"
)

// ImagePayload - картинка в виде data URI: data:<mime-type>;base64,<payload>
type ImagePayload string

type (
	Phase    string
	EditKind string
)

const (
	PhaseEmpty   Phase = "empty"
	PhaseReady   Phase = "ready"
	PhaseLoading Phase = "loading"
	PhaseFailed  Phase = "failed" // ready, но с ошибкой последнего вызова
)

const (
	KindNoResponse  EditKind = "no_response"
	KindNoImagePart EditKind = "no_image_part"
	KindTransport   EditKind = "transport"
)

//---------------------

// SessionState is the whole mutable state of one editing session.
// Err is set only in PhaseFailed.
type SessionState struct {
	Phase     Phase
	Original  ImagePayload
	Processed ImagePayload
	Err       *EditError
}

func (s SessionState) IsLoading() bool {
	return s.Phase == PhaseLoading
}

func (s SessionState) HasOriginal() bool {
	return s.Original != ""
}

func (s SessionState) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Message
}

// View - то, что отдаем наружу для отрисовки
type View struct {
	Phase           Phase        `json:"phase"`
	Original        ImagePayload `json:"original,omitempty"`
	Processed       ImagePayload `json:"processed,omitempty"`
	IsLoading       bool         `json:"is_loading"`
	Error           string       `json:"error,omitempty"`
	ErrorKind       EditKind     `json:"error_kind,omitempty"`
	Prompt          string       `json:"prompt"`
	CanSubmitPrompt bool         `json:"can_submit_prompt"`
	ResultLabel     string       `json:"result_label"`
	DownloadName    string       `json:"download_name,omitempty"`
}

type SessionInfo struct {
	SessionID string `json:"session_id"`
	State     View   `json:"state"`
}

type PromptRequest struct {
	Prompt *string `json:"prompt"`
}

type ImageUpload struct {
	File        io.Reader
	ContentType string
	FileName    string
	Size        int64
}

// Result - обработанная картинка, раскодированная для скачивания
type Result struct {
	Data     []byte
	MIMEType string
	FileName string
}

//---------------------

// EditError describes why an edit call failed. Message is what the user sees:
// the literal upstream message when there was one.
type EditError struct {
	Kind    EditKind
	Message string
	Cause   error
}

func (e *EditError) Error() string {
	return e.Message
}

func (e *EditError) Unwrap() error {
	return e.Cause
}

const (
	MsgNoResponse  = "No response generated from the model."
	MsgNoImagePart = "The model did not return an edited image part."
	MsgEditFailed  = "Failed to process image with AI."
)

var (
	ErrCommon500       error = errors.New("something went wrong. Try again later")           // 500
	ErrIncorrectQuery  error = errors.New("incorrect request body")                          // 400
	ErrIncorrectID     error = errors.New("incorrect session UUID")                          // 400
	ErrSessionNotFound error = errors.New("specified session UUID doesn't exist")            // 404
	ErrResultNotReady  error = errors.New("session has no processed image yet")              // 404
	ErrEmptySource     error = errors.New("empty/incorrect source image provided")           // 400
	ErrFileTooLarge    error = errors.New("source image exceeds upload limit")               // 413
	ErrEditInProgress  error = errors.New("another edit is already running in this session") // 409
	ErrSuperseded      error = errors.New("file read superseded by a newer selection")
)

//--------------------

const (
	BlackAndWhitePrompt = "Convert this image to a high-contrast black and white photo. Maintain all details but remove all color saturation."
	DefaultModel        = "gemini-2.5-flash-image"
	DownloadName        = "nano-edit-result.png"
	LabelResult         = "Result"
	LabelPending        = "Processing Output"
)

const (
	JPEG = "image/jpeg"
	PNG  = "image/png"
	GIF  = "image/gif"
	TIFF = "image/tiff"
	BMP  = "image/bmp"
	WEBP = "image/webp"

	OctetStream = "application/octet-stream"
)

var GetCType = map[imaging.Format]string{
	imaging.JPEG: JPEG,
	imaging.PNG:  PNG,
	imaging.GIF:  GIF,
	imaging.TIFF: TIFF,
	imaging.BMP:  BMP,
}
