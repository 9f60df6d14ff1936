// Package editor wraps the remote multimodal model that edits an image by a text instruction.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/UnendingLoop/NanoEdit/internal/imagedata"
	"github.com/UnendingLoop/NanoEdit/internal/model"
	"github.com/UnendingLoop/NanoEdit/internal/mwlogger"
	"github.com/wb-go/wbf/config"
	"google.golang.org/genai"
)

// ContentGenerator - контракт вызова модели, его реализует *genai.Models
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiEditor struct {
	gen   ContentGenerator
	model string
}

func NewGeminiEditor(gen ContentGenerator, modelName string) *GeminiEditor {
	if modelName == "" {
		modelName = model.DefaultModel
	}
	return &GeminiEditor{gen: gen, model: modelName}
}

// NewGeminiClient reads the credential once and builds an editor backed by the Gemini API.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiEditor, error) {
	apiKey := strings.TrimSpace(cfg.GetString("GEMINI_API_KEY"))
	if apiKey == "" {
		apiKey = strings.TrimSpace(cfg.GetString("API_KEY"))
	}
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init genai client: %w", err)
	}

	return NewGeminiEditor(client.Models, cfg.GetString("GEMINI_MODEL")), nil
}

func (e *GeminiEditor) Model() string {
	return e.model
}

// EditImage sends the image and the instruction as one request and returns the
// first inline image of the first candidate. Every failure is a *model.EditError.
func (e *GeminiEditor) EditImage(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error) {
	logger := mwlogger.LoggerFromContext(ctx)

	res, err := e.editImage(ctx, src, instruction)
	if err != nil {
		logger.Error().Err(err).Str("model", e.model).Msg("Gemini edit failed")
		return "", err
	}
	return res, nil
}

func (e *GeminiEditor) editImage(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error) {
	payload, mimeType := imagedata.Decompose(src)
	data, err := imagedata.DecodeBase64(payload)
	if err != nil {
		return "", transportError(err)
	}

	// порядок частей важен: сначала картинка, потом инструкция
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, mimeType),
			genai.NewPartFromText(instruction),
		}, genai.RoleUser),
	}

	resp, err := e.gen.GenerateContent(ctx, e.model, contents, nil)
	if err != nil {
		return "", transportError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", &model.EditError{Kind: model.KindNoResponse, Message: model.MsgNoResponse}
	}

	if first := resp.Candidates[0]; first != nil && first.Content != nil {
		for _, part := range first.Content.Parts {
			if part == nil || part.InlineData == nil {
				continue
			}
			return imagedata.Encode(part.InlineData.MIMEType, part.InlineData.Data), nil
		}
	}

	return "", &model.EditError{Kind: model.KindNoImagePart, Message: model.MsgNoImagePart}
}

func transportError(err error) *model.EditError {
	msg := err.Error()

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	if msg == "" {
		msg = model.MsgEditFailed
	}

	return &model.EditError{Kind: model.KindTransport, Message: msg, Cause: err}
}

var _ ContentGenerator = (*genai.Models)(nil)
