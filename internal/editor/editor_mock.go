package editor

import (
	"context"

	"google.golang.org/genai"
)

type mockGenerator struct {
	calls      int
	gotModel   string
	gotContent []*genai.Content
	generateFn func(ctx context.Context, model string, contents []*genai.Content) (*genai.GenerateContentResponse, error)
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.calls++
	m.gotModel = model
	m.gotContent = contents
	return m.generateFn(ctx, model, contents)
}

func respondWith(parts ...*genai.Part) func(context.Context, string, []*genai.Content) (*genai.GenerateContentResponse, error) {
	return func(context.Context, string, []*genai.Content) (*genai.GenerateContentResponse, error) {
		return &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{Role: genai.RoleModel, Parts: parts}}},
		}, nil
	}
}
