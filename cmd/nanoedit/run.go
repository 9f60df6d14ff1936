package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/UnendingLoop/NanoEdit/internal/imagedata"
	"github.com/UnendingLoop/NanoEdit/internal/model"
)

type Editor interface {
	EditImage(ctx context.Context, src model.ImagePayload, instruction string) (model.ImagePayload, error)
}

var errNoInstruction = errors.New("either --prompt or --bw is required")

func pickInstruction(prompt string, bw bool) (string, error) {
	switch {
	case bw:
		return model.BlackAndWhitePrompt, nil
	case strings.TrimSpace(prompt) != "":
		return prompt, nil
	default:
		return "", errNoInstruction
	}
}

// editFile - тот же путь, что и у сервера: файл в data URI, один вызов модели, результат на диск
func editFile(ctx context.Context, ed Editor, in, out, instruction string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}
	if len(data) == 0 {
		return model.ErrEmptySource
	}

	src := imagedata.FromUpload(data, "", in)
	res, err := ed.EditImage(ctx, src, instruction)
	if err != nil {
		return err
	}

	edited, _, err := imagedata.Decode(res)
	if err != nil {
		return fmt.Errorf("failed to decode model output: %w", err)
	}
	if err := os.WriteFile(out, edited, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
