// Package main (in nanoedit-subfolder) provides a one-shot CLI edit of a local image file
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnendingLoop/NanoEdit/internal/editor"
	"github.com/UnendingLoop/NanoEdit/internal/model"
	"github.com/spf13/pflag"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	in := pflag.StringP("in", "i", "", "source image file")
	out := pflag.StringP("out", "o", model.DownloadName, "where to write the edited image")
	prompt := pflag.StringP("prompt", "p", "", "edit instruction")
	bw := pflag.Bool("bw", false, "use the black-and-white preset instead of --prompt")
	modelName := pflag.String("model", "", "override GEMINI_MODEL")
	pflag.Parse()

	instruction, err := pickInstruction(*prompt, *bw)
	if err != nil || *in == "" {
		fmt.Fprintln(os.Stderr, "usage: nanoedit --in photo.jpg [--out result.png] (--prompt \"...\" | --bw)")
		pflag.PrintDefaults()
		os.Exit(2)
	}

	// флаг важнее энвов
	if *modelName != "" {
		if err := os.Setenv("GEMINI_MODEL", *modelName); err != nil {
			log.Fatalf("Failed to apply --model: %v", err)
		}
	}
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Printf("No .env file loaded (%v), using process environment", err)
	}

	zlog.InitConsole()
	if err := zlog.SetLevel("info"); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ed, err := editor.NewGeminiClient(ctx, appConfig)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to init Gemini editor")
	}

	if err := editFile(ctx, ed, *in, *out, instruction); err != nil {
		zlog.Logger.Fatal().Err(err).Str("in", *in).Msg("Edit failed")
	}
	zlog.Logger.Info().Str("out", *out).Str("model", ed.Model()).Msg("Edited image saved")
}
