// Package main (in api-subfolder) provides launch of the HTTP editing server
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/UnendingLoop/NanoEdit/internal/editor"
	"github.com/UnendingLoop/NanoEdit/internal/mwlogger"
	"github.com/UnendingLoop/NanoEdit/internal/service"
	"github.com/UnendingLoop/NanoEdit/internal/transport"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"
)

const (
	defaultPort       = "8080"
	defaultMaxUpload  = 20 << 20
	defaultSessionTTL = 30 * time.Minute
)

func main() {
	// инициализировать конфиг/ считать энвы
	appConfig := config.New()
	appConfig.EnableEnv("")
	if err := appConfig.LoadEnvFiles("./.env"); err != nil {
		log.Printf("No .env file loaded (%v), using process environment", err)
	}

	// стартуем логгер
	zlog.InitConsole()
	level := appConfig.GetString("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	if err := zlog.SetLevel(level); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	// готовим заранее слушатель прерываний - контекст для всего приложения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ключ читаем один раз на старте
	ed, err := editor.NewGeminiClient(ctx, appConfig)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to init Gemini editor")
	}
	zlog.Logger.Info().Str("model", ed.Model()).Msg("Gemini editor ready")

	opts := service.Options{
		MaxUploadBytes: int64Env(appConfig, "MAX_UPLOAD_BYTES", defaultMaxUpload),
		EditTimeout:    durationEnv(appConfig, "EDIT_TIMEOUT", 0),
	}
	ttl := durationEnv(appConfig, "SESSION_TTL", defaultSessionTTL)

	// создаем экземпляр сервиса
	var svc SessionAPIService = service.NewSessionService(ed, opts)
	// cоздаем экземпляр хендлера HTTP
	handlers := transport.NewSessionHandler(svc)
	// сетапим сервер
	mode := appConfig.GetString("GIN_MODE")
	engine := ginext.New(mode)

	engine.GET("/ping", handlers.SimplePinger)
	engine.GET("/", handlers.Index)                          // страничка редактора
	engine.POST("/sessions", handlers.Create)                // новая сессия
	engine.GET("/sessions/:id", handlers.Get)                // текущее состояние
	engine.POST("/sessions/:id/image", handlers.UploadImage) // загрузка оригинала
	engine.POST("/sessions/:id/bw", handlers.BlackAndWhite)  // ч/б пресет
	engine.PUT("/sessions/:id/prompt", handlers.SetPrompt)   // сохранить промпт
	engine.POST("/sessions/:id/edit", handlers.Edit)         // правка по промпту
	engine.POST("/sessions/:id/reset", handlers.Reset)       // сброс
	engine.GET("/sessions/:id/result", handlers.Download)    // скачать результат
	engine.DELETE("/sessions/:id", handlers.Delete)          // удаление

	port := appConfig.GetString("APP_PORT")
	if port == "" {
		port = defaultPort
	}
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mwlogger.NewMWLogger(engine),
	}

	// Server launch
	go func() {
		zlog.Logger.Info().Msgf("Server running on http://localhost%s", srv.Addr)
		err := srv.ListenAndServe()
		if err != nil {
			switch {
			case errors.Is(err, http.ErrServerClosed):
				zlog.Logger.Info().Msg("Server gracefully stopping...")
			default:
				zlog.Logger.Error().Err(err).Msg("Server stopped")
				stop()
			}
		}
	}()

	// фоновая чистка брошенных сессий
	go cleanupLoop(ctx, svc, ttl)

	<-ctx.Done()

	shutdown(srv)
	zlog.Logger.Info().Msg("Exiting app...")
}

func cleanupLoop(ctx context.Context, svc SessionAPIService, ttl time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Logger.Error().Interface("panic", r).Msg("Cleanup loop crashed")
		}
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.EvictIdle(ctx, ttl)
		}
	}
}

func shutdown(srv *http.Server) {
	zlog.Logger.Info().Msg("Interrupt received!!! Starting shutdown sequence...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Logger.Error().Err(err).Msg("Failed to shutdown HTTP-server correctly")
		return
	}
	zlog.Logger.Info().Msg("HTTP-server stopped")
}

func int64Env(cfg *config.Config, key string, def int64) int64 {
	raw := cfg.GetString(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		zlog.Logger.Warn().Str("key", key).Str("value", raw).Msg("Incorrect value, using default")
		return def
	}
	return v
}

func durationEnv(cfg *config.Config, key string, def time.Duration) time.Duration {
	raw := cfg.GetString(key)
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v < 0 {
		zlog.Logger.Warn().Str("key", key).Str("value", raw).Msg("Incorrect value, using default")
		return def
	}
	return v
}
