package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jdparse-engine/internal/config"
	"jdparse-engine/internal/events"
	"jdparse-engine/internal/extract"
	"jdparse-engine/internal/httpapi"
	"jdparse-engine/internal/logging"
	"jdparse-engine/internal/scheduler"
)

func main() {
	// JDPARSE_* settings may come from a .env file next to the binary
	_ = godotenv.Load()

	level, err := logging.ParseLevel(os.Getenv("JDPARSE_LOG_LEVEL"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.New(os.Stderr, level, os.Getenv("JDPARSE_LOG_FORMAT"))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("engine.exit", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	// Engine data dir: use env if provided, else local folder.
	dataDir := os.Getenv("JDPARSE_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	loadCfg := func() (config.Config, error) {
		return config.Load(userCfgPath)
	}
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	if err := vr.Err(); err != nil {
		return fmt.Errorf("config %s: %w", userCfgPath, err)
	}
	for _, w := range vr.Warnings {
		log.Warn("config.warning", "path", userCfgPath, "msg", w)
	}

	parser, err := buildParser(cfg, log)
	if err != nil {
		return err
	}

	// Config and parser are swapped together by PUT /config
	var cfgVal, parserVal atomic.Value
	cfgVal.Store(cfg)
	parserVal.Store(parser)

	d := httpapi.Deps{
		Hub:         events.NewHub(),
		Log:         log,
		CfgVal:      &cfgVal,
		ParserVal:   &parserVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
		NewParser: func(c config.Config) (*extract.Parser, error) {
			return buildParser(c, log)
		},
	}
	mux := httpapi.NewMux(d)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.App.ReloadSeconds > 0 {
		rl := newReloader(userCfgPath, &cfgVal, &parserVal, d.Hub, log)
		go scheduler.Every(ctx, time.Duration(cfg.App.ReloadSeconds)*time.Second, "config-reload", rl.check, log)
	}

	token, err := randomToken(32)
	if err != nil {
		return err
	}

	// Bind to a predictable local port
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler: httpapi.Chain(mux,
			httpapi.RequestID,
			httpapi.Recover(log),
			httpapi.AccessLog(log),
			httpapi.RateLimit(httpapi.NewClientLimiter(cfg.HTTP.RatePerSec, cfg.HTTP.Burst)),
			httpapi.Cors,
		),
		ReadHeaderTimeout: 5 * time.Second,
	}
	mux.HandleFunc("/shutdown", httpapi.Shutdown(token, srv))
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	// the launching process reads this line to learn the shutdown token
	fmt.Printf("JDPARSE_SHUTDOWN_TOKEN=%s\n", token)
	log.Info("engine.listening", "addr", "http://"+addr, "config", userCfgPath)

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info("engine.stopped")
	return nil
}
