package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"briscola/internal/config"
	"briscola/internal/logging"
	"briscola/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	logBackend, err := logging.NewLogBackend(logging.LogConfig{
		LogFile:    cfg.LogFile,
		DebugLevel: cfg.LogLevel,
		Stdout:     true,
	})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer logBackend.Close()
	log := logBackend.Logger(logging.Server)

	manager := server.NewManager(server.ManagerConfig{
		TrickPause:    cfg.TrickPause,
		RoomTTL:       cfg.RoomTTL,
		SweepInterval: cfg.SweepInterval,
	}, logBackend.Logger(logging.Room))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go manager.Run(ctx)

	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", server.WSHandler(manager, cfg.OriginAllowlist, log))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve frontend build with SPA fallback
	webDist := cfg.WebDist
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(webDist, filepath.Clean(r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(webDist, "index.html"))
	}))

	srv := &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		manager.Close()
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("Shutting down")
	manager.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
