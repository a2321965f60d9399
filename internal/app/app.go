// Package app wires the engine, logging router, and network surface into a
// runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"gloamdelve/server/internal/net"
	"gloamdelve/server/internal/sim"
	"gloamdelve/server/logging"
	"gloamdelve/server/logging/sinks"
)

// Run starts the server and blocks until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	router, err := buildRouter(cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := router.Close(closeCtx); err != nil {
			log.Printf("app: close logging router: %v", err)
		}
	}()

	hub := net.NewHub()
	presenter := net.NewWirePresenter(hub)

	world := sim.NewWorld(
		sim.Config{
			Seed:        cfg.Seed,
			DepthCount:  cfg.DepthCount,
			LevelWidth:  cfg.LevelWidth,
			LevelHeight: cfg.LevelHeight,
		},
		sim.Deps{Presenter: presenter},
		router,
	)

	commands := make(chan net.Command, 64)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.Handler(commands))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	server := &http.Server{Addr: cfg.Addr, Handler: mux}
	serverErr := make(chan error, 1)
	go func() {
		log.Printf("app: listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// The world is single-goroutine: every command resolves here, in order.
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case err := <-serverErr:
			return err
		case cmd := <-commands:
			dispatch(world, hub, cmd)
		}
	}
}

func dispatch(world *sim.World, hub *net.Hub, cmd net.Command) {
	switch cmd.Kind {
	case net.CommandEndTurn:
		if world.GameOver() {
			return
		}
		world.PlayerTurnEnded()
		if world.GameOver() {
			hub.Broadcast("game_over", nil)
		}
	default:
		log.Printf("app: unknown command kind %q", cmd.Kind)
	}
}

func buildRouter(cfg Config) (*logging.Router, error) {
	logCfg := logging.DefaultConfig()
	logCfg.EnabledSinks = cfg.LogSinks
	logCfg.JSON.FilePath = cfg.LogJSONPath
	logCfg.SQLite.Path = cfg.EventDBPath

	var named []logging.NamedSink
	if logCfg.HasSink("console") {
		named = append(named, logging.NamedSink{
			Name: "console",
			Sink: sinks.NewConsoleSink(os.Stdout, logCfg.Console),
		})
	}
	if logCfg.HasSink("json") && logCfg.JSON.FilePath != "" {
		file, err := os.OpenFile(logCfg.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open json log: %w", err)
		}
		named = append(named, logging.NamedSink{
			Name: "json",
			Sink: sinks.NewJSON(file, logCfg.JSON.FlushInterval),
		})
	}
	if logCfg.HasSink("sqlite") {
		sink, err := sinks.NewSQLiteSink(logCfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("open sqlite sink: %w", err)
		}
		named = append(named, logging.NamedSink{Name: "sqlite", Sink: sink})
	}

	return logging.NewRouter(nil, logCfg, named)
}
