package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bhaumik0/Live-rocket/config"
	"github.com/Bhaumik0/Live-rocket/core"
)

// App ties configuration and the engine into a runnable application.
type App struct {
	cfg    *config.Config
	engine *core.Engine
}

// New creates an application instance from configuration.
func New(cfg *config.Config) *App {
	engine := core.NewEngine()
	engine.ReadTimeout = time.Duration(cfg.ReadTimeout) * time.Second
	engine.WriteTimeout = time.Duration(cfg.WriteTimeout) * time.Second
	engine.MaxConns = cfg.MaxConns
	engine.MaxRequestBytes = cfg.MaxRequestBytes

	return &App{
		cfg:    cfg,
		engine: engine,
	}
}

// Engine returns the underlying engine for route registration.
func (a *App) Engine() *core.Engine {
	return a.engine
}

// Run starts the server and blocks until the listener closes.
func (a *App) Run() {
	go a.awaitSignal()

	log.Printf("🚀 Live Rocket starting on %s [%s]", a.cfg.Addr(), a.cfg.Env)

	if err := a.engine.Run(a.cfg.Addr()); err != nil {
		log.Fatalf("Server startup failed: %v", err)
	}
}

// awaitSignal closes the listener on SIGINT/SIGTERM; in-flight connection
// handlers finish on their own.
func (a *App) awaitSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Printf("Signal received: %v. Shutting down...", sig)

	if err := a.engine.Close(); err != nil {
		log.Printf("Listener close failed: %v", err)
	}
}
