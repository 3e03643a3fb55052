package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/tuannm99/seedsql/internal"
	"github.com/tuannm99/seedsql/server/seedwire"
)

func main() {
	cfgPath := flag.String("config", "", "config file (yaml); empty uses defaults and SEEDSQL_* env")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	cfg, err := internal.LoadConfig(*cfgPath)
	if err != nil {
		slog.Error("load config", "path", *cfgPath, "err", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	level := slog.LevelInfo
	if cfg.Server.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("app", cfg.AppName)
	slog.SetDefault(logger)

	err = seedwire.Run(seedwire.ServerConfig{
		Addr:         cfg.Server.Addr,
		CacheSize:    cfg.Server.CacheSize,
		MaxFrameSize: cfg.Server.MaxFrameSize,
		ParseOptions: cfg.ParseOptions(),
		Logger:       logger,
	})
	if err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
