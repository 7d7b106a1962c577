package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"io"
	"os"
	"time"

	"github.com/JayJamieson/table-editor/pkg/api"
	"github.com/JayJamieson/table-editor/pkg/config"
	"github.com/JayJamieson/table-editor/pkg/db"
	"github.com/JayJamieson/table-editor/pkg/logger"
	"github.com/JayJamieson/table-editor/pkg/session"
	"github.com/JayJamieson/table-editor/pkg/volumes"
	"github.com/JayJamieson/table-editor/pkg/warehouse"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Setup("info", nil)
		log.Fatal().Err(err).Msg("failed to load config")
	}

	level := logger.ParseLevel(cfg.LogLevel)
	logger.Setup(cfg.LogLevel, nil)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	wh, err := warehouse.Open(cfg.Warehouse)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open warehouse")
	}

	saveLog, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open save log")
	}

	if d := wh.Dialect(); !d.Transactions {
		log.Warn().Str("dialect", d.Name).Msg("warehouse has no transactions, a failed save can be partially applied")
	}

	fs, err := volumes.NewFilesystem(cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create volume storage")
	}

	store := session.NewStore(wh, saveLog, cfg.SessionTTL)

	server, err := api.New(api.Config{
		Port:          cfg.Port,
		LogLevel:      level,
		CSRFKey:       csrfKey(cfg.CSRFKey),
		SecureCookies: cfg.SecureCookies,
	}, api.Deps{
		Sessions: store,
		Tables:   wh,
		Saves:    saveLog,
		Volumes:  volumes.New(fs),
		Closers:  []io.Closer{wh, saveLog},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.RunPruner(ctx, time.Minute)

	log.Info().
		Str("warehouse", cfg.Warehouse.Driver).
		Str("storage", cfg.Storage.Mode).
		Dur("session_ttl", cfg.SessionTTL).
		Msg("table editor configured")

	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}

// csrfKey derives the 32 byte CSRF key. Without a configured key a random
// one is used and forms stop validating after a restart.
func csrfKey(configured string) []byte {
	if configured != "" {
		sum := sha256.Sum256([]byte(configured))
		return sum[:]
	}

	log.Warn().Msg("CSRF_KEY not set, using a random key")
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatal().Err(err).Msg("failed to generate csrf key")
	}
	return key
}
