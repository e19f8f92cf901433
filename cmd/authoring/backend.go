package main

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-authoring/internal/config"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence/httpclient"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence/redisstore"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-authoring/internal/redis"
)

// newClient creates the persistence client the config selects
func newClient(ctx context.Context, cfg *config.Config) (persistence.Client, func(), error) {
	switch cfg.Backend {
	case config.BackendHTTP:
		client, err := httpclient.New(&httpclient.Config{
			BaseURL: cfg.APIURL,
			Token:   cfg.APIToken,
			Timeout: cfg.RequestTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create http client: %w", err)
		}
		return client, func() {}, nil

	default:
		rc, err := redis.NewClient(cfg.RedisAddr, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create redis client: %w", err)
		}
		cleanup := func() {
			_ = rc.Close() // nolint:errcheck // safe to ignore in cleanup
		}

		pingCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
		defer cancel()
		if err := redis.Ping(pingCtx, rc); err != nil {
			cleanup()
			return nil, nil, err
		}

		store, err := redisstore.New(&redisstore.Config{
			Client:       rc,
			IDGenerator:  idgen.NewULID(),
			MediaBaseURL: cfg.MediaBaseURL,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create store: %w", err)
		}
		return store, cleanup, nil
	}
}
