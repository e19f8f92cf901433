// Package redisstore implements the persistence contract on Redis. It backs
// local development and integration tests in place of the remote service.
package redisstore

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/rpg-authoring/internal/redis"
)

const (
	keyPrefix         = "authoring:"
	draftKeyPrefix    = keyPrefix + "draft:"
	locationKeyPrefix = keyPrefix + "location:"
	npcKeyPrefix      = keyPrefix + "npc:"
	mediaKeyPrefix    = keyPrefix + "media:"
	gameKeyPrefix     = keyPrefix + "game:"

	maxWatchRetries = 5

	errDraftIDEmpty = "draft ID cannot be empty"
	errInputNil     = "input cannot be nil"
)

var _ persistence.Client = (*Store)(nil)

// Config holds the dependencies for the store
type Config struct {
	Client       redisclient.Client
	IDGenerator  idgen.Generator
	MediaBaseURL string
}

// Validate validates the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	errors.ValidateRequired("MediaBaseURL", c.MediaBaseURL, vb)
	return vb.Build()
}

// Store is a Redis-backed persistence.Client
type Store struct {
	client       redisclient.Client
	ids          idgen.Generator
	mediaBaseURL string
}

// New creates a new store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &Store{
		client:       cfg.Client,
		ids:          cfg.IDGenerator,
		mediaBaseURL: strings.TrimRight(cfg.MediaBaseURL, "/"),
	}, nil
}

func draftKey(id string) string          { return draftKeyPrefix + id }
func draftLocationsKey(id string) string { return draftKeyPrefix + id + ":locations" }
func draftNPCsKey(id string) string      { return draftKeyPrefix + id + ":npcs" }
func locationKey(id string) string       { return locationKeyPrefix + id }
func npcKey(id string) string            { return npcKeyPrefix + id }
func mediaKey(id string) string          { return mediaKeyPrefix + id }
func gameKey(id string) string           { return gameKeyPrefix + id }

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

// load reads and decodes one JSON record
func load(ctx context.Context, c getter, key, kind, id string, v any) error {
	raw, err := c.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return errors.NotFoundf("%s with ID %s not found", kind, id)
		}
		return errors.Wrapf(err, "failed to get %s", kind)
	}
	reflect.ValueOf(v).Elem().SetZero()
	if err := json.Unmarshal(raw, v); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %s", kind)
	}
	return nil
}

// mutate runs a read-modify-write of one JSON record under WATCH. fn
// changes v in place and may queue more commands on pipe; v is written back
// in the same transaction.
func (s *Store) mutate(ctx context.Context, key, kind, id string, v any, fn func(pipe goredis.Pipeliner) error) error {
	txf := func(tx *goredis.Tx) error {
		if err := load(ctx, tx, key, kind, id, v); err != nil {
			return err
		}
		_, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			if err := fn(pipe); err != nil {
				return err
			}
			data, err := json.Marshal(v)
			if err != nil {
				return errors.Wrapf(err, "failed to marshal %s", kind)
			}
			pipe.Set(ctx, key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return nil
		}
		if err == goredis.TxFailedErr {
			continue
		}
		var coded *errors.Error
		if errors.As(err, &coded) {
			return err
		}
		return errors.Wrapf(err, "failed to update %s", kind)
	}
	return errors.Aborted("too many concurrent updates to " + kind + " " + id)
}

func (s *Store) requireDraft(ctx context.Context, draftID string) error {
	if draftID == "" {
		return errors.InvalidArgument(errDraftIDEmpty)
	}
	n, err := s.client.Exists(ctx, draftKey(draftID)).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to check draft")
	}
	if n == 0 {
		return errors.NotFoundf("draft with ID %s not found", draftID)
	}
	return nil
}

func setJSON(ctx context.Context, pipe goredis.Pipeliner, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal record")
	}
	pipe.Set(ctx, key, data, 0)
	return nil
}
