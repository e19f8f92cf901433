package redisstore

import (
	"context"
	"encoding/json"
	"slices"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

func applyDraftFields(r *persistence.DraftRecord, f persistence.DraftFields) {
	if f.Name != nil {
		r.Name = *f.Name
	}
	if f.Description != nil {
		r.Description = *f.Description
	}
	if f.Opener != nil {
		r.Opener = *f.Opener
	}
	if f.Instructions != nil {
		r.Instructions = *f.Instructions
	}
	if f.Tags != nil {
		r.Tags = slices.Clone(*f.Tags)
	}
	if f.Features != nil {
		r.Features = *f.Features
	}
	if f.Meta != nil {
		r.Meta = *f.Meta
	}
}

// CreateDraft stores a new draft with its preview and documents
func (s *Store) CreateDraft(ctx context.Context, input *persistence.CreateDraftInput) (*persistence.CreateDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	record := &persistence.DraftRecord{
		ID:          s.ids.Generate(),
		Tags:        []string{},
		Documents:   []persistence.Attachment{},
		LocationIDs: []string{},
		NPCIDs:      []string{},
	}
	applyDraftFields(record, input.Fields)

	pipe := s.client.TxPipeline()
	if input.Preview != nil {
		preview, err := s.store(ctx, pipe, *input.Preview)
		if err != nil {
			return nil, err
		}
		record.Preview = &preview
	}
	docs, err := s.storeAll(ctx, pipe, nil, input.Documents)
	if err != nil {
		return nil, err
	}
	record.Documents = docs

	if err := setJSON(ctx, pipe, draftKey(record.ID), record); err != nil {
		return nil, err
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to create draft")
	}

	return &persistence.CreateDraftOutput{Draft: record}, nil
}

// UpdateDraft applies a partial update. A new preview replaces the old one.
func (s *Store) UpdateDraft(ctx context.Context, input *persistence.UpdateDraftInput) (*persistence.UpdateDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.DraftID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}

	var record persistence.DraftRecord
	err := s.mutate(ctx, draftKey(input.DraftID), "draft", input.DraftID, &record, func(pipe goredis.Pipeliner) error {
		applyDraftFields(&record, input.Fields)

		if p := input.Preview; p != nil && (record.Preview == nil || record.Preview.LocalID != p.LocalID) {
			preview, err := s.store(ctx, pipe, *p)
			if err != nil {
				return err
			}
			if record.Preview != nil {
				dropMedia(ctx, pipe, *record.Preview)
			}
			record.Preview = &preview
		}

		docs, err := s.storeAll(ctx, pipe, record.Documents, input.Documents)
		if err != nil {
			return err
		}
		record.Documents = docs
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.children(ctx, &record); err != nil {
		return nil, err
	}
	return &persistence.UpdateDraftOutput{Draft: &record}, nil
}

// DeleteDraft removes a draft, its locations and NPCs, and their media
func (s *Store) DeleteDraft(ctx context.Context, input *persistence.DeleteDraftInput) (*persistence.DeleteDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	record, err := s.GetDraft(ctx, input.DraftID)
	if err != nil {
		return nil, err
	}

	var owned []persistence.Attachment
	if record.Preview != nil {
		owned = append(owned, *record.Preview)
	}
	owned = append(owned, record.Documents...)

	keys := []string{draftKey(record.ID), draftLocationsKey(record.ID), draftNPCsKey(record.ID)}
	for _, id := range record.LocationIDs {
		var l persistence.EntityRecord
		if err := load(ctx, s.client, locationKey(id), "location", id, &l); err == nil {
			owned = append(owned, l.Attachments...)
		}
		keys = append(keys, locationKey(id))
	}
	for _, id := range record.NPCIDs {
		var n persistence.NPCRecord
		if err := load(ctx, s.client, npcKey(id), "npc", id, &n); err == nil {
			owned = append(owned, n.Attachments...)
		}
		keys = append(keys, npcKey(id))
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, keys...)
	dropMedia(ctx, pipe, owned...)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete draft")
	}
	return &persistence.DeleteDraftOutput{}, nil
}

// GetDraft returns the stored draft with its child identities
func (s *Store) GetDraft(ctx context.Context, draftID string) (*persistence.DraftRecord, error) {
	if draftID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}
	var record persistence.DraftRecord
	if err := load(ctx, s.client, draftKey(draftID), "draft", draftID, &record); err != nil {
		return nil, err
	}
	if err := s.children(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Store) children(ctx context.Context, r *persistence.DraftRecord) error {
	locations, err := s.client.LRange(ctx, draftLocationsKey(r.ID), 0, -1).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to list locations")
	}
	npcs, err := s.client.LRange(ctx, draftNPCsKey(r.ID), 0, -1).Result()
	if err != nil {
		return errors.Wrapf(err, "failed to list npcs")
	}
	r.LocationIDs = locations
	r.NPCIDs = npcs
	return nil
}

// Build snapshots the submitted draft as a game
func (s *Store) Build(ctx context.Context, input *persistence.BuildInput) (*persistence.BuildOutput, error) {
	if input == nil || input.Draft == nil {
		return nil, errors.InvalidArgument("draft is required")
	}
	if err := s.requireDraft(ctx, input.Draft.ID); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Draft)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal draft")
	}

	gameID := s.ids.Generate()
	if err := s.client.Set(ctx, gameKey(gameID), data, 0).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to build game")
	}
	return &persistence.BuildOutput{GameID: gameID}, nil
}
