package redisstore

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

func applyEntityFields(r *persistence.EntityRecord, f persistence.EntityFields) {
	if f.Name != nil {
		r.Name = *f.Name
	}
	if f.Description != nil {
		r.Description = *f.Description
	}
}

func applyNPCFields(r *persistence.NPCRecord, f persistence.NPCFields) {
	applyEntityFields(&r.EntityRecord, f.EntityFields)
	if f.Playable != nil {
		r.Playable = *f.Playable
		if !r.Playable {
			r.Class = ""
			r.CharacterSheet = nil
		}
	}
	if f.Class != nil {
		r.Class = *f.Class
	}
	if f.CharacterSheet != nil {
		r.CharacterSheet = f.CharacterSheet.Clone()
	}
}

// createEntity stores a new child record and links it to its draft
func (s *Store) createEntity(ctx context.Context, uploads []persistence.Upload, key func(string) string, listKey string, build func(id string, attachments []persistence.Attachment) any) error {
	pipe := s.client.TxPipeline()
	id := s.ids.Generate()

	attachments, err := s.storeAll(ctx, pipe, nil, uploads)
	if err != nil {
		return err
	}
	if err := setJSON(ctx, pipe, key(id), build(id, attachments)); err != nil {
		return err
	}
	pipe.RPush(ctx, listKey, id)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "failed to create record")
	}
	return nil
}

// CreateLocation stores a new location under a draft
func (s *Store) CreateLocation(ctx context.Context, input *persistence.CreateLocationInput) (*persistence.CreateLocationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := s.requireDraft(ctx, input.DraftID); err != nil {
		return nil, err
	}

	var record *persistence.EntityRecord
	err := s.createEntity(ctx, input.Uploads, locationKey, draftLocationsKey(input.DraftID),
		func(id string, attachments []persistence.Attachment) any {
			record = &persistence.EntityRecord{ID: id, DraftID: input.DraftID, Attachments: attachments}
			applyEntityFields(record, input.Fields)
			return record
		})
	if err != nil {
		return nil, err
	}
	return &persistence.CreateLocationOutput{Location: record}, nil
}

// UpdateLocation applies a partial update and stores new uploads
func (s *Store) UpdateLocation(ctx context.Context, input *persistence.UpdateLocationInput) (*persistence.UpdateLocationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.LocationID == "" {
		return nil, errors.InvalidArgument("location ID cannot be empty")
	}

	var record persistence.EntityRecord
	err := s.mutate(ctx, locationKey(input.LocationID), "location", input.LocationID, &record, func(pipe goredis.Pipeliner) error {
		if err := checkOwner(record.DraftID, input.DraftID, "location", record.ID); err != nil {
			return err
		}
		applyEntityFields(&record, input.Fields)
		attachments, err := s.storeAll(ctx, pipe, record.Attachments, input.Uploads)
		record.Attachments = attachments
		return err
	})
	if err != nil {
		return nil, err
	}
	return &persistence.UpdateLocationOutput{Location: &record}, nil
}

// DeleteLocation removes a location and its media
func (s *Store) DeleteLocation(ctx context.Context, input *persistence.DeleteLocationInput) (*persistence.DeleteLocationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	var record persistence.EntityRecord
	if err := load(ctx, s.client, locationKey(input.LocationID), "location", input.LocationID, &record); err != nil {
		return nil, err
	}
	if err := checkOwner(record.DraftID, input.DraftID, "location", record.ID); err != nil {
		return nil, err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, locationKey(record.ID))
	pipe.LRem(ctx, draftLocationsKey(record.DraftID), 0, record.ID)
	dropMedia(ctx, pipe, record.Attachments...)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete location")
	}
	return &persistence.DeleteLocationOutput{}, nil
}

// GetLocation returns a stored location
func (s *Store) GetLocation(ctx context.Context, id string) (*persistence.EntityRecord, error) {
	var record persistence.EntityRecord
	if err := load(ctx, s.client, locationKey(id), "location", id, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateNPC stores a new NPC under a draft
func (s *Store) CreateNPC(ctx context.Context, input *persistence.CreateNPCInput) (*persistence.CreateNPCOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if err := s.requireDraft(ctx, input.DraftID); err != nil {
		return nil, err
	}

	var record *persistence.NPCRecord
	err := s.createEntity(ctx, input.Uploads, npcKey, draftNPCsKey(input.DraftID),
		func(id string, attachments []persistence.Attachment) any {
			record = &persistence.NPCRecord{EntityRecord: persistence.EntityRecord{
				ID: id, DraftID: input.DraftID, Attachments: attachments,
			}}
			applyNPCFields(record, input.Fields)
			return record
		})
	if err != nil {
		return nil, err
	}
	return &persistence.CreateNPCOutput{NPC: record}, nil
}

// UpdateNPC applies a partial update and stores new uploads
func (s *Store) UpdateNPC(ctx context.Context, input *persistence.UpdateNPCInput) (*persistence.UpdateNPCOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.NPCID == "" {
		return nil, errors.InvalidArgument("npc ID cannot be empty")
	}

	var record persistence.NPCRecord
	err := s.mutate(ctx, npcKey(input.NPCID), "npc", input.NPCID, &record, func(pipe goredis.Pipeliner) error {
		if err := checkOwner(record.DraftID, input.DraftID, "npc", record.ID); err != nil {
			return err
		}
		applyNPCFields(&record, input.Fields)
		attachments, err := s.storeAll(ctx, pipe, record.Attachments, input.Uploads)
		record.Attachments = attachments
		return err
	})
	if err != nil {
		return nil, err
	}
	return &persistence.UpdateNPCOutput{NPC: &record}, nil
}

// DeleteNPC removes an NPC and its media
func (s *Store) DeleteNPC(ctx context.Context, input *persistence.DeleteNPCInput) (*persistence.DeleteNPCOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	var record persistence.NPCRecord
	if err := load(ctx, s.client, npcKey(input.NPCID), "npc", input.NPCID, &record); err != nil {
		return nil, err
	}
	if err := checkOwner(record.DraftID, input.DraftID, "npc", record.ID); err != nil {
		return nil, err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, npcKey(record.ID))
	pipe.LRem(ctx, draftNPCsKey(record.DraftID), 0, record.ID)
	dropMedia(ctx, pipe, record.Attachments...)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete npc")
	}
	return &persistence.DeleteNPCOutput{}, nil
}

// GetNPC returns a stored NPC
func (s *Store) GetNPC(ctx context.Context, id string) (*persistence.NPCRecord, error) {
	var record persistence.NPCRecord
	if err := load(ctx, s.client, npcKey(id), "npc", id, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func checkOwner(stored, requested, kind, id string) error {
	if requested != "" && stored != requested {
		return errors.NotFoundf("%s %s does not belong to draft %s", kind, id, requested)
	}
	return nil
}
