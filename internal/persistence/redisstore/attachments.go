package redisstore

import (
	"context"
	"slices"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

// withOwner runs fn against the attachment list of the owner under WATCH
func (s *Store) withOwner(ctx context.Context, draftID string, owner persistence.OwnerKind, ownerID string, fn func(pipe goredis.Pipeliner, list *[]persistence.Attachment) error) error {
	switch owner {
	case persistence.OwnerLocation:
		var record persistence.EntityRecord
		return s.mutate(ctx, locationKey(ownerID), "location", ownerID, &record, func(pipe goredis.Pipeliner) error {
			if err := checkOwner(record.DraftID, draftID, "location", ownerID); err != nil {
				return err
			}
			return fn(pipe, &record.Attachments)
		})

	case persistence.OwnerNPC:
		var record persistence.NPCRecord
		return s.mutate(ctx, npcKey(ownerID), "npc", ownerID, &record, func(pipe goredis.Pipeliner) error {
			if err := checkOwner(record.DraftID, draftID, "npc", ownerID); err != nil {
				return err
			}
			return fn(pipe, &record.Attachments)
		})

	case persistence.OwnerDocument:
		var record persistence.DraftRecord
		return s.mutate(ctx, draftKey(draftID), "draft", draftID, &record, func(pipe goredis.Pipeliner) error {
			return fn(pipe, &record.Documents)
		})

	case persistence.OwnerPreview:
		var record persistence.DraftRecord
		return s.mutate(ctx, draftKey(draftID), "draft", draftID, &record, func(pipe goredis.Pipeliner) error {
			var list []persistence.Attachment
			if record.Preview != nil {
				list = []persistence.Attachment{*record.Preview}
			}
			if err := fn(pipe, &list); err != nil {
				return err
			}
			record.Preview = nil
			if len(list) > 0 {
				p := list[len(list)-1]
				record.Preview = &p
				dropMedia(ctx, pipe, list[:len(list)-1]...)
			}
			return nil
		})

	default:
		return errors.InvalidArgumentf("unknown attachment owner %q", owner)
	}
}

// CreateAttachment uploads one attachment. Uploading a local key that is
// already stored returns the stored attachment.
func (s *Store) CreateAttachment(ctx context.Context, input *persistence.CreateAttachmentInput) (*persistence.CreateAttachmentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}
	if input.DraftID == "" {
		return nil, errors.InvalidArgument(errDraftIDEmpty)
	}

	var created persistence.Attachment
	err := s.withOwner(ctx, input.DraftID, input.Owner, input.OwnerID, func(pipe goredis.Pipeliner, list *[]persistence.Attachment) error {
		out, err := s.storeAll(ctx, pipe, *list, []persistence.Upload{input.Upload})
		if err != nil {
			return err
		}
		i := slices.IndexFunc(out, func(a persistence.Attachment) bool { return a.LocalID == input.Upload.LocalID })
		if i < 0 {
			i = len(out) - 1
		}
		created = out[i]
		*list = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &persistence.CreateAttachmentOutput{Attachment: &created}, nil
}

// UpdateAttachment changes an attachment's title or description
func (s *Store) UpdateAttachment(ctx context.Context, input *persistence.UpdateAttachmentInput) (*persistence.UpdateAttachmentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	var updated persistence.Attachment
	err := s.withOwner(ctx, input.DraftID, input.Owner, input.OwnerID, func(_ goredis.Pipeliner, list *[]persistence.Attachment) error {
		i := slices.IndexFunc(*list, func(a persistence.Attachment) bool { return a.ID == input.AttachmentID })
		if i < 0 {
			return errors.NotFoundf("attachment with ID %s not found", input.AttachmentID)
		}
		updateMeta(&(*list)[i], input.Title, input.Description)
		updated = (*list)[i]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &persistence.UpdateAttachmentOutput{Attachment: &updated}, nil
}

// DeleteAttachment removes an attachment and its blob
func (s *Store) DeleteAttachment(ctx context.Context, input *persistence.DeleteAttachmentInput) (*persistence.DeleteAttachmentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument(errInputNil)
	}

	err := s.withOwner(ctx, input.DraftID, input.Owner, input.OwnerID, func(pipe goredis.Pipeliner, list *[]persistence.Attachment) error {
		i := slices.IndexFunc(*list, func(a persistence.Attachment) bool { return a.ID == input.AttachmentID })
		if i < 0 {
			return errors.NotFoundf("attachment with ID %s not found", input.AttachmentID)
		}
		dropMedia(ctx, pipe, (*list)[i])
		*list = slices.Delete(slices.Clone(*list), i, i+1)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &persistence.DeleteAttachmentOutput{}, nil
}
