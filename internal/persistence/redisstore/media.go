package redisstore

import (
	"context"
	"slices"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

func validateUpload(u persistence.Upload) error {
	a := authoring.Attachment{LocalID: u.LocalID, VideoURL: u.VideoURL}
	if u.Data != nil || u.FileName != "" {
		a.Media = &authoring.Media{
			FileName:    u.FileName,
			ContentType: u.ContentType,
			Size:        int64(len(u.Data)),
		}
	}
	return a.Validate()
}

// store queues the blob write for an upload and returns the attachment
// the service reports back for it
func (s *Store) store(ctx context.Context, pipe goredis.Pipeliner, u persistence.Upload) (persistence.Attachment, error) {
	if err := validateUpload(u); err != nil {
		return persistence.Attachment{}, err
	}

	id := s.ids.Generate()
	a := persistence.Attachment{
		ID:          id,
		LocalID:     u.LocalID,
		Title:       u.Title,
		Description: u.Description,
	}
	if u.VideoURL != "" {
		a.VideoURL = u.VideoURL
		a.URL = u.VideoURL
		return a, nil
	}

	a.URL = s.mediaBaseURL + "/" + id
	a.FileName = u.FileName
	a.ContentType = u.ContentType
	a.Size = int64(len(u.Data))
	pipe.HSet(ctx, mediaKey(id), map[string]any{
		"file_name":    u.FileName,
		"content_type": u.ContentType,
		"data":         u.Data,
	})
	return a, nil
}

// storeAll appends uploads to existing, skipping uploads whose local key is
// already stored so a repeated call does not duplicate attachments
func (s *Store) storeAll(ctx context.Context, pipe goredis.Pipeliner, existing []persistence.Attachment, uploads []persistence.Upload) ([]persistence.Attachment, error) {
	out := slices.Clone(existing)
	if out == nil {
		out = []persistence.Attachment{}
	}
	for _, u := range uploads {
		if u.LocalID != "" && slices.ContainsFunc(out, func(a persistence.Attachment) bool { return a.LocalID == u.LocalID }) {
			continue
		}
		a, err := s.store(ctx, pipe, u)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func dropMedia(ctx context.Context, pipe goredis.Pipeliner, attachments ...persistence.Attachment) {
	for _, a := range attachments {
		if a.ID != "" && a.VideoURL == "" {
			pipe.Del(ctx, mediaKey(a.ID))
		}
	}
}

func updateMeta(a *persistence.Attachment, title, description *string) {
	if title != nil {
		a.Title = *title
	}
	if description != nil {
		a.Description = *description
	}
}

// Media returns a stored blob and its content type
func (s *Store) Media(ctx context.Context, id string) ([]byte, string, error) {
	fields, err := s.client.HGetAll(ctx, mediaKey(id)).Result()
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to get media")
	}
	if len(fields) == 0 {
		return nil, "", errors.NotFoundf("media with ID %s not found", id)
	}
	return []byte(fields["data"]), fields["content_type"], nil
}
