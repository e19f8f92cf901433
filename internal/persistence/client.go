// Package persistence defines the boundary to the remote authoring service.
// Create and update calls take a partial field set and return the full
// canonical record, including identities assigned to new attachments.
package persistence

//go:generate mockgen -destination=mock/mock_client.go -package=persistencemock github.com/KirkDiggler/rpg-authoring/internal/persistence Client

import (
	"context"
)

// Client is the remote persistence service
type Client interface {
	// CreateDraft creates a draft and assigns its identity
	// Returns errors.InvalidArgument for validation failures
	CreateDraft(ctx context.Context, input *CreateDraftInput) (*CreateDraftOutput, error)

	// UpdateDraft applies a partial update to a draft
	// Returns errors.NotFound if the draft doesn't exist
	UpdateDraft(ctx context.Context, input *UpdateDraftInput) (*UpdateDraftOutput, error)

	// DeleteDraft deletes a draft and everything it owns
	// Returns errors.NotFound if the draft doesn't exist
	DeleteDraft(ctx context.Context, input *DeleteDraftInput) (*DeleteDraftOutput, error)

	// CreateLocation creates a location under a persisted draft
	// Returns errors.NotFound if the draft doesn't exist
	CreateLocation(ctx context.Context, input *CreateLocationInput) (*CreateLocationOutput, error)

	// UpdateLocation applies a partial update to a location
	// Returns errors.NotFound if the location doesn't exist
	UpdateLocation(ctx context.Context, input *UpdateLocationInput) (*UpdateLocationOutput, error)

	// DeleteLocation deletes a location
	// Returns errors.NotFound if the location doesn't exist
	DeleteLocation(ctx context.Context, input *DeleteLocationInput) (*DeleteLocationOutput, error)

	// CreateNPC creates an NPC under a persisted draft
	// Returns errors.NotFound if the draft doesn't exist
	CreateNPC(ctx context.Context, input *CreateNPCInput) (*CreateNPCOutput, error)

	// UpdateNPC applies a partial update to an NPC
	// Returns errors.NotFound if the NPC doesn't exist
	UpdateNPC(ctx context.Context, input *UpdateNPCInput) (*UpdateNPCOutput, error)

	// DeleteNPC deletes an NPC
	// Returns errors.NotFound if the NPC doesn't exist
	DeleteNPC(ctx context.Context, input *DeleteNPCInput) (*DeleteNPCOutput, error)

	// CreateAttachment uploads one attachment to an owner
	// Returns errors.NotFound if the owner doesn't exist
	CreateAttachment(ctx context.Context, input *CreateAttachmentInput) (*CreateAttachmentOutput, error)

	// UpdateAttachment changes an attachment's title or description
	// Returns errors.NotFound if the attachment doesn't exist
	UpdateAttachment(ctx context.Context, input *UpdateAttachmentInput) (*UpdateAttachmentOutput, error)

	// DeleteAttachment removes an attachment from its owner
	// Returns errors.NotFound if the attachment doesn't exist
	DeleteAttachment(ctx context.Context, input *DeleteAttachmentInput) (*DeleteAttachmentOutput, error)

	// Build turns a complete draft into a playable game
	// Returns errors.InvalidArgument if the service rejects the draft
	Build(ctx context.Context, input *BuildInput) (*BuildOutput, error)
}
