package httpclient

import (
	"context"
	"net/http"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

type draftRequest struct {
	persistence.DraftFields
	Preview   *persistence.Upload  `json:"preview,omitempty"`
	Documents []persistence.Upload `json:"documents,omitempty"`
}

type entityRequest struct {
	persistence.EntityFields
	Uploads []persistence.Upload `json:"uploads,omitempty"`
}

type npcRequest struct {
	persistence.NPCFields
	Uploads []persistence.Upload `json:"uploads,omitempty"`
}

type attachmentMetaRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func requireID(name, id string) error {
	if id == "" {
		return errors.InvalidArgumentf("%s cannot be empty", name)
	}
	return nil
}

// CreateDraft posts a new draft
func (c *Client) CreateDraft(ctx context.Context, input *persistence.CreateDraftInput) (*persistence.CreateDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	var record persistence.DraftRecord
	req := draftRequest{DraftFields: input.Fields, Preview: input.Preview, Documents: input.Documents}
	if err := c.do(ctx, http.MethodPost, "/drafts", req, &record); err != nil {
		return nil, err
	}
	return &persistence.CreateDraftOutput{Draft: &record}, nil
}

// UpdateDraft patches a draft
func (c *Client) UpdateDraft(ctx context.Context, input *persistence.UpdateDraftInput) (*persistence.UpdateDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("draft ID", input.DraftID); err != nil {
		return nil, err
	}
	var record persistence.DraftRecord
	req := draftRequest{DraftFields: input.Fields, Preview: input.Preview, Documents: input.Documents}
	if err := c.do(ctx, http.MethodPatch, draftPath(input.DraftID), req, &record); err != nil {
		return nil, err
	}
	return &persistence.UpdateDraftOutput{Draft: &record}, nil
}

// DeleteDraft deletes a draft
func (c *Client) DeleteDraft(ctx context.Context, input *persistence.DeleteDraftInput) (*persistence.DeleteDraftOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("draft ID", input.DraftID); err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodDelete, draftPath(input.DraftID), nil, nil); err != nil {
		return nil, err
	}
	return &persistence.DeleteDraftOutput{}, nil
}

// CreateLocation posts a location under a draft
func (c *Client) CreateLocation(ctx context.Context, input *persistence.CreateLocationInput) (*persistence.CreateLocationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("draft ID", input.DraftID); err != nil {
		return nil, err
	}
	var record persistence.EntityRecord
	req := entityRequest{EntityFields: input.Fields, Uploads: input.Uploads}
	if err := c.do(ctx, http.MethodPost, childPath(input.DraftID, "locations", ""), req, &record); err != nil {
		return nil, err
	}
	return &persistence.CreateLocationOutput{Location: &record}, nil
}

// UpdateLocation patches a location
func (c *Client) UpdateLocation(ctx context.Context, input *persistence.UpdateLocationInput) (*persistence.UpdateLocationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("location ID", input.LocationID); err != nil {
		return nil, err
	}
	var record persistence.EntityRecord
	req := entityRequest{EntityFields: input.Fields, Uploads: input.Uploads}
	if err := c.do(ctx, http.MethodPatch, childPath(input.DraftID, "locations", input.LocationID), req, &record); err != nil {
		return nil, err
	}
	return &persistence.UpdateLocationOutput{Location: &record}, nil
}

// DeleteLocation deletes a location
func (c *Client) DeleteLocation(ctx context.Context, input *persistence.DeleteLocationInput) (*persistence.DeleteLocationOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("location ID", input.LocationID); err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodDelete, childPath(input.DraftID, "locations", input.LocationID), nil, nil); err != nil {
		return nil, err
	}
	return &persistence.DeleteLocationOutput{}, nil
}

// CreateNPC posts an NPC under a draft
func (c *Client) CreateNPC(ctx context.Context, input *persistence.CreateNPCInput) (*persistence.CreateNPCOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("draft ID", input.DraftID); err != nil {
		return nil, err
	}
	var record persistence.NPCRecord
	req := npcRequest{NPCFields: input.Fields, Uploads: input.Uploads}
	if err := c.do(ctx, http.MethodPost, childPath(input.DraftID, "npcs", ""), req, &record); err != nil {
		return nil, err
	}
	return &persistence.CreateNPCOutput{NPC: &record}, nil
}

// UpdateNPC patches an NPC
func (c *Client) UpdateNPC(ctx context.Context, input *persistence.UpdateNPCInput) (*persistence.UpdateNPCOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("npc ID", input.NPCID); err != nil {
		return nil, err
	}
	var record persistence.NPCRecord
	req := npcRequest{NPCFields: input.Fields, Uploads: input.Uploads}
	if err := c.do(ctx, http.MethodPatch, childPath(input.DraftID, "npcs", input.NPCID), req, &record); err != nil {
		return nil, err
	}
	return &persistence.UpdateNPCOutput{NPC: &record}, nil
}

// DeleteNPC deletes an NPC
func (c *Client) DeleteNPC(ctx context.Context, input *persistence.DeleteNPCInput) (*persistence.DeleteNPCOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("npc ID", input.NPCID); err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodDelete, childPath(input.DraftID, "npcs", input.NPCID), nil, nil); err != nil {
		return nil, err
	}
	return &persistence.DeleteNPCOutput{}, nil
}

// CreateAttachment uploads one attachment
func (c *Client) CreateAttachment(ctx context.Context, input *persistence.CreateAttachmentInput) (*persistence.CreateAttachmentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	path, err := attachmentsPath(input.DraftID, input.Owner, input.OwnerID, "")
	if err != nil {
		return nil, err
	}
	var a persistence.Attachment
	if err := c.do(ctx, http.MethodPost, path, input.Upload, &a); err != nil {
		return nil, err
	}
	return &persistence.CreateAttachmentOutput{Attachment: &a}, nil
}

// UpdateAttachment patches attachment metadata
func (c *Client) UpdateAttachment(ctx context.Context, input *persistence.UpdateAttachmentInput) (*persistence.UpdateAttachmentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("attachment ID", input.AttachmentID); err != nil {
		return nil, err
	}
	path, err := attachmentsPath(input.DraftID, input.Owner, input.OwnerID, input.AttachmentID)
	if err != nil {
		return nil, err
	}
	var a persistence.Attachment
	req := attachmentMetaRequest{Title: input.Title, Description: input.Description}
	if err := c.do(ctx, http.MethodPatch, path, req, &a); err != nil {
		return nil, err
	}
	return &persistence.UpdateAttachmentOutput{Attachment: &a}, nil
}

// DeleteAttachment deletes an attachment
func (c *Client) DeleteAttachment(ctx context.Context, input *persistence.DeleteAttachmentInput) (*persistence.DeleteAttachmentOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	if err := requireID("attachment ID", input.AttachmentID); err != nil {
		return nil, err
	}
	path, err := attachmentsPath(input.DraftID, input.Owner, input.OwnerID, input.AttachmentID)
	if err != nil {
		return nil, err
	}
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return nil, err
	}
	return &persistence.DeleteAttachmentOutput{}, nil
}

// Build submits the assembled draft
func (c *Client) Build(ctx context.Context, input *persistence.BuildInput) (*persistence.BuildOutput, error) {
	if input == nil || input.Draft == nil {
		return nil, errors.InvalidArgument("draft is required")
	}
	if err := requireID("draft ID", input.Draft.ID); err != nil {
		return nil, err
	}
	var out persistence.BuildOutput
	if err := c.do(ctx, http.MethodPost, draftPath(input.Draft.ID)+"/build", input.Draft, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
