package persistence

import (
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
)

// OwnerKind names the collection an attachment is uploaded to
type OwnerKind string

// Owner kinds
const (
	OwnerLocation OwnerKind = "location"
	OwnerNPC      OwnerKind = "npc"
	OwnerPreview  OwnerKind = "preview"
	OwnerDocument OwnerKind = "document"
)

// Upload is a local attachment on its way to the service.
// Exactly one of Data and VideoURL is set.
type Upload struct {
	LocalID     string `json:"local_id"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Data        []byte `json:"data,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Attachment is an attachment as the service stores it. ID is empty for
// attachments that were accepted but not yet assigned an identity.
type Attachment struct {
	ID          string `json:"id,omitempty"`
	URL         string `json:"url,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
	FileName    string `json:"file_name,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
	LocalID     string `json:"local_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// DraftFields is a partial draft update. Nil fields are not sent; a non-nil
// empty Tags clears the tags.
type DraftFields struct {
	Name         *string                  `json:"name,omitempty"`
	Description  *string                  `json:"description,omitempty"`
	Opener       *string                  `json:"opener,omitempty"`
	Instructions *string                  `json:"instructions,omitempty"`
	Tags         *[]string                `json:"tags,omitempty"`
	Features     *authoring.Features      `json:"features,omitempty"`
	Meta         *authoring.NarrativeMeta `json:"meta,omitempty"`
}

// DraftRecord is the canonical draft
type DraftRecord struct {
	ID           string                  `json:"id"`
	Name         string                  `json:"name"`
	Description  string                  `json:"description"`
	Opener       string                  `json:"opener"`
	Instructions string                  `json:"instructions"`
	Tags         []string                `json:"tags"`
	Features     authoring.Features      `json:"features"`
	Meta         authoring.NarrativeMeta `json:"meta"`
	Preview      *Attachment             `json:"preview,omitempty"`
	Documents    []Attachment            `json:"documents"`
	LocationIDs  []string                `json:"location_ids"`
	NPCIDs       []string                `json:"npc_ids"`
}

// EntityFields is a partial location or NPC update. Nil fields are not sent.
type EntityFields struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// NPCFields adds the playable fields to an NPC update
type NPCFields struct {
	EntityFields
	Playable       *bool                     `json:"playable,omitempty"`
	Class          *string                   `json:"class,omitempty"`
	CharacterSheet *authoring.CharacterSheet `json:"character_sheet,omitempty"`
}

// EntityRecord is the canonical location or NPC
type EntityRecord struct {
	ID          string       `json:"id"`
	DraftID     string       `json:"draft_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Attachments []Attachment `json:"attachments"`
}

// NPCRecord is the canonical NPC
type NPCRecord struct {
	EntityRecord
	Playable       bool                      `json:"playable"`
	Class          string                    `json:"class,omitempty"`
	CharacterSheet *authoring.CharacterSheet `json:"character_sheet,omitempty"`
}

// CreateDraftInput defines the input for creating a draft
type CreateDraftInput struct {
	Fields    DraftFields
	Preview   *Upload
	Documents []Upload
}

// CreateDraftOutput defines the output for creating a draft
type CreateDraftOutput struct {
	Draft *DraftRecord
}

// UpdateDraftInput defines the input for updating a draft
type UpdateDraftInput struct {
	DraftID   string
	Fields    DraftFields
	Preview   *Upload
	Documents []Upload
}

// UpdateDraftOutput defines the output for updating a draft
type UpdateDraftOutput struct {
	Draft *DraftRecord
}

// DeleteDraftInput defines the input for deleting a draft
type DeleteDraftInput struct {
	DraftID string
}

// DeleteDraftOutput defines the output for deleting a draft
type DeleteDraftOutput struct{}

// CreateLocationInput defines the input for creating a location
type CreateLocationInput struct {
	DraftID string
	Fields  EntityFields
	Uploads []Upload
}

// CreateLocationOutput defines the output for creating a location
type CreateLocationOutput struct {
	Location *EntityRecord
}

// UpdateLocationInput defines the input for updating a location
type UpdateLocationInput struct {
	DraftID    string
	LocationID string
	Fields     EntityFields
	Uploads    []Upload
}

// UpdateLocationOutput defines the output for updating a location
type UpdateLocationOutput struct {
	Location *EntityRecord
}

// DeleteLocationInput defines the input for deleting a location
type DeleteLocationInput struct {
	DraftID    string
	LocationID string
}

// DeleteLocationOutput defines the output for deleting a location
type DeleteLocationOutput struct{}

// CreateNPCInput defines the input for creating an NPC
type CreateNPCInput struct {
	DraftID string
	Fields  NPCFields
	Uploads []Upload
}

// CreateNPCOutput defines the output for creating an NPC
type CreateNPCOutput struct {
	NPC *NPCRecord
}

// UpdateNPCInput defines the input for updating an NPC
type UpdateNPCInput struct {
	DraftID string
	NPCID   string
	Fields  NPCFields
	Uploads []Upload
}

// UpdateNPCOutput defines the output for updating an NPC
type UpdateNPCOutput struct {
	NPC *NPCRecord
}

// DeleteNPCInput defines the input for deleting an NPC
type DeleteNPCInput struct {
	DraftID string
	NPCID   string
}

// DeleteNPCOutput defines the output for deleting an NPC
type DeleteNPCOutput struct{}

// CreateAttachmentInput defines the input for uploading one attachment.
// OwnerID is ignored for draft-level owners.
type CreateAttachmentInput struct {
	DraftID string
	Owner   OwnerKind
	OwnerID string
	Upload  Upload
}

// CreateAttachmentOutput defines the output for uploading one attachment
type CreateAttachmentOutput struct {
	Attachment *Attachment
}

// UpdateAttachmentInput defines the input for changing attachment metadata
type UpdateAttachmentInput struct {
	DraftID      string
	Owner        OwnerKind
	OwnerID      string
	AttachmentID string
	Title        *string
	Description  *string
}

// UpdateAttachmentOutput defines the output for changing attachment metadata
type UpdateAttachmentOutput struct {
	Attachment *Attachment
}

// DeleteAttachmentInput defines the input for removing an attachment
type DeleteAttachmentInput struct {
	DraftID      string
	Owner        OwnerKind
	OwnerID      string
	AttachmentID string
}

// DeleteAttachmentOutput defines the output for removing an attachment
type DeleteAttachmentOutput struct{}

// BuildInput defines the input for building a game from a draft
type BuildInput struct {
	Draft *authoring.Draft
}

// BuildOutput defines the output for building a game from a draft
type BuildOutput struct {
	GameID string `json:"game_id"`
}

// UploadFrom converts a local attachment into an upload
func UploadFrom(a authoring.Attachment) Upload {
	u := Upload{
		LocalID:     a.LocalID,
		VideoURL:    a.VideoURL,
		Title:       a.Title,
		Description: a.Description,
	}
	if a.Media != nil {
		u.FileName = a.Media.FileName
		u.ContentType = a.Media.ContentType
		u.Data = a.Media.Data
	}
	return u
}

// UploadsFrom converts a list of local attachments
func UploadsFrom(in []authoring.Attachment) []Upload {
	out := make([]Upload, len(in))
	for i, a := range in {
		out[i] = UploadFrom(a)
	}
	return out
}
