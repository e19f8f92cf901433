// Package reconcile folds the service's canonical representation of an
// entity back into the current local draft, which may have moved on since
// the call was issued.
package reconcile

import "github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"

// Patch is one server response. The concrete types are DraftPatch,
// LocationPatch, NPCPatch and AttachmentPatch.
type Patch interface {
	patch()
}

// Attachment is an attachment as the service returns it. ID is empty for
// attachments the service has not assigned an identity to.
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

// Saved converts a server attachment into its confirmed form
func (a Attachment) Saved() authoring.SavedAttachment {
	return authoring.SavedAttachment{
		ID:          a.ID,
		URL:         a.URL,
		VideoURL:    a.VideoURL,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		LocalID:     a.LocalID,
		Title:       a.Title,
		Description: a.Description,
	}
}

// Target records where an entity was when the call was issued
type Target struct {
	ID    string
	Index int // negative when unknown
	Name  string
}

// Text is the pair of text fields locations and NPCs share
type Text struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DraftText is the set of draft text fields a call may carry
type DraftText struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Opener       string   `json:"opener"`
	Instructions string   `json:"instructions"`
	Tags         []string `json:"tags"`
}

// DraftPatch is the response to a draft create or update.
// Sent is what the call carried, Echo is what the service returned.
type DraftPatch struct {
	ID        string
	Sent      DraftText
	Echo      DraftText
	Preview   *Attachment
	Documents []Attachment
}

// EntityPatch is the response to a location or NPC create or update
type EntityPatch struct {
	Target      Target
	ID          string
	Sent        Text
	Echo        Text
	Attachments []Attachment
}

// LocationPatch is the response to a location create or update
type LocationPatch struct {
	EntityPatch
}

// NPCPatch is the response to an NPC create or update
type NPCPatch struct {
	EntityPatch
}

// OwnerKind says which collection an attachment belongs to
type OwnerKind string

// Owner kinds
const (
	OwnerLocation OwnerKind = "location"
	OwnerNPC      OwnerKind = "npc"
	OwnerPreview  OwnerKind = "preview"
	OwnerDocument OwnerKind = "document"
)

// AttachmentPatch is the response to a single attachment create or update.
// Target is ignored for draft-level owners.
type AttachmentPatch struct {
	Owner      OwnerKind
	Target     Target
	Attachment Attachment
}

func (DraftPatch) patch()      {}
func (LocationPatch) patch()   {}
func (NPCPatch) patch()        {}
func (AttachmentPatch) patch() {}
