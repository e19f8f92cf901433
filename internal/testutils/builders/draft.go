// Package builders provides test data builders for creating test fixtures
package builders

import (
	"fmt"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/charsheet"
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
)

// DraftBuilder provides a fluent interface for building test Draft instances
type DraftBuilder struct {
	draft *authoring.Draft
}

// NewDraftBuilder creates a builder for an unsaved draft with placeholder fields
func NewDraftBuilder() *DraftBuilder {
	return &DraftBuilder{draft: authoring.NewDraft()}
}

// WithID sets the server identity
func (b *DraftBuilder) WithID(id string) *DraftBuilder {
	b.draft.ID = id
	return b
}

// WithName sets the draft name
func (b *DraftBuilder) WithName(name string) *DraftBuilder {
	b.draft.Name = name
	return b
}

// WithOpener sets the opening line
func (b *DraftBuilder) WithOpener(opener string) *DraftBuilder {
	b.draft.Opener = opener
	return b
}

// WithTags replaces the tags
func (b *DraftBuilder) WithTags(tags ...string) *DraftBuilder {
	b.draft.Tags = append([]string{}, tags...)
	return b
}

// WithMeta sets the narrative meta
func (b *DraftBuilder) WithMeta(meta authoring.NarrativeMeta) *DraftBuilder {
	b.draft.Meta = meta
	return b
}

// WithPreview sets a local preview image
func (b *DraftBuilder) WithPreview(localID string) *DraftBuilder {
	a := Image(localID)
	b.draft.Preview = &a
	return b
}

// WithSavedPreview sets a server-confirmed preview
func (b *DraftBuilder) WithSavedPreview(id string) *DraftBuilder {
	b.draft.SavedPreview = &authoring.SavedAttachment{ID: id, URL: MediaURL(id)}
	return b
}

// WithLocation appends a location
func (b *DraftBuilder) WithLocation(l authoring.Location) *DraftBuilder {
	b.draft.Locations = append(b.draft.Locations, l)
	return b
}

// WithNPC appends an NPC
func (b *DraftBuilder) WithNPC(n authoring.NPC) *DraftBuilder {
	b.draft.NPCs = append(b.draft.NPCs, n)
	return b
}

// Publishable fills in everything the submission gate requires,
// including a playable NPC with an image
func (b *DraftBuilder) Publishable() *DraftBuilder {
	return b.WithName("The Sunken Keep").
		WithOpener("Rain hammers the drowned stones.").
		WithTags("horror").
		WithSavedPreview("preview-1").
		WithNPC(NewNPCBuilder("Aria", "A ranger").WithSavedImage("npc-img-1").Playable("Ranger").Build())
}

// Build returns the constructed draft
func (b *DraftBuilder) Build() *authoring.Draft {
	return b.draft
}

// LocationBuilder builds test Location values
type LocationBuilder struct {
	location authoring.Location
}

// NewLocationBuilder creates an unsaved location
func NewLocationBuilder(name, description string) *LocationBuilder {
	return &LocationBuilder{location: authoring.NewLocation(name, description)}
}

// WithID sets the server identity
func (b *LocationBuilder) WithID(id string) *LocationBuilder {
	b.location.ID = id
	return b
}

// WithImage appends a local image
func (b *LocationBuilder) WithImage(localID string) *LocationBuilder {
	b.location.Images = append(b.location.Images, Image(localID))
	return b
}

// WithSavedImage appends a server-confirmed image
func (b *LocationBuilder) WithSavedImage(id string) *LocationBuilder {
	b.location.SavedImages = append(b.location.SavedImages, SavedImage(id))
	return b
}

// Build returns the constructed location
func (b *LocationBuilder) Build() authoring.Location {
	return b.location
}

// NPCBuilder builds test NPC values
type NPCBuilder struct {
	npc authoring.NPC
}

// NewNPCBuilder creates an unsaved, non-playable NPC
func NewNPCBuilder(name, description string) *NPCBuilder {
	return &NPCBuilder{npc: authoring.NewNPC(name, description)}
}

// WithID sets the server identity
func (b *NPCBuilder) WithID(id string) *NPCBuilder {
	b.npc.ID = id
	return b
}

// WithImage appends a local image
func (b *NPCBuilder) WithImage(localID string) *NPCBuilder {
	b.npc.Images = append(b.npc.Images, Image(localID))
	return b
}

// WithSavedImage appends a server-confirmed image
func (b *NPCBuilder) WithSavedImage(id string) *NPCBuilder {
	b.npc.SavedImages = append(b.npc.SavedImages, SavedImage(id))
	return b
}

// Playable makes the NPC playable with a level 1 preset sheet of class
func (b *NPCBuilder) Playable(class string) *NPCBuilder {
	b.npc.Class = class
	npc, err := charsheet.TogglePlayable(b.npc, true)
	if err != nil {
		panic(fmt.Sprintf("builders: %v", err))
	}
	b.npc = npc
	return b
}

// WithSheet replaces the character sheet
func (b *NPCBuilder) WithSheet(sheet *authoring.CharacterSheet) *NPCBuilder {
	b.npc.CharacterSheet = sheet
	return b
}

// Build returns the constructed NPC
func (b *NPCBuilder) Build() authoring.NPC {
	return b.npc
}

// Image returns a small valid local PNG attachment
func Image(localID string) authoring.Attachment {
	return authoring.Attachment{
		LocalID: localID,
		Media: &authoring.Media{
			FileName:    localID + ".png",
			ContentType: "image/png",
			Size:        int64(len(localID)),
			Data:        []byte(localID),
		},
	}
}

// SavedImage returns a server-confirmed PNG attachment
func SavedImage(id string) authoring.SavedAttachment {
	return authoring.SavedAttachment{
		ID:          id,
		URL:         MediaURL(id),
		FileName:    id + ".png",
		ContentType: "image/png",
	}
}

// MediaURL is the URL the test fixtures give a saved attachment
func MediaURL(id string) string {
	return "https://media.test/" + id
}
