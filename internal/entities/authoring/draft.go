// Package authoring defines the game-authoring document: a Draft that owns
// ordered Locations and NPCs, each owning two attachment collections.
//
// Every mutation returns a structurally new *Draft and leaves the receiver
// untouched, so callers can compare pointers to detect "nothing changed".
package authoring

// Draft is the top-level authoring document.
// ID stays empty until the first successful persistence call.
type Draft struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Opener       string `json:"opener"`
	Instructions string `json:"instructions"`

	// Preview is a local-only preview; SavedPreview is the server-confirmed one.
	Preview      *Attachment      `json:"preview,omitempty"`
	SavedPreview *SavedAttachment `json:"saved_preview,omitempty"`

	Tags []string `json:"tags"`

	Documents      []Attachment      `json:"documents"`
	SavedDocuments []SavedAttachment `json:"saved_documents"`

	Locations []Location `json:"locations"`
	NPCs      []NPC      `json:"npcs"`

	Features Features      `json:"features"`
	Meta     NarrativeMeta `json:"meta"`
}

// Features are the boolean switches a creator toggles on a draft
type Features struct {
	Combat          bool `json:"combat"`
	ImageGeneration bool `json:"image_generation"`
	Public          bool `json:"public"`
}

// NarrativeMeta holds free-text guidance for the narrator
type NarrativeMeta struct {
	WritingStyle string `json:"writing_style"`
	PlotTwists   string `json:"plot_twists"`
	WorldLore    string `json:"world_lore"`
	PlayerGoals  string `json:"player_goals"`
}

// Entity carries the fields Locations and NPCs share.
// ID stays empty until the service confirms the entity.
type Entity struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Images      []Attachment      `json:"images"`
	SavedImages []SavedAttachment `json:"saved_images"`
}

// Location is a place in the game world
type Location struct {
	Entity
}

// NPC is a non-player character. Playable NPCs carry a CharacterSheet.
type NPC struct {
	Entity
	Playable       bool            `json:"playable"`
	Class          string          `json:"class,omitempty"`
	CharacterSheet *CharacterSheet `json:"character_sheet,omitempty"`
}

// NewDraft returns an in-memory draft with placeholder fields
func NewDraft() *Draft {
	return &Draft{
		Tags:           []string{},
		Documents:      []Attachment{},
		SavedDocuments: []SavedAttachment{},
		Locations:      []Location{},
		NPCs:           []NPC{},
	}
}

// Persisted reports whether the draft has a server identity
func (d *Draft) Persisted() bool {
	return d != nil && d.ID != ""
}

// Persisted reports whether the entity has a server identity
func (e Entity) Persisted() bool {
	return e.ID != ""
}

// Started reports whether both name and description are filled in.
// Only started entities must carry an attachment.
func (e Entity) Started() bool {
	return e.Name != "" && e.Description != ""
}

// AttachmentCount counts local and saved attachments together
func (e Entity) AttachmentCount() int {
	return len(e.Images) + len(e.SavedImages)
}

// FirstImageURL returns the URL of the first server-confirmed attachment
func (e Entity) FirstImageURL() string {
	for _, img := range e.SavedImages {
		if img.URL != "" {
			return img.URL
		}
	}
	return ""
}

// NewLocation creates a local-only location
func NewLocation(name, description string) Location {
	return Location{Entity: newEntity(name, description)}
}

// NewNPC creates a local-only, non-playable NPC
func NewNPC(name, description string) NPC {
	return NPC{Entity: newEntity(name, description)}
}

func newEntity(name, description string) Entity {
	return Entity{
		Name:        name,
		Description: description,
		Images:      []Attachment{},
		SavedImages: []SavedAttachment{},
	}
}
