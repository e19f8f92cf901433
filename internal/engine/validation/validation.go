// Package validation is the completeness gate a draft must pass before it
// can be submitted. Every rule runs; nothing short-circuits.
package validation

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/charsheet"
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

// Field keys that are not tied to a single entity
const (
	FieldPreview      = "preview"
	FieldName         = "name"
	FieldOpener       = "opener"
	FieldWritingStyle = "writing_style"
	FieldPlotTwists   = "plot_twists"
	FieldTags         = "tags"
	FieldPlayable     = "playable"
)

// NoPlayableMessage is reported when no started NPC can be played
const NoPlayableMessage = "at least one playable character is required"

// Input is what the gate looks at. Tone and Secrets are the writing-style and
// plot-twist texts, which may still be in an editor and not on the draft yet.
type Input struct {
	Draft   *authoring.Draft
	Tone    string
	Secrets string
}

// Result maps a field key to a human readable message. Empty means valid.
type Result map[string]string

// Valid reports whether no rule failed
func (r Result) Valid() bool {
	return len(r) == 0
}

// Err returns an INVALID_ARGUMENT error carrying the result, or nil
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	vb := errors.NewValidationBuilder()
	for field, msg := range r {
		vb.Field(field, msg)
	}
	return vb.Build()
}

// LocationField is the key of a field on the location at index
func LocationField(index int, field string) string {
	return fmt.Sprintf("locations.%d.%s", index, field)
}

// NPCField is the key of a field on the NPC at index
func NPCField(index int, field string) string {
	return fmt.Sprintf("npcs.%d.%s", index, field)
}

// ForDraft validates a draft using its own narrative meta for tone and secrets
func ForDraft(d *authoring.Draft) Result {
	return Validate(Input{Draft: d, Tone: d.Meta.WritingStyle, Secrets: d.Meta.PlotTwists})
}

// Validate runs every rule against the input
func Validate(in Input) Result {
	vb := errors.NewValidationBuilder()
	d := in.Draft
	if d == nil {
		d = authoring.NewDraft()
	}

	if d.Preview == nil && d.SavedPreview == nil {
		vb.RequiredField(FieldPreview)
	}
	errors.ValidateRequired(FieldName, d.Name, vb)
	errors.ValidateRequired(FieldOpener, d.Opener, vb)

	tone, secrets := strings.TrimSpace(in.Tone), strings.TrimSpace(in.Secrets)
	if tone != "" && secrets == "" {
		vb.Field(FieldPlotTwists, "is required when a writing style is set")
	}
	if secrets != "" && tone == "" {
		vb.Field(FieldWritingStyle, "is required when plot twists are set")
	}

	if len(d.Tags) == 0 {
		vb.Field(FieldTags, "at least one tag is required")
	}

	for i, l := range d.Locations {
		validateEntity(l.Entity, func(field string) string { return LocationField(i, field) }, vb)
	}

	playable := 0
	for i, n := range d.NPCs {
		if !n.Started() {
			continue
		}
		validateEntity(n.Entity, func(field string) string { return NPCField(i, field) }, vb)
		if !n.Playable {
			continue
		}
		if !charsheet.Complete(n.CharacterSheet) {
			vb.Field(NPCField(i, "character_sheet"), "ability scores exceed the point budget")
			continue
		}
		playable++
	}
	if playable == 0 {
		vb.Field(FieldPlayable, NoPlayableMessage)
	}

	return Result(vb.Messages())
}

// validateEntity applies the started-entity rule. An entity with only a
// name or only a description is not started and is exempt.
func validateEntity(e authoring.Entity, key func(string) string, vb *errors.ValidationBuilder) {
	if !e.Started() {
		return
	}
	errors.ValidateRequired(key("name"), e.Name, vb)
	errors.ValidateRequired(key("description"), e.Description, vb)
	if e.AttachmentCount() == 0 {
		vb.Field(key("images"), "at least one image or video is required")
	}
}
