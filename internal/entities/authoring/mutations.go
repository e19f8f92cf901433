package authoring

import (
	"slices"

	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

// DraftFields is a partial update of the draft's own fields.
// Nil pointers (and a nil Tags slice) leave the field untouched.
type DraftFields struct {
	Name         *string
	Description  *string
	Opener       *string
	Instructions *string
	Tags         []string
	Features     *Features
	Meta         *NarrativeMeta
}

// EntityFields is a partial update of a location's or NPC's text fields
type EntityFields struct {
	Name        *string
	Description *string
}

// ApplyFields returns a copy of the draft with fields applied
func (d *Draft) ApplyFields(f DraftFields) *Draft {
	next := *d
	if f.Name != nil {
		next.Name = *f.Name
	}
	if f.Description != nil {
		next.Description = *f.Description
	}
	if f.Opener != nil {
		next.Opener = *f.Opener
	}
	if f.Instructions != nil {
		next.Instructions = *f.Instructions
	}
	if f.Tags != nil {
		next.Tags = slices.Clone(f.Tags)
	}
	if f.Features != nil {
		next.Features = *f.Features
	}
	if f.Meta != nil {
		next.Meta = *f.Meta
	}
	return &next
}

// WithID returns a copy of the draft carrying the server identity
func (d *Draft) WithID(id string) *Draft {
	next := *d
	next.ID = id
	return &next
}

// SetPreview replaces the local preview. A nil attachment clears it.
func (d *Draft) SetPreview(a *Attachment) (*Draft, error) {
	if a != nil {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		cp := *a
		a = &cp
	}
	next := *d
	next.Preview = a
	return &next, nil
}

// RemoveSavedPreview drops the server-confirmed preview if it has identity id
func (d *Draft) RemoveSavedPreview(id string) (*Draft, error) {
	if d.SavedPreview == nil || d.SavedPreview.ID != id {
		return nil, errors.NotFoundf("saved preview %s not found", id)
	}
	next := *d
	next.SavedPreview = nil
	return &next, nil
}

// AddDocument appends a local document attachment
func (d *Draft) AddDocument(a Attachment) (*Draft, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	next := *d
	next.Documents = appendTo(d.Documents, a)
	return &next, nil
}

// RemoveDocument drops a local document attachment by its local key
func (d *Draft) RemoveDocument(localID string) (*Draft, error) {
	i := slices.IndexFunc(d.Documents, func(a Attachment) bool { return a.LocalID == localID })
	if i < 0 {
		return nil, errors.NotFoundf("document %s not found", localID)
	}
	next := *d
	next.Documents = removeAt(d.Documents, i)
	return &next, nil
}

// RemoveSavedDocument drops a server-confirmed document by identity
func (d *Draft) RemoveSavedDocument(id string) (*Draft, error) {
	i := slices.IndexFunc(d.SavedDocuments, func(a SavedAttachment) bool { return a.ID == id })
	if i < 0 {
		return nil, errors.NotFoundf("saved document %s not found", id)
	}
	next := *d
	next.SavedDocuments = removeAt(d.SavedDocuments, i)
	return &next, nil
}

// Location returns the location at index
func (d *Draft) Location(index int) (Location, error) {
	if index < 0 || index >= len(d.Locations) {
		return Location{}, errors.NotFoundf("location %d not found", index).
			WithMeta("count", len(d.Locations))
	}
	return d.Locations[index], nil
}

// AddLocation appends a location
func (d *Draft) AddLocation(l Location) *Draft {
	next := *d
	next.Locations = appendTo(d.Locations, l)
	return &next
}

// ReplaceLocation swaps the location at index for l
func (d *Draft) ReplaceLocation(index int, l Location) (*Draft, error) {
	if _, err := d.Location(index); err != nil {
		return nil, err
	}
	next := *d
	next.Locations = replaceAt(d.Locations, index, l)
	return &next, nil
}

// UpdateLocation applies text field changes to the location at index
func (d *Draft) UpdateLocation(index int, f EntityFields) (*Draft, error) {
	l, err := d.Location(index)
	if err != nil {
		return nil, err
	}
	l.Entity = l.Entity.withFields(f)
	return d.ReplaceLocation(index, l)
}

// RemoveLocation drops the location at index. Locations with a server
// identity must be deleted remotely before this is called.
func (d *Draft) RemoveLocation(index int) (*Draft, error) {
	if _, err := d.Location(index); err != nil {
		return nil, err
	}
	next := *d
	next.Locations = removeAt(d.Locations, index)
	return &next, nil
}

// AddLocationImage appends a local attachment to the location at index
func (d *Draft) AddLocationImage(index int, a Attachment) (*Draft, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	l, err := d.Location(index)
	if err != nil {
		return nil, err
	}
	l.Entity = l.Entity.withImage(a)
	return d.ReplaceLocation(index, l)
}

// RemoveLocationImage drops a local attachment from the location at index
func (d *Draft) RemoveLocationImage(index int, localID string) (*Draft, error) {
	l, err := d.Location(index)
	if err != nil {
		return nil, err
	}
	e, err := l.Entity.withoutImage(localID)
	if err != nil {
		return nil, err
	}
	l.Entity = e
	return d.ReplaceLocation(index, l)
}

// RemoveLocationSavedImage drops a server-confirmed attachment from the location at index
func (d *Draft) RemoveLocationSavedImage(index int, id string) (*Draft, error) {
	l, err := d.Location(index)
	if err != nil {
		return nil, err
	}
	e, err := l.Entity.withoutSavedImage(id)
	if err != nil {
		return nil, err
	}
	l.Entity = e
	return d.ReplaceLocation(index, l)
}

// NPC returns the NPC at index
func (d *Draft) NPC(index int) (NPC, error) {
	if index < 0 || index >= len(d.NPCs) {
		return NPC{}, errors.NotFoundf("npc %d not found", index).
			WithMeta("count", len(d.NPCs))
	}
	return d.NPCs[index], nil
}

// AddNPC appends an NPC
func (d *Draft) AddNPC(n NPC) *Draft {
	next := *d
	next.NPCs = appendTo(d.NPCs, n)
	return &next
}

// ReplaceNPC swaps the NPC at index for n
func (d *Draft) ReplaceNPC(index int, n NPC) (*Draft, error) {
	if _, err := d.NPC(index); err != nil {
		return nil, err
	}
	next := *d
	next.NPCs = replaceAt(d.NPCs, index, n)
	return &next, nil
}

// UpdateNPC applies text field changes to the NPC at index
func (d *Draft) UpdateNPC(index int, f EntityFields) (*Draft, error) {
	n, err := d.NPC(index)
	if err != nil {
		return nil, err
	}
	n.Entity = n.Entity.withFields(f)
	return d.ReplaceNPC(index, n)
}

// RemoveNPC drops the NPC at index. NPCs with a server identity must be
// deleted remotely before this is called.
func (d *Draft) RemoveNPC(index int) (*Draft, error) {
	if _, err := d.NPC(index); err != nil {
		return nil, err
	}
	next := *d
	next.NPCs = removeAt(d.NPCs, index)
	return &next, nil
}

// AddNPCImage appends a local attachment to the NPC at index
func (d *Draft) AddNPCImage(index int, a Attachment) (*Draft, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	n, err := d.NPC(index)
	if err != nil {
		return nil, err
	}
	n.Entity = n.Entity.withImage(a)
	return d.ReplaceNPC(index, n)
}

// RemoveNPCImage drops a local attachment from the NPC at index
func (d *Draft) RemoveNPCImage(index int, localID string) (*Draft, error) {
	n, err := d.NPC(index)
	if err != nil {
		return nil, err
	}
	e, err := n.Entity.withoutImage(localID)
	if err != nil {
		return nil, err
	}
	n.Entity = e
	return d.ReplaceNPC(index, n)
}

// RemoveNPCSavedImage drops a server-confirmed attachment from the NPC at index
func (d *Draft) RemoveNPCSavedImage(index int, id string) (*Draft, error) {
	n, err := d.NPC(index)
	if err != nil {
		return nil, err
	}
	e, err := n.Entity.withoutSavedImage(id)
	if err != nil {
		return nil, err
	}
	n.Entity = e
	return d.ReplaceNPC(index, n)
}

func (e Entity) withFields(f EntityFields) Entity {
	if f.Name != nil {
		e.Name = *f.Name
	}
	if f.Description != nil {
		e.Description = *f.Description
	}
	return e
}

func (e Entity) withImage(a Attachment) Entity {
	e.Images = appendTo(e.Images, a)
	return e
}

func (e Entity) withoutImage(localID string) (Entity, error) {
	i := slices.IndexFunc(e.Images, func(a Attachment) bool { return a.LocalID == localID })
	if i < 0 {
		return Entity{}, errors.NotFoundf("image %s not found", localID)
	}
	e.Images = removeAt(e.Images, i)
	return e, nil
}

func (e Entity) withoutSavedImage(id string) (Entity, error) {
	i := slices.IndexFunc(e.SavedImages, func(a SavedAttachment) bool { return a.ID == id })
	if i < 0 {
		return Entity{}, errors.NotFoundf("saved image %s not found", id)
	}
	e.SavedImages = removeAt(e.SavedImages, i)
	return e, nil
}

// The helpers below never write into a slice that another Draft may share.

func appendTo[T any](s []T, v T) []T {
	return append(slices.Clip(s), v)
}

func replaceAt[T any](s []T, i int, v T) []T {
	out := slices.Clone(s)
	out[i] = v
	return out
}

func removeAt[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	return append(out, s[i+1:]...)
}
