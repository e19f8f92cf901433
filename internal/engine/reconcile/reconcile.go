package reconcile

import (
	"slices"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/charsheet"
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

// Apply merges p into d and returns the merged draft. Applying the same
// patch twice yields the same draft as applying it once. A patch whose
// target cannot be found returns a NOT_FOUND error and d is left alone.
func Apply(d *authoring.Draft, p Patch) (*authoring.Draft, error) {
	if d == nil {
		return nil, errors.InvalidArgument("draft is required")
	}

	switch p := p.(type) {
	case DraftPatch:
		return applyDraft(d, p)
	case LocationPatch:
		return applyLocation(d, p)
	case NPCPatch:
		return applyNPC(d, p)
	case AttachmentPatch:
		return applyAttachment(d, p)
	default:
		return nil, errors.Internalf("unsupported patch %T", p)
	}
}

func applyDraft(d *authoring.Draft, p DraftPatch) (*authoring.Draft, error) {
	if d.ID != "" && p.ID != "" && d.ID != p.ID {
		return nil, errors.NotFoundf("response for draft %s does not match draft %s", p.ID, d.ID).
			WithMeta("draft_id", d.ID)
	}

	next := *d
	if p.ID != "" {
		next.ID = p.ID
	}
	next.Name = mergeField(d.Name, p.Sent.Name, p.Echo.Name)
	next.Description = mergeField(d.Description, p.Sent.Description, p.Echo.Description)
	next.Opener = mergeField(d.Opener, p.Sent.Opener, p.Echo.Opener)
	next.Instructions = mergeField(d.Instructions, p.Sent.Instructions, p.Echo.Instructions)
	if p.Echo.Tags != nil && slices.Equal(d.Tags, p.Sent.Tags) {
		next.Tags = slices.Clone(p.Echo.Tags)
	}

	next.Preview, next.SavedPreview = mergePreview(d.Preview, p.Preview)
	next.Documents, next.SavedDocuments = partition(d.Documents, p.Documents)
	return &next, nil
}

func mergePreview(local *authoring.Attachment, server *Attachment) (*authoring.Attachment, *authoring.SavedAttachment) {
	switch {
	case server == nil:
		return local, nil
	case server.ID == "":
		if local == nil {
			a := fromServer(*server)
			return &a, nil
		}
		return local, nil
	default:
		saved := server.Saved()
		if local != nil && sameUpload(*local, *server) {
			return nil, &saved
		}
		return local, &saved
	}
}

func applyLocation(d *authoring.Draft, p LocationPatch) (*authoring.Draft, error) {
	i, ok := locate(len(d.Locations), func(i int) authoring.Entity { return d.Locations[i].Entity }, p.Target, p.ID)
	if !ok {
		return nil, mismatch("location", p.Target, p.ID)
	}

	l := d.Locations[i]
	l.Entity = applyEntity(l.Entity, p.EntityPatch)
	return d.ReplaceLocation(i, l)
}

func applyNPC(d *authoring.Draft, p NPCPatch) (*authoring.Draft, error) {
	i, ok := locate(len(d.NPCs), func(i int) authoring.Entity { return d.NPCs[i].Entity }, p.Target, p.ID)
	if !ok {
		return nil, mismatch("npc", p.Target, p.ID)
	}

	n := d.NPCs[i]
	n.Entity = applyEntity(n.Entity, p.EntityPatch)
	return d.ReplaceNPC(i, charsheet.Mirror(n))
}

func applyEntity(e authoring.Entity, p EntityPatch) authoring.Entity {
	if p.ID != "" {
		e.ID = p.ID
	}
	e.Name = mergeField(e.Name, p.Sent.Name, p.Echo.Name)
	e.Description = mergeField(e.Description, p.Sent.Description, p.Echo.Description)
	e.Images, e.SavedImages = partition(e.Images, p.Attachments)
	return e
}

func applyAttachment(d *authoring.Draft, p AttachmentPatch) (*authoring.Draft, error) {
	a := p.Attachment

	switch p.Owner {
	case OwnerPreview:
		next := *d
		next.Preview, next.SavedPreview = mergePreview(d.Preview, &a)
		if a.ID == "" {
			next.SavedPreview = d.SavedPreview
		}
		return &next, nil

	case OwnerDocument:
		next := *d
		next.Documents, next.SavedDocuments = promote(d.Documents, d.SavedDocuments, a)
		return &next, nil

	case OwnerLocation:
		i, ok := locate(len(d.Locations), func(i int) authoring.Entity { return d.Locations[i].Entity }, p.Target, p.Target.ID)
		if !ok {
			return nil, mismatch("location", p.Target, p.Target.ID)
		}
		l := d.Locations[i]
		l.Images, l.SavedImages = promote(l.Images, l.SavedImages, a)
		return d.ReplaceLocation(i, l)

	case OwnerNPC:
		i, ok := locate(len(d.NPCs), func(i int) authoring.Entity { return d.NPCs[i].Entity }, p.Target, p.Target.ID)
		if !ok {
			return nil, mismatch("npc", p.Target, p.Target.ID)
		}
		n := d.NPCs[i]
		n.Images, n.SavedImages = promote(n.Images, n.SavedImages, a)
		return d.ReplaceNPC(i, charsheet.Mirror(n))

	default:
		return nil, errors.InvalidArgumentf("unknown attachment owner %q", p.Owner)
	}
}

// locate finds the entity a response belongs to: by server identity, then
// by the index recorded when the call was issued, then by name. Index and
// name only match entities that have no identity yet.
func locate(n int, at func(int) authoring.Entity, t Target, serverID string) (int, bool) {
	id := serverID
	if id == "" {
		id = t.ID
	}
	if id != "" {
		for i := 0; i < n; i++ {
			if at(i).ID == id {
				return i, true
			}
		}
	}

	if t.Index >= 0 && t.Index < n && at(t.Index).ID == "" {
		return t.Index, true
	}

	if t.Name != "" {
		for i := 0; i < n; i++ {
			if e := at(i); e.ID == "" && e.Name == t.Name {
				return i, true
			}
		}
	}
	return -1, false
}

func mismatch(kind string, t Target, serverID string) error {
	return errors.NotFoundf("no local %s matches the response", kind).
		WithMeta("server_id", serverID).
		WithMeta("index", t.Index).
		WithMeta("name", t.Name)
}

// mergeField takes the echoed value only while the local value is still
// the one that was sent, so edits made during the round trip survive.
func mergeField(local, sent, echo string) string {
	if local == sent {
		return echo
	}
	return local
}
