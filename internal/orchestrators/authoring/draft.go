package authoring

import (
	"context"
	"slices"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/reconcile"
	model "github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

// NewAttachment describes an attachment to add: an uploaded file, or a
// link to a recognised video host
type NewAttachment struct {
	FileName    string
	ContentType string
	Data        []byte
	VideoURL    string
	Title       string
	Description string
}

// AttachmentRef addresses a server-confirmed attachment
type AttachmentRef struct {
	Owner persistence.OwnerKind
	// Index is the location or NPC index, ignored for draft-level owners
	Index int
	ID    string
}

func (s *Session) newAttachment(in NewAttachment) (model.Attachment, error) {
	var (
		a   model.Attachment
		err error
	)
	if in.VideoURL != "" {
		a, err = model.NewVideoAttachment(s.ids.Generate(), in.VideoURL)
	} else {
		a, err = model.NewMediaAttachment(s.ids.Generate(), in.FileName, in.ContentType, in.Data)
	}
	if err != nil {
		return model.Attachment{}, err
	}
	a.Title = in.Title
	a.Description = in.Description
	return a, nil
}

// mutateDraft applies fn to the draft and schedules a draft write
func (s *Session) mutateDraft(fn func(*model.Draft) (*model.Draft, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return err
	}
	next, err := fn(s.draft)
	if err != nil {
		return err
	}
	s.commitLocked(next)
	s.scheduleDraftLocked()
	return nil
}

// UpdateDraft applies a partial update to the draft's own fields
func (s *Session) UpdateDraft(f model.DraftFields) error {
	return s.mutateDraft(func(d *model.Draft) (*model.Draft, error) {
		return d.ApplyFields(f), nil
	})
}

// SetPreview replaces the local preview and returns its local key
func (s *Session) SetPreview(in NewAttachment) (string, error) {
	a, err := s.newAttachment(in)
	if err != nil {
		return "", err
	}
	return a.LocalID, s.mutateDraft(func(d *model.Draft) (*model.Draft, error) {
		return d.SetPreview(&a)
	})
}

// ClearPreview drops the local preview. A saved preview is removed with DeleteAttachment.
func (s *Session) ClearPreview() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return err
	}
	next, err := s.draft.SetPreview(nil)
	if err != nil {
		return err
	}
	s.commitLocked(next)
	return nil
}

// AddDocument appends a local document and returns its local key
func (s *Session) AddDocument(in NewAttachment) (string, error) {
	a, err := s.newAttachment(in)
	if err != nil {
		return "", err
	}
	return a.LocalID, s.mutateDraft(func(d *model.Draft) (*model.Draft, error) {
		return d.AddDocument(a)
	})
}

// RemoveDocument drops a local document. Nothing is sent.
func (s *Session) RemoveDocument(localID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return err
	}
	next, err := s.draft.RemoveDocument(localID)
	if err != nil {
		return err
	}
	s.commitLocked(next)
	return nil
}

// resolved is an AttachmentRef checked against the current draft
type resolved struct {
	draftID string
	ownerID string
	target  reconcile.Target
	section string
}

func (s *Session) resolveLocked(ref AttachmentRef) (resolved, error) {
	if err := s.openLocked(); err != nil {
		return resolved{}, err
	}
	if !s.draft.Persisted() {
		return resolved{}, errors.FailedPrecondition("draft has not been saved")
	}
	r := resolved{draftID: s.draft.ID, section: SectionDraft, target: reconcile.Target{Index: -1}}

	hasID := func(a model.SavedAttachment) bool { return a.ID == ref.ID }
	var found bool

	switch ref.Owner {
	case persistence.OwnerPreview:
		found = s.draft.SavedPreview != nil && s.draft.SavedPreview.ID == ref.ID
	case persistence.OwnerDocument:
		found = slices.ContainsFunc(s.draft.SavedDocuments, hasID)
	case persistence.OwnerLocation, persistence.OwnerNPC:
		k := kindLocation
		if ref.Owner == persistence.OwnerNPC {
			k = kindNPC
		}
		if ref.Index < 0 || ref.Index >= k.count(s.draft) {
			return resolved{}, errors.NotFoundf("%s %d not found", k, ref.Index)
		}
		e := k.entity(s.draft, ref.Index)
		if !e.Persisted() {
			return resolved{}, errors.FailedPreconditionf("%s %d has not been saved", k, ref.Index)
		}
		r.ownerID = e.ID
		r.target = reconcile.Target{ID: e.ID, Index: ref.Index, Name: e.Name}
		r.section = k.section()
		found = slices.ContainsFunc(e.SavedImages, hasID)
	default:
		return resolved{}, errors.InvalidArgumentf("unknown attachment owner %q", ref.Owner)
	}

	if !found {
		return resolved{}, errors.NotFoundf("saved attachment %s not found", ref.ID)
	}
	return r, nil
}

// UpdateAttachment changes the title or description of a saved attachment
func (s *Session) UpdateAttachment(ctx context.Context, ref AttachmentRef, title, description *string) error {
	s.mu.Lock()
	r, err := s.resolveLocked(ref)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.startLoadingLocked(r.section)
	s.mu.Unlock()
	defer s.stopLoading(r.section)

	out, err := s.client.UpdateAttachment(ctx, &persistence.UpdateAttachmentInput{
		DraftID:      r.draftID,
		Owner:        ref.Owner,
		OwnerID:      r.ownerID,
		AttachmentID: ref.ID,
		Title:        title,
		Description:  description,
	})
	if err != nil {
		return errors.Wrapf(err, "failed to update attachment %s", ref.ID)
	}

	s.reconcile(ctx, "attachment-"+ref.ID, reconcile.AttachmentPatch{
		Owner:      reconcile.OwnerKind(ref.Owner),
		Target:     r.target,
		Attachment: reconcile.Attachment(*out.Attachment),
	})
	return nil
}

// DeleteAttachment deletes a saved attachment remotely and, once that
// succeeded, drops it locally
func (s *Session) DeleteAttachment(ctx context.Context, ref AttachmentRef) error {
	s.mu.Lock()
	r, err := s.resolveLocked(ref)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.startLoadingLocked(r.section)
	s.mu.Unlock()

	_, err = s.client.DeleteAttachment(ctx, &persistence.DeleteAttachmentInput{
		DraftID:      r.draftID,
		Owner:        ref.Owner,
		OwnerID:      r.ownerID,
		AttachmentID: ref.ID,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLoadingLocked(r.section)

	if err != nil {
		return errors.Wrapf(err, "failed to delete attachment %s", ref.ID)
	}
	if s.closed {
		return nil
	}

	var next *model.Draft
	switch ref.Owner {
	case persistence.OwnerPreview:
		next, err = s.draft.RemoveSavedPreview(ref.ID)
	case persistence.OwnerDocument:
		next, err = s.draft.RemoveSavedDocument(ref.ID)
	default:
		k := kindLocation
		if ref.Owner == persistence.OwnerNPC {
			k = kindNPC
		}
		// the owner may have moved while the call was out
		i := k.indexOf(s.draft, r.ownerID)
		if i < 0 {
			return nil
		}
		next, err = k.removeSavedImage(s.draft, i, ref.ID)
	}
	if errors.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	s.commitLocked(next)
	return nil
}
