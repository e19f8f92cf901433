package authoring

import (
	"context"
	"log/slog"
	"slices"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/reconcile"
	"github.com/KirkDiggler/rpg-authoring/internal/engine/scheduler"
	model "github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

// Writes read the draft when they fire, not when they are scheduled, so a
// follow-up queued behind an in-flight call never resends what that call
// already delivered.

func (s *Session) scheduleDraftLocked() {
	s.scheduler.Notify(draftKey, scheduler.Task{Op: s.saveDraft})
}

// scheduleEntityLocked schedules the child at index. A draft without an
// identity is scheduled too, since no child can be written before it exists.
func (s *Session) scheduleEntityLocked(k kind, index int) {
	if !s.draft.Persisted() && !s.scheduler.Busy(draftKey) {
		s.scheduleDraftLocked()
	}

	key := k.key(index, s.draft.ID)
	s.scheduler.Notify(key, scheduler.Task{
		Guard: func() bool { return s.entityReady(k, index, key) },
		Op:    func(ctx context.Context) error { return s.saveEntity(ctx, k, index) },
	})
}

// scheduleChildrenLocked schedules every started child. Used once the draft
// gets its identity, since the guard held their writes back until then.
func (s *Session) scheduleChildrenLocked() {
	for _, k := range []kind{kindLocation, kindNPC} {
		for i := 0; i < k.count(s.draft); i++ {
			s.scheduler.Cancel(k.key(i, ""))
		}
		s.rescheduleFromLocked(k, 0)
	}
}

// rescheduleFromLocked schedules every started child of kind k at or after from
func (s *Session) rescheduleFromLocked(k kind, from int) {
	for i := from; i < k.count(s.draft); i++ {
		if k.entity(s.draft, i).Started() {
			s.scheduleEntityLocked(k, i)
		}
	}
}

// cancelFromLocked drops pending writes of kind k at or after from
func (s *Session) cancelFromLocked(k kind, from int) {
	for i := from; i < k.count(s.draft); i++ {
		s.scheduler.Cancel(k.key(i, s.draft.ID))
	}
}

// entityReady is the guard for child writes: the draft must have an
// identity, the child must be started, and the key must still address it.
// Children at or after an outstanding removal wait for it, since their
// index is about to shift; the removal reschedules them when it settles.
func (s *Session) entityReady(k kind, index int, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || !s.draft.Persisted() || index >= k.count(s.draft) {
		return false
	}
	if at, ok := s.removing[k]; ok && index >= at {
		return false
	}
	if k.key(index, s.draft.ID) != key {
		return false
	}
	return k.entity(s.draft, index).Started()
}

func (s *Session) saveDraft(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	d := s.draft
	sent := draftText(d)
	fields := draftFields(d)
	var preview *persistence.Upload
	if d.Preview != nil {
		u := persistence.UploadFrom(*d.Preview)
		preview = &u
	}
	documents := persistence.UploadsFrom(d.Documents)
	s.startLoadingLocked(SectionDraft)
	s.mu.Unlock()
	defer s.stopLoading(SectionDraft)

	var record *persistence.DraftRecord
	if d.ID == "" {
		slog.InfoContext(ctx, "creating draft")
		out, err := s.client.CreateDraft(ctx, &persistence.CreateDraftInput{
			Fields:    fields,
			Preview:   preview,
			Documents: documents,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create draft")
		}
		record = out.Draft
	} else {
		slog.InfoContext(ctx, "updating draft", "draft_id", d.ID)
		out, err := s.client.UpdateDraft(ctx, &persistence.UpdateDraftInput{
			DraftID:   d.ID,
			Fields:    fields,
			Preview:   preview,
			Documents: documents,
		})
		if err != nil {
			return errors.Wrapf(err, "failed to update draft %s", d.ID)
		}
		record = out.Draft
	}

	s.reconcile(ctx, draftKey, draftPatch(sent, record))
	return nil
}

// entitySnapshot is what a child write sends
type entitySnapshot struct {
	draftID string
	target  reconcile.Target
	sent    reconcile.Text
	npc     model.NPC
	uploads []persistence.Upload
}

func (s *Session) saveEntity(ctx context.Context, k kind, index int) error {
	s.mu.Lock()
	if s.closed || !s.draft.Persisted() || index >= k.count(s.draft) {
		s.mu.Unlock()
		return nil
	}
	e := k.entity(s.draft, index)
	snap := entitySnapshot{
		draftID: s.draft.ID,
		target:  reconcile.Target{ID: e.ID, Index: index, Name: e.Name},
		sent:    reconcile.Text{Name: e.Name, Description: e.Description},
		uploads: persistence.UploadsFrom(e.Images),
	}
	if k == kindNPC {
		snap.npc = s.draft.NPCs[index]
	}
	key := k.key(index, snap.draftID)
	s.startLoadingLocked(k.section())
	s.mu.Unlock()
	defer s.stopLoading(k.section())

	slog.InfoContext(ctx, "saving "+k.String(),
		"key", key,
		"draft_id", snap.draftID,
		"id", e.ID,
		"uploads", len(snap.uploads))

	patch, err := k.save(ctx, s.client, snap)
	if err != nil {
		return errors.Wrapf(err, "failed to save %s %d", k, index)
	}

	s.reconcile(ctx, key, patch)
	return nil
}

// reconcile folds a response into the current draft. Responses that arrive
// after Discard, or that match no local entity, are dropped.
func (s *Session) reconcile(ctx context.Context, key string, p reconcile.Patch) {
	notice, ok := s.apply(ctx, key, p)
	if !ok {
		s.notifier.Publish(notice)
	}
}

func (s *Session) apply(ctx context.Context, key string, p reconcile.Patch) (Notice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		// keep the identity of a draft created while closing so Discard can delete it
		if dp, ok := p.(reconcile.DraftPatch); ok && !s.draft.Persisted() && dp.ID != "" {
			s.draft = s.draft.WithID(dp.ID)
		}
		slog.DebugContext(ctx, "dropping response for closed session", "key", key)
		return Notice{}, true
	}

	wasPersisted := s.draft.Persisted()
	next, err := reconcile.Apply(s.draft, p)
	if err != nil {
		slog.WarnContext(ctx, "dropping unmatched response",
			"key", key,
			"draft_id", s.draft.ID,
			"error", err)
		return Notice{Kind: NoticeMismatch, Key: key, Message: errors.GetMessage(err), Err: err}, false
	}

	s.commitLocked(next)
	if !wasPersisted && next.Persisted() {
		slog.InfoContext(ctx, "draft persisted", "draft_id", next.ID)
		s.scheduleChildrenLocked()
	}
	return Notice{}, true
}

func (s *Session) saveFailed(key string, err error) {
	slog.Warn("scheduled write failed", "key", key, "error", err)
	s.notifier.Publish(Notice{
		Kind:    NoticeSaveFailed,
		Key:     key,
		Message: errors.GetMessage(err),
		Err:     err,
	})
}

func draftText(d *model.Draft) reconcile.DraftText {
	return reconcile.DraftText{
		Name:         d.Name,
		Description:  d.Description,
		Opener:       d.Opener,
		Instructions: d.Instructions,
		Tags:         slices.Clone(d.Tags),
	}
}

func draftFields(d *model.Draft) persistence.DraftFields {
	t := draftText(d)
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	features := d.Features
	meta := d.Meta
	return persistence.DraftFields{
		Name:         &t.Name,
		Description:  &t.Description,
		Opener:       &t.Opener,
		Instructions: &t.Instructions,
		Tags:         &tags,
		Features:     &features,
		Meta:         &meta,
	}
}

func draftPatch(sent reconcile.DraftText, r *persistence.DraftRecord) reconcile.DraftPatch {
	p := reconcile.DraftPatch{
		ID:   r.ID,
		Sent: sent,
		Echo: reconcile.DraftText{
			Name:         r.Name,
			Description:  r.Description,
			Opener:       r.Opener,
			Instructions: r.Instructions,
			Tags:         r.Tags,
		},
		Documents: attachments(r.Documents),
	}
	if r.Preview != nil {
		a := reconcile.Attachment(*r.Preview)
		p.Preview = &a
	}
	return p
}

func entityPatch(snap entitySnapshot, r *persistence.EntityRecord) reconcile.EntityPatch {
	return reconcile.EntityPatch{
		Target:      snap.target,
		ID:          r.ID,
		Sent:        snap.sent,
		Echo:        reconcile.Text{Name: r.Name, Description: r.Description},
		Attachments: attachments(r.Attachments),
	}
}

func attachments(in []persistence.Attachment) []reconcile.Attachment {
	out := make([]reconcile.Attachment, len(in))
	for i, a := range in {
		out[i] = reconcile.Attachment(a)
	}
	return out
}
