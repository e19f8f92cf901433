package authoring

import (
	"context"
	"log/slog"

	model "github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

// mutateEntity applies fn to the draft and schedules the child at index
func (s *Session) mutateEntity(k kind, index int, fn func(*model.Draft) (*model.Draft, error)) error {
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
	s.scheduleEntityLocked(k, index)
	return nil
}

func (s *Session) addEntity(k kind, name, description string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return -1, err
	}
	index := k.count(s.draft)
	s.commitLocked(k.add(s.draft, name, description))
	s.scheduleEntityLocked(k, index)
	return index, nil
}

func (s *Session) addImage(k kind, index int, in NewAttachment) (string, error) {
	a, err := s.newAttachment(in)
	if err != nil {
		return "", err
	}
	return a.LocalID, s.mutateEntity(k, index, func(d *model.Draft) (*model.Draft, error) {
		return k.addImage(d, index, a)
	})
}

func (s *Session) removeImage(k kind, index int, localID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return err
	}
	next, err := k.removeImage(s.draft, index, localID)
	if err != nil {
		return err
	}
	s.commitLocked(next)
	return nil
}

// removeEntity removes the child at index. A child with an identity is
// deleted remotely first and only dropped locally once that succeeded.
// Removal shifts every later sibling down one index, so it is refused while
// any of their writes is in flight or another removal of the same kind is
// outstanding. Their writes are held back until the removal settles and are
// then rescheduled under their new keys.
func (s *Session) removeEntity(ctx context.Context, k kind, index int) error {
	s.mu.Lock()
	if err := s.openLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	n := k.count(s.draft)
	if index < 0 || index >= n {
		s.mu.Unlock()
		return errors.NotFoundf("%s %d not found", k, index).WithMeta("count", n)
	}
	if at, ok := s.removing[k]; ok {
		s.mu.Unlock()
		return errors.FailedPreconditionf("%s %d is being removed", k, at).WithMeta("index", at)
	}
	draftID := s.draft.ID
	for i := index; i < n; i++ {
		if s.scheduler.InFlight(k.key(i, draftID)) {
			s.mu.Unlock()
			return errors.FailedPreconditionf("%s %d is being saved", k, i).WithMeta("index", i)
		}
	}

	s.cancelFromLocked(k, index)
	id := k.entity(s.draft, index).ID
	if id == "" {
		err := s.dropLocked(k, index)
		s.mu.Unlock()
		return err
	}
	s.removing[k] = index
	s.startLoadingLocked(k.section())
	s.mu.Unlock()

	slog.InfoContext(ctx, "deleting "+k.String(), "draft_id", draftID, "id", id)
	err := k.delete(ctx, s.client, draftID, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.removing, k)
	s.stopLoadingLocked(k.section())

	if s.closed {
		return err
	}
	if err != nil {
		s.rescheduleFromLocked(k, index)
		return errors.Wrapf(err, "failed to delete %s %s", k, id)
	}

	// the child may have moved while the call was out
	i := k.indexOf(s.draft, id)
	if i < 0 {
		return nil
	}
	s.cancelFromLocked(k, i)
	return s.dropLocked(k, i)
}

// dropLocked removes the child at index and schedules the started siblings
// that moved into new keys
func (s *Session) dropLocked(k kind, index int) error {
	next, err := k.remove(s.draft, index)
	if err != nil {
		return err
	}
	s.commitLocked(next)
	s.rescheduleFromLocked(k, index)
	return nil
}

// AddLocation appends a location and returns its index
func (s *Session) AddLocation(name, description string) (int, error) {
	return s.addEntity(kindLocation, name, description)
}

// UpdateLocation applies a partial update to the location at index
func (s *Session) UpdateLocation(index int, f model.EntityFields) error {
	return s.mutateEntity(kindLocation, index, func(d *model.Draft) (*model.Draft, error) {
		return kindLocation.update(d, index, f)
	})
}

// RemoveLocation removes the location at index
func (s *Session) RemoveLocation(ctx context.Context, index int) error {
	return s.removeEntity(ctx, kindLocation, index)
}

// AddLocationImage adds a local attachment to the location at index and
// returns its local key
func (s *Session) AddLocationImage(index int, in NewAttachment) (string, error) {
	return s.addImage(kindLocation, index, in)
}

// RemoveLocationImage drops a local attachment. Nothing is sent.
func (s *Session) RemoveLocationImage(index int, localID string) error {
	return s.removeImage(kindLocation, index, localID)
}

// AddNPC appends a non-playable NPC and returns its index
func (s *Session) AddNPC(name, description string) (int, error) {
	return s.addEntity(kindNPC, name, description)
}

// UpdateNPC applies a partial update to the NPC at index
func (s *Session) UpdateNPC(index int, f model.EntityFields) error {
	return s.mutateEntity(kindNPC, index, func(d *model.Draft) (*model.Draft, error) {
		return kindNPC.update(d, index, f)
	})
}

// RemoveNPC removes the NPC at index
func (s *Session) RemoveNPC(ctx context.Context, index int) error {
	return s.removeEntity(ctx, kindNPC, index)
}

// AddNPCImage adds a local attachment to the NPC at index and returns its local key
func (s *Session) AddNPCImage(index int, in NewAttachment) (string, error) {
	return s.addImage(kindNPC, index, in)
}

// RemoveNPCImage drops a local attachment. Nothing is sent.
func (s *Session) RemoveNPCImage(index int, localID string) error {
	return s.removeImage(kindNPC, index, localID)
}
