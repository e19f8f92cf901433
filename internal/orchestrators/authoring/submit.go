package authoring

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/validation"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

// maxFlushRounds bounds how often Submit flushes. A flush can schedule more
// writes, e.g. the children held back until the draft had an identity.
const maxFlushRounds = 5

// SubmitOutput is the result of a successful submission
type SubmitOutput struct {
	GameID string
}

// Submit writes everything still pending, runs the validation gate and,
// when the draft passes, asks the service to build it
func (s *Session) Submit(ctx context.Context) (*SubmitOutput, error) {
	s.mu.Lock()
	if err := s.openLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if len(s.removing) > 0 {
		s.mu.Unlock()
		return nil, errors.Aborted("a removal is still in progress")
	}
	if !s.draft.Persisted() && !s.scheduler.Busy(draftKey) {
		s.scheduleDraftLocked()
	}
	s.startLoadingLocked(SectionSubmit)
	s.mu.Unlock()
	defer s.stopLoading(SectionSubmit)

	if err := s.flush(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to save draft before submitting")
	}

	s.mu.Lock()
	if err := s.openLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	d := s.draft
	result := validation.ForDraft(d)
	s.errs = result
	s.mu.Unlock()

	if !result.Valid() {
		return nil, errors.Wrap(result.Err(), "draft is incomplete")
	}
	if !d.Persisted() {
		return nil, errors.FailedPrecondition("draft has not been saved")
	}

	out, err := s.client.Build(ctx, &persistence.BuildInput{Draft: d})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build draft %s", d.ID)
	}

	slog.InfoContext(ctx, "draft submitted", "draft_id", d.ID, "game_id", out.GameID)
	return &SubmitOutput{GameID: out.GameID}, nil
}

// Flush writes every pending edit now instead of waiting out the quiet period
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if err := s.openLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.flush(ctx)
}

func (s *Session) flush(ctx context.Context) error {
	for round := 0; s.scheduler.Saving(); round++ {
		if round == maxFlushRounds {
			return errors.Aborted("draft is still saving")
		}
		if err := s.scheduler.Flush(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the session without touching the service. Pending writes are
// dropped, in-flight calls are canceled and their responses ignored.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.scheduler.Close()
	s.scheduler.Wait()
}

// Discard closes the session and deletes the draft from the service
func (s *Session) Discard(ctx context.Context) error {
	s.Close()

	s.mu.Lock()
	id := s.draft.ID
	s.mu.Unlock()

	if id == "" {
		return nil
	}
	if _, err := s.client.DeleteDraft(ctx, &persistence.DeleteDraftInput{DraftID: id}); err != nil {
		return errors.Wrapf(err, "failed to delete draft %s", id)
	}

	slog.InfoContext(ctx, "draft discarded", "draft_id", id)
	return nil
}
