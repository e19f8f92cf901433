// Package authoring runs an editing session over one draft: every mutation
// is applied locally, validated, scheduled for persistence and, once the
// service answers, reconciled back into whatever the draft has become.
package authoring

import (
	"maps"
	"sync"
	"time"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/scheduler"
	"github.com/KirkDiggler/rpg-authoring/internal/engine/validation"
	model "github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/idgen"
)

// Loading sections
const (
	SectionDraft     = "draft"
	SectionLocations = "locations"
	SectionNPCs      = "npcs"
	SectionSubmit    = "submit"
)

// Config holds the dependencies for a session
type Config struct {
	Client persistence.Client
	Clock  clock.Clock
	// Delay is the debounce window, scheduler.DefaultDelay when zero
	Delay time.Duration
	// IDs mints local attachment keys
	IDs      idgen.Generator
	Notifier Notifier
	// Draft seeds the session, a fresh draft when nil
	Draft *model.Draft
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDs == nil {
		vb.RequiredField("IDs")
	}
	if c.Delay < 0 {
		vb.Field("Delay", "must not be negative")
	}

	return vb.Build()
}

// Session owns one draft. All methods are safe for concurrent use; mutations
// are serialized so each one sees the result of the previous.
type Session struct {
	client    persistence.Client
	ids       idgen.Generator
	notifier  Notifier
	scheduler *scheduler.Scheduler

	mu      sync.Mutex
	draft   *model.Draft
	errs    validation.Result
	loading map[string]int
	// removing holds the index of an outstanding remote delete per kind
	removing map[kind]int
	closed   bool
}

// State is what the presentation layer renders
type State struct {
	Draft   *model.Draft
	Errors  validation.Result
	Saving  bool
	Loading map[string]bool
}

// New creates a new session
func New(cfg *Config) (*Session, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Session{
		client:   cfg.Client,
		ids:      cfg.IDs,
		notifier: cfg.Notifier,
		loading:  make(map[string]int),
		removing: make(map[kind]int),
	}
	if s.notifier == nil {
		s.notifier = LogNotifier{}
	}

	sched, err := scheduler.New(&scheduler.Config{
		Clock:   cfg.Clock,
		Delay:   cfg.Delay,
		OnError: s.saveFailed,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scheduler")
	}
	s.scheduler = sched

	d := cfg.Draft
	if d == nil {
		d = model.NewDraft()
	}
	s.draft = d
	s.errs = validation.ForDraft(d)

	return s, nil
}

// Draft returns the current draft. The value must not be modified.
func (s *Session) Draft() *model.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Errors returns the current validation result
func (s *Session) Errors() validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.errs)
}

// Saving reports whether any write is pending or in flight
func (s *Session) Saving() bool {
	return s.scheduler.Saving()
}

// Loading reports whether a call for section is running
func (s *Session) Loading(section string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading[section] > 0
}

// State returns a consistent view of the session
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	loading := make(map[string]bool, len(s.loading))
	for section, n := range s.loading {
		if n > 0 {
			loading[section] = true
		}
	}
	return State{
		Draft:   s.draft,
		Errors:  maps.Clone(s.errs),
		Saving:  s.scheduler.Saving(),
		Loading: loading,
	}
}

// Wait blocks until no write is in flight
func (s *Session) Wait() {
	s.scheduler.Wait()
}

// Closed reports whether the session was discarded
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) openLocked() error {
	if s.closed {
		return errors.FailedPrecondition("session is closed")
	}
	return nil
}

// commitLocked installs next and recomputes validation
func (s *Session) commitLocked(next *model.Draft) {
	if next == nil || next == s.draft {
		return
	}
	s.draft = next
	s.errs = validation.ForDraft(next)
}

func (s *Session) startLoadingLocked(section string) {
	s.loading[section]++
}

func (s *Session) stopLoading(section string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLoadingLocked(section)
}

func (s *Session) stopLoadingLocked(section string) {
	if s.loading[section] > 0 {
		s.loading[section]--
	}
}
