// Package mocks provides mock expectation helpers for common testing patterns
package mocks

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
	persistencemock "github.com/KirkDiggler/rpg-authoring/internal/persistence/mock"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/idgen"
)

// Service answers persistence calls on a MockClient the way the remote
// service does: sent fields are echoed, uploads are saved and every response
// carries the full attachment list of its owner.
type Service struct {
	ids idgen.Generator

	mu        sync.Mutex
	drafts    map[string]*persistence.DraftRecord
	locations map[string]*persistence.EntityRecord
	npcs      map[string]*persistence.NPCRecord
}

// NewService creates a Service minting identities from ids
func NewService(ids idgen.Generator) *Service {
	return &Service{
		ids:       ids,
		drafts:    make(map[string]*persistence.DraftRecord),
		locations: make(map[string]*persistence.EntityRecord),
		npcs:      make(map[string]*persistence.NPCRecord),
	}
}

// Draft returns a copy of a stored draft, nil when unknown
func (s *Service) Draft(id string) *persistence.DraftRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.drafts[id]
	if !ok {
		return nil
	}
	out := *r
	return &out
}

// NPC returns a copy of a stored NPC, nil when unknown
func (s *Service) NPC(id string) *persistence.NPCRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.npcs[id]
	if !ok {
		return nil
	}
	out := *r
	return &out
}

// ExpectDrafts answers any number of draft creates and updates
func (s *Service) ExpectDrafts(m *persistencemock.MockClient) {
	m.EXPECT().CreateDraft(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, input *persistence.CreateDraftInput) (*persistence.CreateDraftOutput, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			r := &persistence.DraftRecord{ID: s.ids.Generate()}
			s.drafts[r.ID] = r
			s.writeDraft(r, input.Fields, input.Preview, input.Documents)
			out := *r
			return &persistence.CreateDraftOutput{Draft: &out}, nil
		})

	m.EXPECT().UpdateDraft(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, input *persistence.UpdateDraftInput) (*persistence.UpdateDraftOutput, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			r, ok := s.drafts[input.DraftID]
			if !ok {
				r = &persistence.DraftRecord{ID: input.DraftID}
				s.drafts[r.ID] = r
			}
			s.writeDraft(r, input.Fields, input.Preview, input.Documents)
			out := *r
			return &persistence.UpdateDraftOutput{Draft: &out}, nil
		})
}

// ExpectLocations answers any number of location creates and updates
func (s *Service) ExpectLocations(m *persistencemock.MockClient) {
	m.EXPECT().CreateLocation(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, input *persistence.CreateLocationInput) (*persistence.CreateLocationOutput, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			r := &persistence.EntityRecord{ID: s.ids.Generate(), DraftID: input.DraftID}
			s.locations[r.ID] = r
			s.writeEntity(r, input.Fields, input.Uploads)
			out := *r
			return &persistence.CreateLocationOutput{Location: &out}, nil
		})

	m.EXPECT().UpdateLocation(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, input *persistence.UpdateLocationInput) (*persistence.UpdateLocationOutput, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			r, ok := s.locations[input.LocationID]
			if !ok {
				r = &persistence.EntityRecord{ID: input.LocationID, DraftID: input.DraftID}
				s.locations[r.ID] = r
			}
			s.writeEntity(r, input.Fields, input.Uploads)
			out := *r
			return &persistence.UpdateLocationOutput{Location: &out}, nil
		})
}

// ExpectNPCs answers any number of NPC creates and updates
func (s *Service) ExpectNPCs(m *persistencemock.MockClient) {
	m.EXPECT().CreateNPC(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, input *persistence.CreateNPCInput) (*persistence.CreateNPCOutput, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			r := &persistence.NPCRecord{EntityRecord: persistence.EntityRecord{ID: s.ids.Generate(), DraftID: input.DraftID}}
			s.npcs[r.ID] = r
			s.writeNPC(r, input.Fields, input.Uploads)
			out := *r
			return &persistence.CreateNPCOutput{NPC: &out}, nil
		})

	m.EXPECT().UpdateNPC(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(_ context.Context, input *persistence.UpdateNPCInput) (*persistence.UpdateNPCOutput, error) {
			s.mu.Lock()
			defer s.mu.Unlock()
			r, ok := s.npcs[input.NPCID]
			if !ok {
				r = &persistence.NPCRecord{EntityRecord: persistence.EntityRecord{ID: input.NPCID, DraftID: input.DraftID}}
				s.npcs[r.ID] = r
			}
			s.writeNPC(r, input.Fields, input.Uploads)
			out := *r
			return &persistence.UpdateNPCOutput{NPC: &out}, nil
		})
}

func (s *Service) writeDraft(r *persistence.DraftRecord, f persistence.DraftFields, preview *persistence.Upload, docs []persistence.Upload) {
	setString(&r.Name, f.Name)
	setString(&r.Description, f.Description)
	setString(&r.Opener, f.Opener)
	setString(&r.Instructions, f.Instructions)
	if f.Tags != nil {
		r.Tags = slices.Clone(*f.Tags)
	}
	if f.Features != nil {
		r.Features = *f.Features
	}
	if f.Meta != nil {
		r.Meta = *f.Meta
	}
	if preview != nil {
		a := s.save(*preview)
		r.Preview = &a
	}
	r.Documents = s.saveAll(r.Documents, docs)
}

func (s *Service) writeEntity(r *persistence.EntityRecord, f persistence.EntityFields, uploads []persistence.Upload) {
	setString(&r.Name, f.Name)
	setString(&r.Description, f.Description)
	r.Attachments = s.saveAll(r.Attachments, uploads)
}

func (s *Service) writeNPC(r *persistence.NPCRecord, f persistence.NPCFields, uploads []persistence.Upload) {
	s.writeEntity(&r.EntityRecord, f.EntityFields, uploads)
	if f.Playable != nil {
		r.Playable = *f.Playable
	}
	if f.Class != nil {
		r.Class = *f.Class
	}
	r.CharacterSheet = f.CharacterSheet.Clone()
}

// saveAll appends uploads to existing, skipping local keys already saved
func (s *Service) saveAll(existing []persistence.Attachment, uploads []persistence.Upload) []persistence.Attachment {
	out := slices.Clone(existing)
	for _, u := range uploads {
		if slices.ContainsFunc(out, func(a persistence.Attachment) bool { return a.LocalID == u.LocalID }) {
			continue
		}
		out = append(out, s.save(u))
	}
	return out
}

func (s *Service) save(u persistence.Upload) persistence.Attachment {
	id := s.ids.Generate()
	a := persistence.Attachment{
		ID:          id,
		LocalID:     u.LocalID,
		FileName:    u.FileName,
		ContentType: u.ContentType,
		Size:        int64(len(u.Data)),
		Title:       u.Title,
		Description: u.Description,
		URL:         "https://media.test/" + id,
	}
	if u.VideoURL != "" {
		a.VideoURL = u.VideoURL
		a.URL = u.VideoURL
	}
	return a
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
