package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/reconcile"
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/testutils/builders"
)

type ReconcileTestSuite struct {
	suite.Suite
}

func TestReconcileSuite(t *testing.T) {
	suite.Run(t, new(ReconcileTestSuite))
}

func savedFrom(localID, id string) reconcile.Attachment {
	return reconcile.Attachment{
		ID:          id,
		URL:         builders.MediaURL(id),
		FileName:    localID + ".png",
		ContentType: "image/png",
		Size:        int64(len(localID)),
		LocalID:     localID,
	}
}

func (s *ReconcileTestSuite) assertPartition(e authoring.Entity) {
	saved := make(map[string]bool)
	for _, a := range e.SavedImages {
		saved[a.LocalID] = true
		s.NotEmpty(a.ID)
	}
	for _, a := range e.Images {
		if a.LocalID != "" {
			s.False(saved[a.LocalID], "attachment %s is both local and saved", a.LocalID)
		}
	}
}

func (s *ReconcileTestSuite) TestImageAddedDuringRoundTrip() {
	// the create call carried img-1; img-2 was added before the response
	d := builders.NewDraftBuilder().WithID("draft-1").
		WithLocation(builders.NewLocationBuilder("Cave", "Dark").WithImage("img-1").WithImage("img-2").Build()).
		Build()

	patch := reconcile.LocationPatch{EntityPatch: reconcile.EntityPatch{
		Target:      reconcile.Target{Index: 0, Name: "Cave"},
		ID:          "loc-1",
		Sent:        reconcile.Text{Name: "Cave", Description: "Dark"},
		Echo:        reconcile.Text{Name: "Cave", Description: "Dark"},
		Attachments: []reconcile.Attachment{savedFrom("img-1", "srv-1")},
	}}

	got, err := reconcile.Apply(d, patch)
	s.Require().NoError(err)

	l := got.Locations[0]
	s.Equal("loc-1", l.ID)
	s.Require().Len(l.SavedImages, 1)
	s.Equal("srv-1", l.SavedImages[0].ID)
	s.Equal(builders.MediaURL("srv-1"), l.SavedImages[0].URL)
	s.Require().Len(l.Images, 1)
	s.Equal("img-2", l.Images[0].LocalID)
	s.assertPartition(l.Entity)

	s.Len(d.Locations[0].Images, 2)
	s.Empty(d.Locations[0].SavedImages)
}

func (s *ReconcileTestSuite) TestApplyIsIdempotent() {
	d := builders.NewDraftBuilder().WithID("draft-1").
		WithNPC(builders.NewNPCBuilder("Aria", "A ranger").WithImage("img-1").WithImage("img-2").Playable("Ranger").Build()).
		Build()

	patch := reconcile.NPCPatch{EntityPatch: reconcile.EntityPatch{
		Target: reconcile.Target{Index: 0, Name: "Aria"},
		ID:     "npc-1",
		Sent:   reconcile.Text{Name: "Aria", Description: "A ranger"},
		Echo:   reconcile.Text{Name: "Aria", Description: "A ranger of the north"},
		Attachments: []reconcile.Attachment{
			savedFrom("img-1", "srv-1"),
			{FileName: "scan.png", ContentType: "image/png", Size: 99},
			{VideoURL: "https://youtu.be/dQw4w9WgXcQ"},
		},
	}}

	once, err := reconcile.Apply(d, patch)
	s.Require().NoError(err)
	twice, err := reconcile.Apply(once, patch)
	s.Require().NoError(err)

	s.Equal(once, twice)
	n := twice.NPCs[0]
	s.Equal("A ranger of the north", n.Description)
	s.Len(n.SavedImages, 1)
	s.Len(n.Images, 3)
	s.assertPartition(n.Entity)
	s.Equal("A ranger of the north", n.CharacterSheet.Background)
	s.Equal(builders.MediaURL("srv-1"), n.CharacterSheet.ImageURL)
}

func (s *ReconcileTestSuite) TestEditsDuringRoundTripSurvive() {
	d := builders.NewDraftBuilder().WithID("draft-1").
		WithLocation(builders.NewLocationBuilder("Cave", "Dark and damp, with bats").Build()).
		Build()

	patch := reconcile.LocationPatch{EntityPatch: reconcile.EntityPatch{
		Target: reconcile.Target{Index: 0, Name: "Cave"},
		ID:     "loc-1",
		Sent:   reconcile.Text{Name: "Cave", Description: "Dark and damp"},
		Echo:   reconcile.Text{Name: "The Cave", Description: "Dark and damp"},
	}}

	got, err := reconcile.Apply(d, patch)
	s.Require().NoError(err)
	s.Equal("The Cave", got.Locations[0].Name)
	s.Equal("Dark and damp, with bats", got.Locations[0].Description)
}

func (s *ReconcileTestSuite) TestMatching() {
	d := builders.NewDraftBuilder().WithID("draft-1").
		WithLocation(builders.NewLocationBuilder("Harbor", "Wet").WithID("loc-9").Build()).
		WithLocation(builders.NewLocationBuilder("Cave", "Dark").Build()).
		WithLocation(builders.NewLocationBuilder("Tower", "Tall").Build()).
		Build()

	apply := func(t reconcile.Target, id string) (*authoring.Draft, error) {
		return reconcile.Apply(d, reconcile.LocationPatch{EntityPatch: reconcile.EntityPatch{
			Target: t,
			ID:     id,
			Sent:   reconcile.Text{Name: "-", Description: "-"},
		}})
	}

	s.Run("by identity regardless of index", func() {
		got, err := apply(reconcile.Target{Index: 2}, "loc-9")
		s.Require().NoError(err)
		s.Equal("loc-9", got.Locations[0].ID)
		s.Empty(got.Locations[2].ID)
	})

	s.Run("by recorded index", func() {
		got, err := apply(reconcile.Target{Index: 2, Name: "Cave"}, "loc-new")
		s.Require().NoError(err)
		s.Equal("loc-new", got.Locations[2].ID)
	})

	s.Run("index of a persisted sibling falls back to name", func() {
		got, err := apply(reconcile.Target{Index: 0, Name: "Cave"}, "loc-new")
		s.Require().NoError(err)
		s.Equal("loc-9", got.Locations[0].ID)
		s.Equal("loc-new", got.Locations[1].ID)
	})

	s.Run("unmatched response is rejected", func() {
		_, err := apply(reconcile.Target{Index: 7, Name: "Volcano"}, "loc-new")
		s.Error(err)
		s.True(errors.IsNotFound(err))
	})
}

func (s *ReconcileTestSuite) TestUnsavedAttachmentDedup() {
	d := builders.NewDraftBuilder().WithID("draft-1").
		WithLocation(builders.NewLocationBuilder("Cave", "Dark").WithImage("img-1").Build()).
		Build()
	local := d.Locations[0].Images[0]

	patch := reconcile.LocationPatch{EntityPatch: reconcile.EntityPatch{
		Target: reconcile.Target{Index: 0},
		Sent:   reconcile.Text{Name: "Cave", Description: "Dark"},
		Echo:   reconcile.Text{Name: "Cave", Description: "Dark"},
		Attachments: []reconcile.Attachment{
			{FileName: local.Media.FileName, Size: local.Media.Size, Title: "echoed"},
			{FileName: "other.png", Size: 3, LocalID: "img-1"},
		},
	}}

	got, err := reconcile.Apply(d, patch)
	s.Require().NoError(err)
	s.Require().Len(got.Locations[0].Images, 1)
	s.Equal(local, got.Locations[0].Images[0])
	s.Empty(got.Locations[0].SavedImages)
}

func (s *ReconcileTestSuite) TestDraftPatch() {
	d := builders.NewDraftBuilder().WithName("Keep").WithOpener("It rains, and rains").WithPreview("prev-1").Build()

	patch := reconcile.DraftPatch{
		ID:      "draft-1",
		Sent:    reconcile.DraftText{Name: "Keep", Opener: "It rains", Tags: []string{}},
		Echo:    reconcile.DraftText{Name: "Keep", Opener: "It rains", Tags: []string{"horror"}},
		Preview: &reconcile.Attachment{ID: "srv-prev", URL: builders.MediaURL("srv-prev"), LocalID: "prev-1"},
	}

	got, err := reconcile.Apply(d, patch)
	s.Require().NoError(err)
	s.Equal("draft-1", got.ID)
	s.Equal("It rains, and rains", got.Opener)
	s.Equal([]string{"horror"}, got.Tags)
	s.Nil(got.Preview)
	s.Require().NotNil(got.SavedPreview)
	s.Equal("srv-prev", got.SavedPreview.ID)
	s.Empty(d.ID)

	again, err := reconcile.Apply(got, patch)
	s.Require().NoError(err)
	s.Equal(got, again)

	_, err = reconcile.Apply(got, reconcile.DraftPatch{ID: "draft-2"})
	s.True(errors.IsNotFound(err))
}

func (s *ReconcileTestSuite) TestAttachmentPatch() {
	d := builders.NewDraftBuilder().WithID("draft-1").
		WithNPC(builders.NewNPCBuilder("Aria", "A ranger").WithID("npc-1").WithImage("img-1").WithImage("img-2").Playable("Ranger").Build()).
		Build()

	patch := reconcile.AttachmentPatch{
		Owner:      reconcile.OwnerNPC,
		Target:     reconcile.Target{ID: "npc-1", Index: 0},
		Attachment: savedFrom("img-2", "srv-2"),
	}
	got, err := reconcile.Apply(d, patch)
	s.Require().NoError(err)

	n := got.NPCs[0]
	s.Len(n.Images, 1)
	s.Equal("img-1", n.Images[0].LocalID)
	s.Len(n.SavedImages, 1)
	s.Equal(builders.MediaURL("srv-2"), n.CharacterSheet.ImageURL)

	again, err := reconcile.Apply(got, patch)
	s.Require().NoError(err)
	s.Equal(got, again)

	patch.Attachment.Title = "Portrait"
	renamed, err := reconcile.Apply(got, patch)
	s.Require().NoError(err)
	s.Len(renamed.NPCs[0].SavedImages, 1)
	s.Equal("Portrait", renamed.NPCs[0].SavedImages[0].Title)
}

func (s *ReconcileTestSuite) TestDocumentAttachmentPatch() {
	d := builders.NewDraftBuilder().WithID("draft-1").Build()
	d, err := d.AddDocument(builders.Image("doc-1"))
	s.Require().NoError(err)

	got, err := reconcile.Apply(d, reconcile.AttachmentPatch{
		Owner:      reconcile.OwnerDocument,
		Attachment: savedFrom("doc-1", "srv-doc"),
	})
	s.Require().NoError(err)
	s.Empty(got.Documents)
	s.Len(got.SavedDocuments, 1)
}

func (s *ReconcileTestSuite) TestUnknownOwner() {
	_, err := reconcile.Apply(authoring.NewDraft(), reconcile.AttachmentPatch{Owner: "shelf"})
	s.True(errors.IsInvalidArgument(err))
}
