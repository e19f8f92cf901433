package authoring_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/validation"
	model "github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	"github.com/KirkDiggler/rpg-authoring/internal/orchestrators/authoring"
	authoringmock "github.com/KirkDiggler/rpg-authoring/internal/orchestrators/authoring/mock"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
	persistencemock "github.com/KirkDiggler/rpg-authoring/internal/persistence/mock"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-authoring/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-authoring/internal/testutils/builders"
	"github.com/KirkDiggler/rpg-authoring/internal/testutils/mocks"
)

const window = 4 * time.Second

type SessionTestSuite struct {
	suite.Suite
	ctx      context.Context
	ctrl     *gomock.Controller
	client   *persistencemock.MockClient
	notifier *authoringmock.MockNotifier
	clock    *clock.Manual
	session  *authoring.Session
}

func (s *SessionTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.client = persistencemock.NewMockClient(s.ctrl)
	s.notifier = authoringmock.NewMockNotifier(s.ctrl)
	s.clock = clock.NewManual(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	s.start(nil)
}

func (s *SessionTestSuite) TearDownTest() {
	s.session.Close()
	s.ctrl.Finish()
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionTestSuite))
}

// start replaces the session with one seeded with d
func (s *SessionTestSuite) start(d *model.Draft) {
	if s.session != nil {
		s.session.Close()
	}
	var err error
	s.session, err = authoring.New(&authoring.Config{
		Client:   s.client,
		Clock:    s.clock,
		Delay:    window,
		IDs:      idgen.NewSequential("local"),
		Notifier: s.notifier,
		Draft:    d,
	})
	s.Require().NoError(err)
}

// settle lets every due timer fire and waits for the calls they started
func (s *SessionTestSuite) settle() {
	s.clock.Advance(window)
	s.session.Wait()
}

func ptr[T any](v T) *T { return &v }

func png(name string) authoring.NewAttachment {
	return authoring.NewAttachment{FileName: name, ContentType: "image/png", Data: []byte(name)}
}

func (s *SessionTestSuite) TestNewValidatesConfig() {
	_, err := authoring.New(&authoring.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	_, err = authoring.New(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *SessionTestSuite) TestDraftCreatedOnceAfterQuietPeriod() {
	s.client.EXPECT().CreateDraft(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *persistence.CreateDraftInput) (*persistence.CreateDraftOutput, error) {
			s.Equal("Keep", *input.Fields.Name)
			s.Equal("Once upon a time", *input.Fields.Opener)
			s.Nil(input.Preview)
			return &persistence.CreateDraftOutput{Draft: &persistence.DraftRecord{
				ID:     "d1",
				Name:   "Keep",
				Opener: "Once upon a time",
			}}, nil
		})

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Name: ptr("Keep")}))
	s.clock.Advance(200 * time.Millisecond)
	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Opener: ptr("Once upon a time")}))
	s.True(s.session.Saving())

	s.clock.Advance(window - time.Second)
	s.Equal("", s.session.Draft().ID)

	s.settle()
	s.Equal("d1", s.session.Draft().ID)
	s.False(s.session.Saving())
}

func (s *SessionTestSuite) TestRapidNPCEditsSendLatestDescription() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithNPC(builders.NewNPCBuilder("Aria", "").WithID("n1").Build()).
		Build())

	s.client.EXPECT().UpdateNPC(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *persistence.UpdateNPCInput) (*persistence.UpdateNPCOutput, error) {
			s.Equal("d1", input.DraftID)
			s.Equal("n1", input.NPCID)
			s.Equal("A ranger of the north", *input.Fields.Description)
			return &persistence.UpdateNPCOutput{NPC: &persistence.NPCRecord{EntityRecord: persistence.EntityRecord{
				ID:          "n1",
				Name:        "Aria",
				Description: "A ranger of the north",
			}}}, nil
		}).Times(1)

	s.Require().NoError(s.session.UpdateNPC(0, model.EntityFields{Description: ptr("A ranger")}))
	s.clock.Advance(200 * time.Millisecond)
	s.Require().NoError(s.session.UpdateNPC(0, model.EntityFields{Description: ptr("A ranger of the north")}))
	s.settle()
	s.settle()

	s.Equal("A ranger of the north", s.session.Draft().NPCs[0].Description)
}

func (s *SessionTestSuite) TestChildWaitsForDraftIdentity() {
	s.client.EXPECT().CreateDraft(gomock.Any(), gomock.Any()).
		Return(&persistence.CreateDraftOutput{Draft: &persistence.DraftRecord{ID: "d1"}}, nil)
	s.client.EXPECT().CreateLocation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *persistence.CreateLocationInput) (*persistence.CreateLocationOutput, error) {
			s.Equal("d1", input.DraftID)
			s.Equal("Cave", *input.Fields.Name)
			return &persistence.CreateLocationOutput{Location: &persistence.EntityRecord{
				ID: "l1", DraftID: "d1", Name: "Cave", Description: "Damp",
			}}, nil
		})

	index, err := s.session.AddLocation("Cave", "Damp")
	s.Require().NoError(err)
	s.Equal(0, index)

	s.settle()
	s.Equal("d1", s.session.Draft().ID)
	s.Equal("", s.session.Draft().Locations[0].ID)

	s.settle()
	s.Equal("l1", s.session.Draft().Locations[0].ID)
}

func (s *SessionTestSuite) TestUnstartedLocationIsNotWritten() {
	s.start(builders.NewDraftBuilder().WithID("d1").Build())

	_, err := s.session.AddLocation("Cave", "")
	s.Require().NoError(err)
	s.settle()

	s.Equal("", s.session.Draft().Locations[0].ID)
	_, ok := s.session.Errors()[validation.LocationField(0, "images")]
	s.False(ok)
}

func (s *SessionTestSuite) TestImageAddedDuringCallSurvives() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithLocation(builders.NewLocationBuilder("Cave", "Damp").Build()).
		Build())

	started := make(chan struct{})
	release := make(chan struct{})
	s.client.EXPECT().CreateLocation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *persistence.CreateLocationInput) (*persistence.CreateLocationOutput, error) {
			s.Require().Len(input.Uploads, 1)
			s.Equal("local_1", input.Uploads[0].LocalID)
			close(started)
			<-release
			return &persistence.CreateLocationOutput{Location: &persistence.EntityRecord{
				ID: "l1", DraftID: "d1", Name: "Cave", Description: "Damp",
				Attachments: []persistence.Attachment{{
					ID: "att-1", URL: builders.MediaURL("att-1"), FileName: "a.png", ContentType: "image/png", Size: 5, LocalID: "local_1",
				}},
			}}, nil
		})

	first, err := s.session.AddLocationImage(0, png("a.png"))
	s.Require().NoError(err)
	s.Equal("local_1", first)

	s.clock.Advance(window)
	<-started
	s.True(s.session.Loading(authoring.SectionLocations))

	second, err := s.session.AddLocationImage(0, png("b.png"))
	s.Require().NoError(err)
	close(release)
	s.session.Wait()

	loc := s.session.Draft().Locations[0]
	s.Equal("l1", loc.ID)
	s.Require().Len(loc.SavedImages, 1)
	s.Equal("att-1", loc.SavedImages[0].ID)
	s.Require().Len(loc.Images, 1)
	s.Equal(second, loc.Images[0].LocalID)
	s.False(s.session.Loading(authoring.SectionLocations))

	s.client.EXPECT().UpdateLocation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *persistence.UpdateLocationInput) (*persistence.UpdateLocationOutput, error) {
			s.Equal("l1", input.LocationID)
			s.Require().Len(input.Uploads, 1)
			s.Equal(second, input.Uploads[0].LocalID)
			return &persistence.UpdateLocationOutput{Location: &persistence.EntityRecord{
				ID: "l1", DraftID: "d1", Name: "Cave", Description: "Damp",
				Attachments: []persistence.Attachment{
					{ID: "att-1", URL: builders.MediaURL("att-1"), FileName: "a.png", Size: 5, LocalID: "local_1"},
					{ID: "att-2", URL: builders.MediaURL("att-2"), FileName: "b.png", Size: 5, LocalID: second},
				},
			}}, nil
		})
	s.settle()

	loc = s.session.Draft().Locations[0]
	s.Empty(loc.Images)
	s.Len(loc.SavedImages, 2)
}

func (s *SessionTestSuite) TestEditDuringCallIsNotOverwritten() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithLocation(builders.NewLocationBuilder("Cave", "Damp").WithID("l1").Build()).
		Build())

	started := make(chan struct{})
	release := make(chan struct{})
	s.client.EXPECT().UpdateLocation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *persistence.UpdateLocationInput) (*persistence.UpdateLocationOutput, error) {
			close(started)
			<-release
			return &persistence.UpdateLocationOutput{Location: &persistence.EntityRecord{
				ID: "l1", Name: "Cavern", Description: "Damp",
			}}, nil
		})

	s.Require().NoError(s.session.UpdateLocation(0, model.EntityFields{Name: ptr("Cavern")}))
	s.clock.Advance(window)
	<-started
	s.Require().NoError(s.session.UpdateLocation(0, model.EntityFields{Description: ptr("Dripping")}))
	close(release)
	s.session.Wait()

	loc := s.session.Draft().Locations[0]
	s.Equal("Cavern", loc.Name)
	s.Equal("Dripping", loc.Description)
	s.True(s.session.Saving())
}

func (s *SessionTestSuite) TestFailedWriteIsReportedNotRetried() {
	s.start(builders.NewDraftBuilder().WithID("d1").Build())

	s.client.EXPECT().UpdateDraft(gomock.Any(), gomock.Any()).
		Return(nil, errors.Unavailablef("service down")).Times(1)
	s.notifier.EXPECT().Publish(gomock.Any()).Do(func(n authoring.Notice) {
		s.Equal(authoring.NoticeSaveFailed, n.Kind)
		s.Equal("draft", n.Key)
		s.True(errors.IsUnavailable(n.Err))
	})

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Name: ptr("Keep")}))
	s.settle()
	s.settle()

	s.Equal("Keep", s.session.Draft().Name)
	s.False(s.session.Saving())
}

func (s *SessionTestSuite) TestUnmatchedResponseIsDropped() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithLocation(builders.NewLocationBuilder("Cave", "Damp").WithID("l1").Build()).
		Build())

	s.client.EXPECT().UpdateLocation(gomock.Any(), gomock.Any()).
		Return(&persistence.UpdateLocationOutput{Location: &persistence.EntityRecord{ID: "l9", Name: "Elsewhere"}}, nil)
	s.notifier.EXPECT().Publish(gomock.Any()).Do(func(n authoring.Notice) {
		s.Equal(authoring.NoticeMismatch, n.Kind)
		s.Equal("location-0-d1", n.Key)
		s.True(errors.IsNotFound(n.Err))
	})

	s.Require().NoError(s.session.UpdateLocation(0, model.EntityFields{Description: ptr("Dry")}))
	before := s.session.Draft()
	s.settle()

	s.Same(before, s.session.Draft())
}

func (s *SessionTestSuite) TestRemovePersistedLocationDeletesFirst() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithLocation(builders.NewLocationBuilder("Cave", "Damp").WithID("l1").Build()).
		WithLocation(builders.NewLocationBuilder("Tower", "Tall").WithID("l2").Build()).
		Build())

	s.client.EXPECT().DeleteLocation(gomock.Any(), &persistence.DeleteLocationInput{DraftID: "d1", LocationID: "l1"}).
		Return(&persistence.DeleteLocationOutput{}, nil)
	s.client.EXPECT().UpdateLocation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *persistence.UpdateLocationInput) (*persistence.UpdateLocationOutput, error) {
			s.Equal("l2", input.LocationID)
			return &persistence.UpdateLocationOutput{Location: &persistence.EntityRecord{ID: "l2", Name: "Tower", Description: "Tall"}}, nil
		})

	s.Require().NoError(s.session.RemoveLocation(s.ctx, 0))

	d := s.session.Draft()
	s.Require().Len(d.Locations, 1)
	s.Equal("l2", d.Locations[0].ID)

	s.settle()
}

func (s *SessionTestSuite) TestRemoveKeepsLocationWhenDeleteFails() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithLocation(builders.NewLocationBuilder("Cave", "Damp").WithID("l1").Build()).
		Build())

	s.client.EXPECT().DeleteLocation(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailablef("service down"))

	err := s.session.RemoveLocation(s.ctx, 0)
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
	s.Len(s.session.Draft().Locations, 1)
}

func (s *SessionTestSuite) TestRemoveLocalLocationIsLocal() {
	_, err := s.session.AddLocation("Cave", "")
	s.Require().NoError(err)

	s.Require().NoError(s.session.RemoveLocation(s.ctx, 0))
	s.Empty(s.session.Draft().Locations)

	err = s.session.RemoveLocation(s.ctx, 0)
	s.True(errors.IsNotFound(err))
}

func (s *SessionTestSuite) TestRemoveRefusedWhileSiblingSaving() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithNPC(builders.NewNPCBuilder("Aria", "A ranger").WithID("n1").Build()).
		WithNPC(builders.NewNPCBuilder("Bram", "A smith").Build()).
		Build())

	started := make(chan struct{})
	release := make(chan struct{})
	s.client.EXPECT().CreateNPC(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *persistence.CreateNPCInput) (*persistence.CreateNPCOutput, error) {
			close(started)
			<-release
			return &persistence.CreateNPCOutput{NPC: &persistence.NPCRecord{EntityRecord: persistence.EntityRecord{
				ID: "n2", Name: "Bram", Description: "A smith",
			}}}, nil
		})

	s.Require().NoError(s.session.UpdateNPC(1, model.EntityFields{Description: ptr("A smith")}))
	s.clock.Advance(window)
	<-started

	err := s.session.RemoveNPC(s.ctx, 0)
	s.True(errors.IsFailedPrecondition(err))

	close(release)
	s.session.Wait()
	s.Equal("n2", s.session.Draft().NPCs[1].ID)
}

func (s *SessionTestSuite) TestSiblingWritesWaitForRemoval() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithLocation(builders.NewLocationBuilder("Cave", "Damp").WithID("l1").Build()).
		WithLocation(builders.NewLocationBuilder("Bridge", "Rope").Build()).
		WithLocation(builders.NewLocationBuilder("Crypt", "Cold").Build()).
		Build())

	started := make(chan struct{})
	release := make(chan struct{})
	s.client.EXPECT().DeleteLocation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, *persistence.DeleteLocationInput) (*persistence.DeleteLocationOutput, error) {
			close(started)
			<-release
			return &persistence.DeleteLocationOutput{}, nil
		})

	removed := make(chan error, 1)
	go func() { removed <- s.session.RemoveLocation(s.ctx, 0) }()
	<-started

	// the bridge's write comes due while the cave is being deleted
	s.Require().NoError(s.session.UpdateLocation(1, model.EntityFields{Description: ptr("A swaying rope bridge")}))
	s.settle()
	s.True(errors.IsFailedPrecondition(s.session.RemoveLocation(s.ctx, 2)))
	_, err := s.session.Submit(s.ctx)
	s.True(errors.IsAborted(err))

	ids := map[string]string{"Bridge": "l-bridge", "Crypt": "l-crypt"}
	s.client.EXPECT().CreateLocation(gomock.Any(), gomock.Any()).Times(2).
		DoAndReturn(func(_ context.Context, input *persistence.CreateLocationInput) (*persistence.CreateLocationOutput, error) {
			return &persistence.CreateLocationOutput{Location: &persistence.EntityRecord{
				ID:          ids[*input.Fields.Name],
				Name:        *input.Fields.Name,
				Description: *input.Fields.Description,
			}}, nil
		})

	close(release)
	s.Require().NoError(<-removed)
	s.settle()

	d := s.session.Draft()
	s.Require().Len(d.Locations, 2)
	s.Equal("Bridge", d.Locations[0].Name)
	s.Equal("l-bridge", d.Locations[0].ID)
	s.Equal("A swaying rope bridge", d.Locations[0].Description)
	s.Equal("Crypt", d.Locations[1].Name)
	s.Equal("l-crypt", d.Locations[1].ID)
}

func (s *SessionTestSuite) TestPlayableNPCSheet() {
	index, err := s.session.AddNPC("Aria", "A ranger")
	s.Require().NoError(err)

	s.Require().NoError(s.session.TogglePlayable(index, true))
	s.Require().NoError(s.session.ChangeClass(index, "ranger"))
	s.Require().NoError(s.session.SetLevel(index, 3))
	s.Require().NoError(s.session.SetGender(index, "female"))

	npc := s.session.Draft().NPCs[index]
	s.True(npc.Playable)
	s.Equal("Ranger", npc.Class)
	sheet := npc.CharacterSheet
	s.Require().NotNil(sheet)
	s.Equal(3, sheet.Level)
	s.Equal("female", sheet.Gender)
	s.Equal(18, sheet.Abilities[model.Dexterity].Score)
	s.Equal(14, sheet.AC)
	s.Equal(16, sheet.HP)
	s.Equal("A ranger", sheet.Background)

	_, err = s.session.EditAbility(index, model.Strength, 9)
	s.True(errors.IsFailedPrecondition(err))

	s.Require().NoError(s.session.SetAbilityMode(index, model.AbilityModeCustom))
	accepted, err := s.session.EditAbility(index, model.Strength, 9)
	s.Require().NoError(err)
	s.False(accepted)
	s.Equal(8, s.session.Draft().NPCs[index].CharacterSheet.Abilities[model.Strength].Score)

	accepted, err = s.session.EditAbility(index, model.Strength, 7)
	s.Require().NoError(err)
	s.True(accepted)
	s.Equal(7, s.session.Draft().NPCs[index].CharacterSheet.Abilities[model.Strength].Score)

	s.Require().NoError(s.session.UpdateNPC(index, model.EntityFields{Description: ptr("A ranger of the north")}))
	s.Equal("A ranger of the north", s.session.Draft().NPCs[index].CharacterSheet.Background)

	s.Require().NoError(s.session.TogglePlayable(index, false))
	npc = s.session.Draft().NPCs[index]
	s.Nil(npc.CharacterSheet)
	s.Empty(npc.Class)
}

func (s *SessionTestSuite) TestValidationTracksEdits() {
	errs := s.session.Errors()
	s.Contains(errs, validation.FieldName)
	s.Contains(errs, validation.FieldPreview)

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Name: ptr("Keep")}))
	_, err := s.session.SetPreview(png("cover.png"))
	s.Require().NoError(err)

	errs = s.session.Errors()
	s.NotContains(errs, validation.FieldName)
	s.NotContains(errs, validation.FieldPreview)
	s.Contains(errs, validation.FieldOpener)

	state := s.session.State()
	s.Equal(errs, state.Errors)
	s.True(state.Saving)
}

func (s *SessionTestSuite) TestRejectsInvalidAttachment() {
	_, err := s.session.AddDocument(authoring.NewAttachment{VideoURL: "https://example.com/clip"})
	s.True(errors.IsInvalidArgument(err))
	s.Empty(s.session.Draft().Documents)
	s.False(s.session.Saving())
}

func (s *SessionTestSuite) TestSubmitBlockedByValidation() {
	s.start(builders.NewDraftBuilder().WithID("d1").WithName("Keep").Build())

	out, err := s.session.Submit(s.ctx)
	s.Nil(out)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(errors.GetMeta(err)["validation_errors"], validation.FieldTags)
}

func (s *SessionTestSuite) TestSubmitFlushesThenBuilds() {
	s.start(builders.NewDraftBuilder().Publishable().WithID("d1").Build())

	gomock.InOrder(
		s.client.EXPECT().UpdateDraft(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *persistence.UpdateDraftInput) (*persistence.UpdateDraftOutput, error) {
				s.Equal("The Drowned Keep", *input.Fields.Name)
				return &persistence.UpdateDraftOutput{Draft: &persistence.DraftRecord{
					ID:      "d1",
					Name:    "The Drowned Keep",
					Opener:  "Rain hammers the drowned stones.",
					Tags:    []string{"horror"},
					Preview: &persistence.Attachment{ID: "preview-1", URL: builders.MediaURL("preview-1")},
				}}, nil
			}),
		s.client.EXPECT().Build(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *persistence.BuildInput) (*persistence.BuildOutput, error) {
				s.Equal("The Drowned Keep", input.Draft.Name)
				s.NotNil(input.Draft.NPCs[0].CharacterSheet)
				return &persistence.BuildOutput{GameID: "g1"}, nil
			}),
	)

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Name: ptr("The Drowned Keep")}))

	out, err := s.session.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal("g1", out.GameID)
	s.False(s.session.Saving())
	s.False(s.session.Loading(authoring.SectionSubmit))
}

func (s *SessionTestSuite) TestSubmitStopsOnFailedWrite() {
	s.start(builders.NewDraftBuilder().Publishable().WithID("d1").Build())

	s.client.EXPECT().UpdateDraft(gomock.Any(), gomock.Any()).Return(nil, errors.Unavailablef("service down"))
	s.notifier.EXPECT().Publish(gomock.Any())

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Name: ptr("Renamed")}))

	_, err := s.session.Submit(s.ctx)
	s.True(errors.IsUnavailable(err))
}

func (s *SessionTestSuite) TestDiscardDeletesRemoteDraft() {
	s.start(builders.NewDraftBuilder().WithID("d1").Build())

	s.client.EXPECT().DeleteDraft(gomock.Any(), &persistence.DeleteDraftInput{DraftID: "d1"}).
		Return(&persistence.DeleteDraftOutput{}, nil)

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Name: ptr("Keep")}))
	s.Require().NoError(s.session.Discard(s.ctx))

	s.True(s.session.Closed())
	s.False(s.session.Saving())
	s.True(errors.IsFailedPrecondition(s.session.UpdateDraft(model.DraftFields{Name: ptr("Again")})))
	s.clock.Advance(window)
}

func (s *SessionTestSuite) TestDiscardIgnoresLateResponse() {
	s.start(builders.NewDraftBuilder().WithID("d1").WithName("Local").Build())

	started := make(chan struct{})
	s.client.EXPECT().UpdateDraft(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ *persistence.UpdateDraftInput) (*persistence.UpdateDraftOutput, error) {
			close(started)
			<-ctx.Done()
			return &persistence.UpdateDraftOutput{Draft: &persistence.DraftRecord{ID: "d1", Name: "Server"}}, nil
		})
	s.client.EXPECT().DeleteDraft(gomock.Any(), gomock.Any()).Return(&persistence.DeleteDraftOutput{}, nil)

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Opener: ptr("Once")}))
	s.clock.Advance(window)
	<-started

	s.Require().NoError(s.session.Discard(s.ctx))
	s.Equal("Local", s.session.Draft().Name)
}

func (s *SessionTestSuite) TestDiscardUnsavedDraftIsLocal() {
	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Name: ptr("Keep")}))
	s.Require().NoError(s.session.Discard(s.ctx))
	s.Require().NoError(s.session.Discard(s.ctx))
}

func (s *SessionTestSuite) TestUpdateSavedAttachmentMetadata() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithLocation(builders.NewLocationBuilder("Cave", "Damp").WithID("l1").WithSavedImage("img-1").Build()).
		Build())

	s.client.EXPECT().UpdateAttachment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *persistence.UpdateAttachmentInput) (*persistence.UpdateAttachmentOutput, error) {
			s.Equal(persistence.OwnerLocation, input.Owner)
			s.Equal("l1", input.OwnerID)
			s.Equal("Gate", *input.Title)
			return &persistence.UpdateAttachmentOutput{Attachment: &persistence.Attachment{
				ID: "img-1", URL: builders.MediaURL("img-1"), FileName: "img-1.png", Title: "Gate",
			}}, nil
		})

	ref := authoring.AttachmentRef{Owner: persistence.OwnerLocation, Index: 0, ID: "img-1"}
	s.Require().NoError(s.session.UpdateAttachment(s.ctx, ref, ptr("Gate"), nil))

	saved := s.session.Draft().Locations[0].SavedImages
	s.Require().Len(saved, 1)
	s.Equal("Gate", saved[0].Title)

	missing := authoring.AttachmentRef{Owner: persistence.OwnerLocation, Index: 0, ID: "img-9"}
	s.True(errors.IsNotFound(s.session.UpdateAttachment(s.ctx, missing, ptr("Gate"), nil)))
}

func (s *SessionTestSuite) TestDeleteSavedAttachmentRefreshesSheet() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithNPC(builders.NewNPCBuilder("Aria", "A ranger").WithID("n1").WithSavedImage("img-1").Playable("Ranger").Build()).
		Build())
	s.Equal(builders.MediaURL("img-1"), s.session.Draft().NPCs[0].CharacterSheet.ImageURL)

	s.client.EXPECT().DeleteAttachment(gomock.Any(), &persistence.DeleteAttachmentInput{
		DraftID: "d1", Owner: persistence.OwnerNPC, OwnerID: "n1", AttachmentID: "img-1",
	}).Return(&persistence.DeleteAttachmentOutput{}, nil)

	ref := authoring.AttachmentRef{Owner: persistence.OwnerNPC, Index: 0, ID: "img-1"}
	s.Require().NoError(s.session.DeleteAttachment(s.ctx, ref))

	npc := s.session.Draft().NPCs[0]
	s.Empty(npc.SavedImages)
	s.Empty(npc.CharacterSheet.ImageURL)
	s.Contains(s.session.Errors(), validation.NPCField(0, "images"))
}

func (s *SessionTestSuite) TestAttachmentOpsNeedSavedOwner() {
	s.start(builders.NewDraftBuilder().WithID("d1").
		WithLocation(builders.NewLocationBuilder("Cave", "Damp").Build()).
		Build())

	err := s.session.DeleteAttachment(s.ctx, authoring.AttachmentRef{Owner: persistence.OwnerLocation, Index: 0, ID: "img-1"})
	s.True(errors.IsFailedPrecondition(err))

	err = s.session.DeleteAttachment(s.ctx, authoring.AttachmentRef{Owner: "shelf", ID: "img-1"})
	s.True(errors.IsInvalidArgument(err))
}

func (s *SessionTestSuite) TestFlushSkipsQuietPeriod() {
	s.start(builders.NewDraftBuilder().WithID("d1").Build())

	s.client.EXPECT().UpdateDraft(gomock.Any(), gomock.Any()).
		Return(&persistence.UpdateDraftOutput{Draft: &persistence.DraftRecord{ID: "d1", Name: "Keep"}}, nil)

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{Name: ptr("Keep")}))
	s.Require().NoError(s.session.Flush(s.ctx))
	s.False(s.session.Saving())

	s.session.Close()
	s.True(errors.IsFailedPrecondition(s.session.Flush(s.ctx)))
}

func (s *SessionTestSuite) TestSubmitConvergesAgainstEchoingService() {
	service := mocks.NewService(idgen.NewSequential("srv"))
	service.ExpectDrafts(s.client)
	service.ExpectLocations(s.client)
	service.ExpectNPCs(s.client)
	s.client.EXPECT().Build(gomock.Any(), gomock.Any()).
		Return(&persistence.BuildOutput{GameID: "g1"}, nil)

	s.Require().NoError(s.session.UpdateDraft(model.DraftFields{
		Name:   ptr("The Sunken Keep"),
		Opener: ptr("Rain hammers the drowned stones."),
		Tags:   []string{"horror"},
	}))
	_, err := s.session.SetPreview(png("cover.png"))
	s.Require().NoError(err)

	loc, err := s.session.AddLocation("Cave", "Damp")
	s.Require().NoError(err)
	_, err = s.session.AddLocationImage(loc, png("cave.png"))
	s.Require().NoError(err)

	npc, err := s.session.AddNPC("Aria", "A ranger")
	s.Require().NoError(err)
	_, err = s.session.AddNPCImage(npc, png("aria.png"))
	s.Require().NoError(err)
	s.Require().NoError(s.session.TogglePlayable(npc, true))

	out, err := s.session.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal("g1", out.GameID)

	d := s.session.Draft()
	s.NotEmpty(d.ID)
	s.Nil(d.Preview)
	s.NotNil(d.SavedPreview)
	s.NotEmpty(d.Locations[loc].ID)
	s.Empty(d.Locations[loc].Images)
	s.Len(d.Locations[loc].SavedImages, 1)

	stored := service.NPC(d.NPCs[npc].ID)
	s.Require().NotNil(stored)
	s.True(stored.Playable)
	s.Equal("Default", stored.Class)
	s.Equal("The Sunken Keep", service.Draft(d.ID).Name)
}
