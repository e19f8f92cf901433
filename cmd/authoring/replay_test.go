package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-authoring/internal/config"
	"github.com/KirkDiggler/rpg-authoring/internal/engine/charsheet"
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

type CommandTestSuite struct {
	suite.Suite
	ctx context.Context
	mr  *miniredis.Miniredis
	cfg *config.Config
	dir string
}

func (s *CommandTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mr = miniredis.RunT(s.T())
	s.dir = s.T().TempDir()
	s.cfg = &config.Config{
		Environment:    config.EnvDevelopment,
		Backend:        config.BackendRedis,
		RedisAddr:      s.mr.Addr(),
		MediaBaseURL:   "https://media.test",
		Debounce:       time.Hour,
		RequestTimeout: 5 * time.Second,
	}
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandTestSuite))
}

func (s *CommandTestSuite) writeFile(name string, data []byte) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(os.WriteFile(path, data, 0o600))
	return path
}

func (s *CommandTestSuite) parseScript(raw string) *script {
	sc, err := readScript(s.writeFile("script.json", []byte(raw)))
	s.Require().NoError(err)
	return sc
}

func (s *CommandTestSuite) TestReplaySubmitsDraft() {
	s.writeFile("cover.png", []byte("cover"))
	s.writeFile("aria.png", []byte("aria"))
	sc := s.parseScript(`{
		"steps": [
			{"op": "update_draft", "name": "The Sunken Keep", "opener": "Rain hammers the drowned stones.", "tags": ["horror"]},
			{"op": "set_preview", "file": "cover.png"},
			{"op": "add_npc", "name": "Aria", "description": "A ranger"},
			{"op": "add_npc_image", "index": 0, "file": "aria.png"},
			{"op": "toggle_playable", "index": 0, "playable": true},
			{"op": "change_class", "index": 0, "class": "ranger"},
			{"op": "set_level", "index": 0, "level": 3}
		],
		"submit": true
	}`)

	var out bytes.Buffer
	s.Require().NoError(replay(s.ctx, s.cfg, sc, s.dir, &out))

	var result struct {
		Draft  authoring.Draft   `json:"draft"`
		Errors map[string]string `json:"errors"`
		GameID string            `json:"game_id"`
	}
	s.Require().NoError(json.Unmarshal(out.Bytes(), &result))
	s.NotEmpty(result.GameID)
	s.NotEmpty(result.Draft.ID)
	s.Empty(result.Errors)
	s.Require().NotNil(result.Draft.SavedPreview)

	s.Require().Len(result.Draft.NPCs, 1)
	npc := result.Draft.NPCs[0]
	s.NotEmpty(npc.ID)
	s.Equal("Ranger", npc.Class)
	s.Equal(3, npc.CharacterSheet.Level)
	s.Equal(14, npc.CharacterSheet.AC)
}

func (s *CommandTestSuite) TestReplayReportsFailingStep() {
	sc := s.parseScript(`{"steps": [
		{"op": "add_npc", "name": "Aria", "description": "A ranger"},
		{"op": "set_level", "index": 0, "level": 2}
	]}`)

	err := replay(s.ctx, s.cfg, sc, s.dir, &bytes.Buffer{})
	s.Require().Error(err)
	s.Contains(err.Error(), "step 2 (set_level)")
	s.True(errors.IsFailedPrecondition(err))
}

func (s *CommandTestSuite) TestReplayRejectsUnknownOp() {
	sc := s.parseScript(`{"steps": [{"op": "paint"}]}`)

	err := replay(s.ctx, s.cfg, sc, s.dir, &bytes.Buffer{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *CommandTestSuite) TestReplayNeedsRedis() {
	s.mr.Close()

	err := replay(s.ctx, s.cfg, &script{}, s.dir, &bytes.Buffer{})
	s.True(errors.IsUnavailable(err))
}

func (s *CommandTestSuite) TestPrintSheet() {
	sheet, err := charsheet.NewSheet("ranger", 3, "female")
	s.Require().NoError(err)

	var out bytes.Buffer
	s.Require().NoError(printSheet(&out, sheet))

	s.Regexp(`Class:\s+Ranger`, out.String())
	s.Regexp(`AC:\s+14`, out.String())
	s.Regexp(`HP:\s+16/16`, out.String())
	s.Regexp(`Points:\s+68 of 68`, out.String())
	s.Regexp(`Dexterity\s+18\s+\+4`, out.String())
}

func (s *CommandTestSuite) TestValidateCommand() {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	path := s.writeFile("draft.json", []byte(`{"name": "Keep", "tags": ["horror"]}`))
	err := runValidate(cmd, []string{path})
	s.Require().Error(err)
	s.Contains(out.String(), "opener")
	s.Contains(out.String(), "preview")
	s.NotContains(out.String(), "tags")
}
