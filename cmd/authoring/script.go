package main

import (
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
	session "github.com/KirkDiggler/rpg-authoring/internal/orchestrators/authoring"
)

// script is a recorded editing session
type script struct {
	// Draft seeds the session, a fresh draft when nil
	Draft  *authoring.Draft `json:"draft,omitempty"`
	Steps  []step           `json:"steps"`
	Submit bool             `json:"submit"`
}

// step is one edit. Which fields are read depends on Op.
type step struct {
	Op    string `json:"op"`
	Index int    `json:"index"`

	Name         *string                  `json:"name,omitempty"`
	Description  *string                  `json:"description,omitempty"`
	Opener       *string                  `json:"opener,omitempty"`
	Instructions *string                  `json:"instructions,omitempty"`
	Tags         []string                 `json:"tags,omitempty"`
	Features     *authoring.Features      `json:"features,omitempty"`
	Meta         *authoring.NarrativeMeta `json:"meta,omitempty"`
	File         string                   `json:"file,omitempty"`
	VideoURL     string                   `json:"video_url,omitempty"`
	Title        string                   `json:"title,omitempty"`
	Playable     bool                     `json:"playable,omitempty"`
	Class        string                   `json:"class,omitempty"`
	Level        int                      `json:"level,omitempty"`
	Gender       string                   `json:"gender,omitempty"`
	Mode         authoring.AbilityMode    `json:"mode,omitempty"`
	Ability      authoring.Ability        `json:"ability,omitempty"`
	Value        int                      `json:"value,omitempty"`
}

func readScript(path string) (*script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	var sc script
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return &sc, nil
}

func (st step) entityFields() authoring.EntityFields {
	return authoring.EntityFields{Name: st.Name, Description: st.Description}
}

func (st step) text() string {
	if st.Description != nil {
		return *st.Description
	}
	return ""
}

func (st step) name() string {
	if st.Name != nil {
		return *st.Name
	}
	return ""
}

// attachment loads the step's file, or its video link
func (st step) attachment(dir string) (session.NewAttachment, error) {
	a := session.NewAttachment{VideoURL: st.VideoURL, Title: st.Title, Description: st.text()}
	if st.File == "" {
		return a, nil
	}

	path := st.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return a, fmt.Errorf("failed to read attachment: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	a.FileName = filepath.Base(path)
	a.ContentType = contentType
	a.Data = data
	return a, nil
}

func (st step) apply(ctx context.Context, s *session.Session, dir string) error {
	switch st.Op {
	case "update_draft":
		return s.UpdateDraft(authoring.DraftFields{
			Name:         st.Name,
			Description:  st.Description,
			Opener:       st.Opener,
			Instructions: st.Instructions,
			Tags:         st.Tags,
			Features:     st.Features,
			Meta:         st.Meta,
		})

	case "set_preview", "add_document", "add_location_image", "add_npc_image":
		a, err := st.attachment(dir)
		if err != nil {
			return err
		}
		switch st.Op {
		case "set_preview":
			_, err = s.SetPreview(a)
		case "add_document":
			_, err = s.AddDocument(a)
		case "add_location_image":
			_, err = s.AddLocationImage(st.Index, a)
		default:
			_, err = s.AddNPCImage(st.Index, a)
		}
		return err

	case "add_location":
		_, err := s.AddLocation(st.name(), st.text())
		return err
	case "update_location":
		return s.UpdateLocation(st.Index, st.entityFields())
	case "remove_location":
		return s.RemoveLocation(ctx, st.Index)

	case "add_npc":
		_, err := s.AddNPC(st.name(), st.text())
		return err
	case "update_npc":
		return s.UpdateNPC(st.Index, st.entityFields())
	case "remove_npc":
		return s.RemoveNPC(ctx, st.Index)
	case "toggle_playable":
		return s.TogglePlayable(st.Index, st.Playable)
	case "change_class":
		return s.ChangeClass(st.Index, st.Class)
	case "set_level":
		return s.SetLevel(st.Index, st.Level)
	case "set_gender":
		return s.SetGender(st.Index, st.Gender)
	case "set_ability_mode":
		return s.SetAbilityMode(st.Index, st.Mode)
	case "edit_ability":
		accepted, err := s.EditAbility(st.Index, st.Ability, st.Value)
		if err != nil {
			return err
		}
		if !accepted {
			return errors.FailedPreconditionf("%s %d exceeds the point budget", st.Ability, st.Value)
		}
		return nil

	case "flush":
		return s.Flush(ctx)

	default:
		return errors.InvalidArgumentf("unknown op %q", st.Op)
	}
}
