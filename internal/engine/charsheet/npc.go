package charsheet

import (
	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

// The NPC operations below take and return NPC values. The sheet is always
// cloned so the returned NPC never shares a sheet with its input.

// TogglePlayable turns the playable flag on or off. The first activation
// synthesizes a level 1 sheet for the NPC's class, or the default class.
// Turning it off discards the sheet and clears the class.
func TogglePlayable(npc authoring.NPC, playable bool) (authoring.NPC, error) {
	if !playable {
		npc.Playable = false
		npc.Class = ""
		npc.CharacterSheet = nil
		return npc, nil
	}
	if npc.Playable && npc.CharacterSheet != nil {
		return npc, nil
	}

	class := npc.Class
	if class == "" {
		class = classOrder[0]
	}
	sheet, err := NewSheet(class, MinLevel, "")
	if err != nil {
		return npc, err
	}

	npc.Playable = true
	npc.Class = sheet.Class
	npc.CharacterSheet = sheet
	return Mirror(npc), nil
}

// ChangeClass sets the class tag. A playable NPC gets its sheet rebuilt for
// the new class at the same level, keeping gender and ability mode.
func ChangeClass(npc authoring.NPC, class string) (authoring.NPC, error) {
	canonical, err := ParseClass(class)
	if err != nil {
		return npc, err
	}
	npc.Class = canonical
	if !npc.Playable || npc.CharacterSheet == nil {
		return npc, nil
	}

	prev := npc.CharacterSheet
	sheet, err := NewSheet(canonical, prev.Level, prev.Gender)
	if err != nil {
		return npc, err
	}
	if prev.Mode != "" {
		sheet.Mode = prev.Mode
	}
	npc.CharacterSheet = sheet
	return Mirror(npc), nil
}

// SetLevel changes the sheet level. Preset sheets reload the class vector
// for the new level; custom sheets keep their scores.
func SetLevel(npc authoring.NPC, level int) (authoring.NPC, error) {
	sheet, err := requireSheet(npc)
	if err != nil {
		return npc, err
	}
	if err := checkLevel(level); err != nil {
		return npc, err
	}

	scores := sheet.Scores()
	if sheet.Mode != authoring.AbilityModeCustom {
		if scores, err = Preset(sheet.Class, level); err != nil {
			return npc, err
		}
	}

	next := sheet.Clone()
	next.Level = level
	npc.CharacterSheet = Derive(next, scores)
	return npc, nil
}

// SetGender changes the sheet gender
func SetGender(npc authoring.NPC, gender string) (authoring.NPC, error) {
	sheet, err := requireSheet(npc)
	if err != nil {
		return npc, err
	}
	next := sheet.Clone()
	next.Gender = gender
	npc.CharacterSheet = next
	return npc, nil
}

// SetAbilityMode switches between preset and custom. Switching to preset
// reloads the class vector; switching to custom keeps the current scores.
func SetAbilityMode(npc authoring.NPC, mode authoring.AbilityMode) (authoring.NPC, error) {
	sheet, err := requireSheet(npc)
	if err != nil {
		return npc, err
	}

	scores := sheet.Scores()
	switch mode {
	case authoring.AbilityModePreset:
		if scores, err = Preset(sheet.Class, sheet.Level); err != nil {
			return npc, err
		}
	case authoring.AbilityModeCustom:
	default:
		return npc, errors.InvalidArgumentf("unknown ability mode %q", mode)
	}

	next := sheet.Clone()
	next.Mode = mode
	npc.CharacterSheet = Derive(next, scores)
	return npc, nil
}

// EditNPCAbility applies EditAbility to the NPC's sheet
func EditNPCAbility(npc authoring.NPC, ability authoring.Ability, value int) (authoring.NPC, bool, error) {
	sheet, err := requireSheet(npc)
	if err != nil {
		return npc, false, err
	}
	next, accepted, err := EditAbility(sheet, ability, value)
	if err != nil || !accepted {
		return npc, false, err
	}
	npc.CharacterSheet = next
	return npc, true, nil
}

// Mirror copies the NPC description into the sheet background and the first
// saved attachment URL into the sheet image
func Mirror(npc authoring.NPC) authoring.NPC {
	if npc.CharacterSheet == nil {
		return npc
	}
	background := npc.Description
	imageURL := npc.FirstImageURL()
	if npc.CharacterSheet.Background == background && npc.CharacterSheet.ImageURL == imageURL {
		return npc
	}

	next := npc.CharacterSheet.Clone()
	next.Background = background
	next.ImageURL = imageURL
	npc.CharacterSheet = next
	return npc
}

func requireSheet(npc authoring.NPC) (*authoring.CharacterSheet, error) {
	if !npc.Playable || npc.CharacterSheet == nil {
		return nil, errors.FailedPreconditionf("npc %q is not playable", npc.Name)
	}
	return npc.CharacterSheet, nil
}
