// Package charsheet derives role-playing character sheets from a class
// archetype and level, and enforces the point-buy budget for custom edits.
package charsheet

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/errors"
)

// Classes returns the archetype names in display order
func Classes() []string {
	out := make([]string, len(classOrder))
	copy(out, classOrder)
	return out
}

// ParseClass resolves a class name case-insensitively to its canonical form
func ParseClass(name string) (string, error) {
	folder := cases.Fold()
	folded := folder.String(strings.TrimSpace(name))
	for _, c := range classOrder {
		if folder.String(c) == folded {
			return c, nil
		}
	}
	return "", errors.InvalidArgumentf("unknown class %q", name).
		WithMeta("classes", Classes())
}

// Modifier returns floor((score - 10) / 2)
func Modifier(score int) int {
	modifier := (score - 10) / 2
	// integer division truncates toward zero
	if score < 10 && (score-10)%2 != 0 {
		modifier--
	}
	return modifier
}

// Pool returns the ability budget for level
func Pool(level int) (int, error) {
	if err := checkLevel(level); err != nil {
		return 0, err
	}
	return pointPool[level-1], nil
}

// Preset returns the fixed ability vector of a class at level
func Preset(class string, level int) (map[authoring.Ability]int, error) {
	canonical, err := ParseClass(class)
	if err != nil {
		return nil, err
	}
	if err := checkLevel(level); err != nil {
		return nil, err
	}

	row := presets[canonical][level-1]
	out := make(map[authoring.Ability]int, len(authoring.AllAbilities))
	for i, a := range authoring.AllAbilities {
		out[a] = row[i]
	}
	return out, nil
}

// NewSheet builds a preset-mode sheet for class and level
func NewSheet(class string, level int, gender string) (*authoring.CharacterSheet, error) {
	canonical, err := ParseClass(class)
	if err != nil {
		return nil, err
	}
	scores, err := Preset(canonical, level)
	if err != nil {
		return nil, err
	}

	return Derive(&authoring.CharacterSheet{
		Gender: gender,
		Class:  canonical,
		Level:  level,
		Mode:   authoring.AbilityModePreset,
	}, scores), nil
}

// Derive returns a copy of sheet carrying scores with every derived value
// recomputed from scratch. Nothing from the previous derived state is kept.
func Derive(sheet *authoring.CharacterSheet, scores map[authoring.Ability]int) *authoring.CharacterSheet {
	out := sheet.Clone()
	if out == nil {
		out = &authoring.CharacterSheet{}
	}

	out.Abilities = make(map[authoring.Ability]authoring.AbilityScore, len(authoring.AllAbilities))
	for _, a := range authoring.AllAbilities {
		score := scores[a]
		out.Abilities[a] = authoring.AbilityScore{Score: score, Modifier: Modifier(score)}
	}

	out.HP = 10 + Modifier(scores[authoring.Constitution])*out.Level
	out.MaxHP = out.HP
	out.AC = 10 + Modifier(scores[authoring.Dexterity])
	return out
}

// Total sums the six ability scores
func Total(sheet *authoring.CharacterSheet) int {
	total := 0
	for _, score := range sheet.Scores() {
		total += score
	}
	return total
}

// Remaining is the unspent budget. It is negative when the sheet is over budget.
func Remaining(sheet *authoring.CharacterSheet) int {
	if sheet == nil {
		return 0
	}
	pool, err := Pool(sheet.Level)
	if err != nil {
		return 0
	}
	return pool - Total(sheet)
}

// Complete reports whether the sheet is within its budget
func Complete(sheet *authoring.CharacterSheet) bool {
	if sheet == nil || checkLevel(sheet.Level) != nil {
		return false
	}
	return Remaining(sheet) >= 0
}

// EditAbility sets one ability on a custom-mode sheet. The edit is accepted
// when the new total stays within the pool or the value decreases. A
// rejected edit returns the original sheet with accepted=false.
func EditAbility(sheet *authoring.CharacterSheet, ability authoring.Ability, value int) (*authoring.CharacterSheet, bool, error) {
	if sheet == nil {
		return nil, false, errors.FailedPrecondition("npc has no character sheet")
	}
	if sheet.Mode != authoring.AbilityModeCustom {
		return sheet, false, errors.FailedPreconditionf("abilities are read-only in %s mode", sheet.Mode)
	}
	if _, ok := sheet.Abilities[ability]; !ok {
		return sheet, false, errors.InvalidArgumentf("unknown ability %q", ability)
	}
	if value < MinScore || value > MaxScore {
		return sheet, false, errors.OutOfRangef("%s must be between %d and %d", ability, MinScore, MaxScore).
			WithMeta("value", value)
	}

	pool, err := Pool(sheet.Level)
	if err != nil {
		return sheet, false, err
	}

	scores := sheet.Scores()
	previous := scores[ability]
	scores[ability] = value

	total := 0
	for _, s := range scores {
		total += s
	}
	if total > pool && value >= previous {
		return sheet, false, nil
	}

	return Derive(sheet, scores), true, nil
}

func checkLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return errors.OutOfRangef("level must be between %d and %d", MinLevel, MaxLevel).
			WithMeta("level", level)
	}
	return nil
}
