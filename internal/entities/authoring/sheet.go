package authoring

// Ability names one of the six core abilities
type Ability string

// Abilities
const (
	Strength     Ability = "Strength"
	Dexterity    Ability = "Dexterity"
	Constitution Ability = "Constitution"
	Intelligence Ability = "Intelligence"
	Wisdom       Ability = "Wisdom"
	Charisma     Ability = "Charisma"
)

// AllAbilities lists the abilities in sheet order
var AllAbilities = []Ability{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// AbilityMode selects how a sheet's ability scores are chosen
type AbilityMode string

// Ability modes
const (
	AbilityModePreset AbilityMode = "preset"
	AbilityModeCustom AbilityMode = "custom"
)

// AbilityScore pairs a score with its derived modifier
type AbilityScore struct {
	Score    int `json:"score"`
	Modifier int `json:"modifier"`
}

// CharacterSheet is the role-playing sheet of a playable NPC.
// NOTE: This is a data-only struct. Derived values are computed by the
// charsheet engine and must be recomputed after any ability, level or class change.
type CharacterSheet struct {
	Gender     string                   `json:"gender"`
	Class      string                   `json:"class"`
	Level      int                      `json:"level"`
	Mode       AbilityMode              `json:"ability_mode"`
	Abilities  map[Ability]AbilityScore `json:"abilities"`
	HP         int                      `json:"HP"`
	MaxHP      int                      `json:"max_hp"`
	AC         int                      `json:"AC"`
	Background string                   `json:"background"`
	ImageURL   string                   `json:"image_url"`
}

// Clone returns a deep copy of the sheet
func (c *CharacterSheet) Clone() *CharacterSheet {
	if c == nil {
		return nil
	}
	out := *c
	out.Abilities = make(map[Ability]AbilityScore, len(c.Abilities))
	for k, v := range c.Abilities {
		out.Abilities[k] = v
	}
	return &out
}

// Scores returns the raw score of every ability
func (c *CharacterSheet) Scores() map[Ability]int {
	out := make(map[Ability]int, len(AllAbilities))
	if c == nil {
		return out
	}
	for _, a := range AllAbilities {
		out[a] = c.Abilities[a].Score
	}
	return out
}
