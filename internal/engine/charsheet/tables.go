package charsheet

// Level bounds
const (
	MinLevel = 1
	MaxLevel = 10
)

// Score bounds for a single ability in custom mode
const (
	MinScore = 3
	MaxScore = 20
)

// DefaultClass is the neutral archetype used when no class is chosen
const DefaultClass = "Default"

// pointPool maps level-1 to the total ability budget
var pointPool = [MaxLevel]int{60, 64, 68, 70, 72, 74, 76, 78, 81, 84}

// classOrder is the archetype order shown to creators. The first entry is
// the fallback when an NPC becomes playable without a class.
var classOrder = []string{DefaultClass, "Warrior", "Mage", "Rogue", "Cleric", "Ranger", "Bard"}

// presets holds the ability vector per level in
// Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma order.
var presets = map[string][MaxLevel][6]int{
	DefaultClass: {
		{10, 10, 10, 10, 10, 10},
		{11, 11, 11, 11, 10, 10},
		{12, 12, 12, 12, 10, 10},
		{13, 13, 12, 12, 10, 10},
		{14, 14, 12, 12, 10, 10},
		{15, 15, 12, 12, 10, 10},
		{16, 16, 12, 12, 10, 10},
		{17, 17, 12, 12, 10, 10},
		{18, 18, 13, 12, 10, 10},
		{19, 19, 14, 12, 10, 10},
	},
	"Warrior": {
		{15, 12, 14, 7, 8, 4},
		{16, 13, 15, 7, 9, 4},
		{17, 14, 16, 7, 10, 4},
		{18, 14, 17, 7, 10, 4},
		{19, 14, 18, 7, 10, 4},
		{20, 14, 19, 7, 10, 4},
		{20, 15, 20, 7, 10, 4},
		{20, 16, 20, 7, 11, 4},
		{20, 17, 20, 8, 12, 4},
		{20, 18, 20, 9, 13, 4},
	},
	"Mage": {
		{6, 12, 11, 16, 10, 5},
		{6, 13, 12, 17, 11, 5},
		{6, 14, 13, 18, 12, 5},
		{6, 15, 13, 19, 12, 5},
		{6, 16, 13, 20, 12, 5},
		{6, 17, 14, 20, 12, 5},
		{6, 18, 15, 20, 12, 5},
		{6, 19, 16, 20, 12, 5},
		{6, 20, 17, 20, 13, 5},
		{6, 20, 18, 20, 14, 6},
	},
	"Rogue": {
		{8, 16, 11, 10, 7, 8},
		{8, 17, 12, 11, 7, 9},
		{8, 18, 13, 12, 7, 10},
		{8, 19, 13, 12, 7, 11},
		{8, 20, 13, 12, 7, 12},
		{8, 20, 14, 12, 7, 13},
		{8, 20, 15, 12, 7, 14},
		{8, 20, 16, 12, 7, 15},
		{8, 20, 17, 13, 7, 16},
		{8, 20, 18, 14, 7, 17},
	},
	"Cleric": {
		{11, 7, 13, 8, 16, 5},
		{12, 7, 14, 8, 17, 6},
		{13, 7, 15, 8, 18, 7},
		{13, 7, 16, 8, 19, 7},
		{13, 7, 17, 8, 20, 7},
		{14, 7, 18, 8, 20, 7},
		{15, 7, 19, 8, 20, 7},
		{16, 7, 20, 8, 20, 7},
		{17, 8, 20, 8, 20, 8},
		{18, 9, 20, 8, 20, 9},
	},
	"Ranger": {
		{8, 15, 12, 7, 13, 5},
		{8, 16, 13, 7, 14, 6},
		{8, 18, 14, 7, 15, 6},
		{8, 19, 14, 7, 16, 6},
		{8, 20, 14, 7, 17, 6},
		{8, 20, 15, 7, 18, 6},
		{8, 20, 16, 7, 19, 6},
		{8, 20, 17, 7, 20, 6},
		{9, 20, 18, 7, 20, 7},
		{10, 20, 19, 7, 20, 8},
	},
	"Bard": {
		{6, 13, 10, 9, 7, 15},
		{6, 14, 11, 9, 8, 16},
		{6, 15, 12, 9, 9, 17},
		{6, 16, 12, 9, 9, 18},
		{6, 17, 12, 9, 9, 19},
		{6, 18, 12, 9, 9, 20},
		{6, 19, 13, 9, 9, 20},
		{6, 20, 14, 9, 9, 20},
		{6, 20, 15, 10, 10, 20},
		{6, 20, 16, 11, 11, 20},
	},
}
