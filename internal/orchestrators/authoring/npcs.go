package authoring

import (
	"github.com/KirkDiggler/rpg-authoring/internal/engine/charsheet"
	model "github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
)

// mutateNPC replaces the NPC at index with fn's result, mirrored
func (s *Session) mutateNPC(index int, fn func(model.NPC) (model.NPC, error)) error {
	return s.mutateEntity(kindNPC, index, func(d *model.Draft) (*model.Draft, error) {
		npc, err := d.NPC(index)
		if err != nil {
			return nil, err
		}
		next, err := fn(npc)
		if err != nil {
			return nil, err
		}
		return d.ReplaceNPC(index, charsheet.Mirror(next))
	})
}

// TogglePlayable marks the NPC at index playable or not
func (s *Session) TogglePlayable(index int, playable bool) error {
	return s.mutateNPC(index, func(npc model.NPC) (model.NPC, error) {
		return charsheet.TogglePlayable(npc, playable)
	})
}

// ChangeClass sets the class of the NPC at index
func (s *Session) ChangeClass(index int, class string) error {
	return s.mutateNPC(index, func(npc model.NPC) (model.NPC, error) {
		return charsheet.ChangeClass(npc, class)
	})
}

// SetLevel sets the sheet level of the NPC at index
func (s *Session) SetLevel(index, level int) error {
	return s.mutateNPC(index, func(npc model.NPC) (model.NPC, error) {
		return charsheet.SetLevel(npc, level)
	})
}

// SetGender sets the sheet gender of the NPC at index
func (s *Session) SetGender(index int, gender string) error {
	return s.mutateNPC(index, func(npc model.NPC) (model.NPC, error) {
		return charsheet.SetGender(npc, gender)
	})
}

// SetAbilityMode switches the sheet of the NPC at index between preset and custom
func (s *Session) SetAbilityMode(index int, mode model.AbilityMode) error {
	return s.mutateNPC(index, func(npc model.NPC) (model.NPC, error) {
		return charsheet.SetAbilityMode(npc, mode)
	})
}

// EditAbility sets one ability score on a custom sheet. It reports false,
// and changes nothing, when the point budget rejects the edit.
func (s *Session) EditAbility(index int, ability model.Ability, value int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.openLocked(); err != nil {
		return false, err
	}
	npc, err := s.draft.NPC(index)
	if err != nil {
		return false, err
	}
	next, accepted, err := charsheet.EditNPCAbility(npc, ability, value)
	if err != nil || !accepted {
		return false, err
	}
	d, err := s.draft.ReplaceNPC(index, charsheet.Mirror(next))
	if err != nil {
		return false, err
	}
	s.commitLocked(d)
	s.scheduleEntityLocked(kindNPC, index)
	return true, nil
}
