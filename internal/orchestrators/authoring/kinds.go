package authoring

import (
	"context"
	"fmt"

	"github.com/KirkDiggler/rpg-authoring/internal/engine/charsheet"
	"github.com/KirkDiggler/rpg-authoring/internal/engine/reconcile"
	model "github.com/KirkDiggler/rpg-authoring/internal/entities/authoring"
	"github.com/KirkDiggler/rpg-authoring/internal/persistence"
)

const draftKey = "draft"

// kind selects one of the two child lists of a draft
type kind int

const (
	kindLocation kind = iota
	kindNPC
)

func (k kind) String() string {
	if k == kindNPC {
		return "npc"
	}
	return "location"
}

// key is the scheduler key of the child at index
func (k kind) key(index int, draftID string) string {
	return fmt.Sprintf("%s-%d-%s", k, index, draftID)
}

func (k kind) section() string {
	if k == kindNPC {
		return SectionNPCs
	}
	return SectionLocations
}

func (k kind) owner() persistence.OwnerKind {
	if k == kindNPC {
		return persistence.OwnerNPC
	}
	return persistence.OwnerLocation
}

func (k kind) count(d *model.Draft) int {
	if k == kindNPC {
		return len(d.NPCs)
	}
	return len(d.Locations)
}

func (k kind) entity(d *model.Draft, index int) model.Entity {
	if k == kindNPC {
		return d.NPCs[index].Entity
	}
	return d.Locations[index].Entity
}

func (k kind) indexOf(d *model.Draft, id string) int {
	for i := 0; i < k.count(d); i++ {
		if k.entity(d, i).ID == id {
			return i
		}
	}
	return -1
}

func (k kind) add(d *model.Draft, name, description string) *model.Draft {
	if k == kindNPC {
		return d.AddNPC(model.NewNPC(name, description))
	}
	return d.AddLocation(model.NewLocation(name, description))
}

func (k kind) update(d *model.Draft, index int, f model.EntityFields) (*model.Draft, error) {
	if k == kindNPC {
		next, err := d.UpdateNPC(index, f)
		if err != nil {
			return nil, err
		}
		return mirrorNPC(next, index)
	}
	return d.UpdateLocation(index, f)
}

func (k kind) remove(d *model.Draft, index int) (*model.Draft, error) {
	if k == kindNPC {
		return d.RemoveNPC(index)
	}
	return d.RemoveLocation(index)
}

func (k kind) addImage(d *model.Draft, index int, a model.Attachment) (*model.Draft, error) {
	if k == kindNPC {
		return d.AddNPCImage(index, a)
	}
	return d.AddLocationImage(index, a)
}

func (k kind) removeImage(d *model.Draft, index int, localID string) (*model.Draft, error) {
	if k == kindNPC {
		return d.RemoveNPCImage(index, localID)
	}
	return d.RemoveLocationImage(index, localID)
}

func (k kind) removeSavedImage(d *model.Draft, index int, id string) (*model.Draft, error) {
	if k == kindNPC {
		next, err := d.RemoveNPCSavedImage(index, id)
		if err != nil {
			return nil, err
		}
		return mirrorNPC(next, index)
	}
	return d.RemoveLocationSavedImage(index, id)
}

// mirrorNPC refreshes the sheet of the NPC at index after a mutation
func mirrorNPC(d *model.Draft, index int) (*model.Draft, error) {
	return d.ReplaceNPC(index, charsheet.Mirror(d.NPCs[index]))
}

// save sends the child as it is now: a create while it has no identity,
// an update afterwards
func (k kind) save(ctx context.Context, c persistence.Client, snap entitySnapshot) (reconcile.Patch, error) {
	fields := persistence.EntityFields{Name: &snap.sent.Name, Description: &snap.sent.Description}

	if k == kindLocation {
		var record *persistence.EntityRecord
		if snap.target.ID == "" {
			out, err := c.CreateLocation(ctx, &persistence.CreateLocationInput{
				DraftID: snap.draftID,
				Fields:  fields,
				Uploads: snap.uploads,
			})
			if err != nil {
				return nil, err
			}
			record = out.Location
		} else {
			out, err := c.UpdateLocation(ctx, &persistence.UpdateLocationInput{
				DraftID:    snap.draftID,
				LocationID: snap.target.ID,
				Fields:     fields,
				Uploads:    snap.uploads,
			})
			if err != nil {
				return nil, err
			}
			record = out.Location
		}
		return reconcile.LocationPatch{EntityPatch: entityPatch(snap, record)}, nil
	}

	npcFields := persistence.NPCFields{
		EntityFields:   fields,
		Playable:       &snap.npc.Playable,
		Class:          &snap.npc.Class,
		CharacterSheet: snap.npc.CharacterSheet,
	}
	var record *persistence.NPCRecord
	if snap.target.ID == "" {
		out, err := c.CreateNPC(ctx, &persistence.CreateNPCInput{
			DraftID: snap.draftID,
			Fields:  npcFields,
			Uploads: snap.uploads,
		})
		if err != nil {
			return nil, err
		}
		record = out.NPC
	} else {
		out, err := c.UpdateNPC(ctx, &persistence.UpdateNPCInput{
			DraftID: snap.draftID,
			NPCID:   snap.target.ID,
			Fields:  npcFields,
			Uploads: snap.uploads,
		})
		if err != nil {
			return nil, err
		}
		record = out.NPC
	}
	return reconcile.NPCPatch{EntityPatch: entityPatch(snap, &record.EntityRecord)}, nil
}

func (k kind) delete(ctx context.Context, c persistence.Client, draftID, id string) error {
	if k == kindNPC {
		_, err := c.DeleteNPC(ctx, &persistence.DeleteNPCInput{DraftID: draftID, NPCID: id})
		return err
	}
	_, err := c.DeleteLocation(ctx, &persistence.DeleteLocationInput{DraftID: draftID, LocationID: id})
	return err
}
