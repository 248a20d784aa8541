package service

import (
	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// applicableRelations returns the relations a word of tableID may be asked with.
// Only relations sharing at least one mode with the policy qualify.
//
// With RandomRelation every relation of the table qualifies. Otherwise the
// explicitly selected relations of the table are used; if none of them fits
// but one of them belongs to the table, any relation of the table is allowed.
func applicableRelations(
	tableID int64,
	relations []*entities.Relation,
	policy *entities.SelectionPolicy,
) []*entities.Relation {
	var (
		onTable  []*entities.Relation
		selected []*entities.Relation
		anyPick  bool
	)

	for _, rel := range relations {
		if rel == nil || rel.TableID != tableID {
			continue
		}
		picked := policy.HasRelation(rel.ID)
		if picked {
			anyPick = true
		}
		if len(rel.CompatibleModes(policy.Modes)) == 0 {
			continue
		}
		onTable = append(onTable, rel)
		if picked {
			selected = append(selected, rel)
		}
	}

	switch {
	case policy.RandomRelation:
		return onTable
	case len(selected) > 0:
		return selected
	case anyPick:
		return onTable
	default:
		return nil
	}
}

// modePicker chooses the mode of each synthesized question.
// Without randomization it cycles through the selected modes in order.
type modePicker struct {
	rng       RandomSource
	selected  []entities.Mode
	randomize bool
	next      int
}

func newModePicker(rng RandomSource, policy *entities.SelectionPolicy) *modePicker {
	return &modePicker{
		rng:       rng,
		selected:  policy.Modes,
		randomize: policy.RandomizeModes,
	}
}

// pick returns a mode supported by rel, or false if rel supports none of the selected modes.
func (p *modePicker) pick(rel *entities.Relation) (entities.Mode, bool) {
	compatible := rel.CompatibleModes(p.selected)
	if len(compatible) == 0 {
		return 0, false
	}

	if p.randomize {
		return compatible[p.rng.Intn(len(compatible))], true
	}

	slot := p.selected[p.next%len(p.selected)]
	p.next++
	for _, m := range compatible {
		if m == slot {
			return m, true
		}
	}
	return compatible[0], true
}

// pickRelation chooses one of the applicable relations uniformly. The
// candidates are already narrowed to the selected relations when the policy
// does not pick relations at random.
func pickRelation(rng RandomSource, rels []*entities.Relation) *entities.Relation {
	if len(rels) == 0 {
		return nil
	}
	return rels[rng.Intn(len(rels))]
}
