package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

var (
	ErrWordNotInLibrary     = errors.New("word is not part of the library snapshot")
	ErrNoApplicableRelation = errors.New("no applicable relation for word")
)

// SessionGenerator builds the initial question queue of a session.
type SessionGenerator struct {
	selector    *CandidateSelector
	synthesizer *QuestionSynthesizer
	rng         RandomSource
	logger      *zap.Logger
}

// NewSessionGenerator creates a new SessionGenerator. A nil logger discards output.
func NewSessionGenerator(scorer *PriorityScorer, rng RandomSource, logger *zap.Logger) *SessionGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionGenerator{
		selector:    NewCandidateSelector(scorer),
		synthesizer: NewQuestionSynthesizer(rng),
		rng:         rng,
		logger:      logger,
	}
}

// Generate returns the shuffled initial queue. An empty queue means no session can start.
func (g *SessionGenerator) Generate(
	tables []*entities.Table,
	relations []*entities.Relation,
	policy *entities.SelectionPolicy,
) []*entities.StudyQuestion {
	return g.NewDeck(tables, relations, policy).Generate()
}

// Deck binds the generator to one library snapshot and policy.
// It keeps the mode cycle going between the initial queue and later regenerations.
type Deck struct {
	gen       *SessionGenerator
	tables    []*entities.Table
	byID      map[int64]*entities.Table
	relations []*entities.Relation
	policy    *entities.SelectionPolicy
	modes     *modePicker
}

// NewDeck creates a Deck over the given snapshot.
func (g *SessionGenerator) NewDeck(
	tables []*entities.Table,
	relations []*entities.Relation,
	policy *entities.SelectionPolicy,
) *Deck {
	byID := make(map[int64]*entities.Table, len(tables))
	for _, t := range tables {
		if t != nil {
			byID[t.ID] = t
		}
	}
	return &Deck{
		gen:       g,
		tables:    tables,
		byID:      byID,
		relations: relations,
		policy:    policy,
		modes:     newModePicker(g.rng, policy),
	}
}

// Generate selects the words and synthesizes one question per word.
// Words that cannot be turned into a question are dropped.
func (d *Deck) Generate() []*entities.StudyQuestion {
	words := d.gen.selector.Select(d.tables, d.relations, d.policy)

	out := make([]*entities.StudyQuestion, 0, len(words))
	for _, w := range words {
		q, err := d.Regenerate(w)
		if err != nil {
			d.gen.logger.Debug("skip word",
				zap.Int64("word_id", w.ID),
				zap.Error(err),
			)
			continue
		}
		out = append(out, q)
	}

	d.gen.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	d.gen.logger.Debug("session generated",
		zap.Int("selected", len(words)),
		zap.Int("questions", len(out)),
	)

	return out
}

// Regenerate synthesizes a fresh question for w with a newly picked relation and mode.
func (d *Deck) Regenerate(w *entities.Word) (*entities.StudyQuestion, error) {
	t, ok := d.byID[w.TableID]
	if !ok {
		return nil, fmt.Errorf("word %d: %w", w.ID, ErrWordNotInLibrary)
	}

	rels := applicableRelations(t.ID, d.relations, d.policy)
	rel := pickRelation(d.gen.rng, rels)
	if rel == nil {
		return nil, fmt.Errorf("word %d: %w", w.ID, ErrNoApplicableRelation)
	}

	mode, ok := d.modes.pick(rel)
	if !ok {
		return nil, fmt.Errorf("relation %d: %w", rel.ID, ErrUnsupportedMode)
	}

	return d.gen.synthesizer.Synthesize(w, rel, mode, t.Words)
}
