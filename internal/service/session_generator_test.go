package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

func newGenerator(rng RandomSource) *SessionGenerator {
	return NewSessionGenerator(NewPriorityScorer(clockAt(fixedNow)), rng, nil)
}

func TestSessionGenerator_Generate(t *testing.T) {
	table := vocabTable(1, 4)
	rel := wordToMeaning(1, 1, entities.ModeMultipleChoice, entities.ModeTyping)
	policy := entities.NewSelectionPolicy([]int64{1}, []entities.Mode{entities.ModeMultipleChoice, entities.ModeTyping}, 3)

	qs := newGenerator(&scriptedRand{}).Generate([]*entities.Table{table}, []*entities.Relation{rel}, policy)

	require.Len(t, qs, 3)
	assert.Equal(t, []int64{101, 102, 103}, questionIDs(qs))
	assert.Equal(t, entities.ModeMultipleChoice, qs[0].Mode)
	assert.Equal(t, entities.ModeTyping, qs[1].Mode)
	assert.Equal(t, entities.ModeMultipleChoice, qs[2].Mode)
	for _, q := range qs {
		assert.Same(t, rel, q.Relation)
		if q.Mode == entities.ModeMultipleChoice {
			assert.GreaterOrEqual(t, len(q.Options), 2)
		}
	}
}

func TestSessionGenerator_ShufflesQueue(t *testing.T) {
	table := vocabTable(1, 3)
	rel := wordToMeaning(1, 1, entities.ModeTyping)
	policy := entities.NewSelectionPolicy([]int64{1}, []entities.Mode{entities.ModeTyping}, 3)

	qs := newGenerator(&reverseRand{}).Generate([]*entities.Table{table}, []*entities.Relation{rel}, policy)
	assert.Equal(t, []int64{103, 102, 101}, questionIDs(qs))
}

func TestSessionGenerator_DropsUnusableWords(t *testing.T) {
	table := vocabTable(1, 3)
	table.Words[1].Values["meaning"] = ""
	rel := wordToMeaning(1, 1, entities.ModeTyping)
	policy := entities.NewSelectionPolicy([]int64{1}, []entities.Mode{entities.ModeTyping}, 10)

	qs := newGenerator(&scriptedRand{}).Generate([]*entities.Table{table}, []*entities.Relation{rel}, policy)
	assert.Equal(t, []int64{101, 103}, questionIDs(qs))
}

func TestSessionGenerator_Empty(t *testing.T) {
	table := vocabTable(1, 1)
	rel := wordToMeaning(1, 1, entities.ModeMultipleChoice)
	policy := entities.NewSelectionPolicy([]int64{1}, []entities.Mode{entities.ModeMultipleChoice}, 10)

	// A single word has no distractor.
	qs := newGenerator(&scriptedRand{}).Generate([]*entities.Table{table}, []*entities.Relation{rel}, policy)
	assert.Empty(t, qs)

	qs = newGenerator(&scriptedRand{}).Generate(nil, nil, policy)
	assert.Empty(t, qs)
}

func TestDeck_Regenerate(t *testing.T) {
	table := vocabTable(1, 3)
	relA := wordToMeaning(1, 1, entities.ModeTyping)
	relB := &entities.Relation{
		ID:              2,
		TableID:         1,
		QuestionColumns: []string{"meaning"},
		AnswerColumns:   []string{"word"},
		Modes:           []entities.Mode{entities.ModeTyping},
	}
	policy := entities.NewSelectionPolicy([]int64{1}, []entities.Mode{entities.ModeTyping}, 3)

	deck := newGenerator(&scriptedRand{ints: []int{1}}).NewDeck(
		[]*entities.Table{table}, []*entities.Relation{relA, relB}, policy,
	)

	q, err := deck.Regenerate(table.Words[0])
	require.NoError(t, err)
	assert.Same(t, relB, q.Relation)
	assert.Equal(t, "w101", q.Answer)

	_, err = deck.Regenerate(newWord(999, 9, "x", "y"))
	assert.ErrorIs(t, err, ErrWordNotInLibrary)
}

func TestDeck_RegenerateWithoutRelation(t *testing.T) {
	table := vocabTable(1, 2)
	policy := entities.NewSelectionPolicy([]int64{1}, []entities.Mode{entities.ModeTyping}, 3)
	policy.RandomRelation = false

	deck := newGenerator(&scriptedRand{}).NewDeck(
		[]*entities.Table{table}, []*entities.Relation{wordToMeaning(1, 1, entities.ModeTyping)}, policy,
	)

	_, err := deck.Regenerate(table.Words[0])
	assert.ErrorIs(t, err, ErrNoApplicableRelation)
}
