package service

import (
	"fmt"
	"time"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// scriptedRand replays ints for Intn (modulo n) and then returns 0.
// Shuffle leaves the order untouched.
type scriptedRand struct {
	ints []int
	pos  int
}

func (r *scriptedRand) Intn(n int) int {
	if r.pos < len(r.ints) {
		v := r.ints[r.pos] % n
		r.pos++
		return v
	}
	return 0
}

func (r *scriptedRand) Shuffle(int, func(i, j int)) {}

// reverseRand shuffles by reversing, which makes shuffling observable.
type reverseRand struct{ scriptedRand }

func (r *reverseRand) Shuffle(n int, swap func(i, j int)) {
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		swap(i, j)
	}
}

var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newWord(id, tableID int64, word, meaning string) *entities.Word {
	return &entities.Word{
		ID:      id,
		TableID: tableID,
		Values:  map[string]string{"word": word, "meaning": meaning},
	}
}

// vocabTable builds a table with n words whose IDs start at tableID*100+1.
func vocabTable(tableID int64, n int) *entities.Table {
	t := &entities.Table{
		ID:      tableID,
		Name:    fmt.Sprintf("table %d", tableID),
		Columns: []string{"word", "meaning"},
	}
	for i := 1; i <= n; i++ {
		id := tableID*100 + int64(i)
		t.Words = append(t.Words, newWord(id, tableID, fmt.Sprintf("w%d", id), fmt.Sprintf("m%d", id)))
	}
	return t
}

// wordToMeaning asks for the meaning of a word.
func wordToMeaning(id, tableID int64, modes ...entities.Mode) *entities.Relation {
	return &entities.Relation{
		ID:              id,
		TableID:         tableID,
		Name:            "word to meaning",
		QuestionColumns: []string{"word"},
		AnswerColumns:   []string{"meaning"},
		Modes:           modes,
	}
}

func wordIDs(words []*entities.Word) []int64 {
	out := make([]int64, len(words))
	for i, w := range words {
		out[i] = w.ID
	}
	return out
}

func questionIDs(qs []*entities.StudyQuestion) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.WordID()
	}
	return out
}

// typingQuestions builds typing questions whose answer is "a<id>".
func typingQuestions(ids ...int64) []*entities.StudyQuestion {
	rel := wordToMeaning(1, 1, entities.ModeTyping)
	out := make([]*entities.StudyQuestion, len(ids))
	for i, id := range ids {
		w := newWord(id, 1, fmt.Sprintf("q%d", id), fmt.Sprintf("a%d", id))
		out[i] = &entities.StudyQuestion{
			Mode:     entities.ModeTyping,
			Word:     w,
			Relation: rel,
			Question: "word: " + w.Value("word"),
			Answer:   w.Value("meaning"),
		}
	}
	return out
}

func answerFor(id int64) string { return fmt.Sprintf("a%d", id) }
