package entities

// StudyQuestion is one presentation of a word. It is not changed after creation;
// a requeued word gets a new StudyQuestion when it is regenerated.
type StudyQuestion struct {
	Mode     Mode
	Word     *Word     // source word, shared with its table
	Relation *Relation // relation the question was built from
	Question string    // rendered question columns
	Answer   string    // canonical answer text

	Options []string // multiple choice: shuffled options including Answer

	Displayed   string // true/false: the answer shown to the user
	TFIsCorrect bool   // true/false: whether Displayed is the real answer

	Tiles []string // scrambled: shuffled letters of Answer
}

// WordID returns the ID of the source word.
func (q *StudyQuestion) WordID() int64 {
	if q == nil || q.Word == nil {
		return 0
	}
	return q.Word.ID
}

// True/false answer tokens.
const (
	AnswerTrue  = "True"
	AnswerFalse = "False"
)
