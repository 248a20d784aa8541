package entities

import "fmt"

// ItemState is the in-session mastery state of a word.
type ItemState int

const (
	StateUnseen ItemState = iota // not answered yet
	StateFail                    // last answer was wrong
	StatePass1                   // one correct answer since the last failure
	StatePass2                   // mastered, removed from the queue
)

var itemStateNames = [...]string{
	StateUnseen: "unseen",
	StateFail:   "fail",
	StatePass1:  "pass1",
	StatePass2:  "pass2",
}

func (s ItemState) String() string {
	if s >= StateUnseen && s <= StatePass2 {
		return itemStateNames[s]
	}
	return fmt.Sprintf("ItemState(%d)", int(s))
}

// IsTerminal reports whether the word has left the queue for good.
func (s ItemState) IsTerminal() bool {
	return s == StatePass2
}

// Next returns the state after an answer.
func (s ItemState) Next(correct bool) ItemState {
	if !correct {
		return StateFail
	}
	if s == StatePass1 {
		return StatePass2
	}
	return StatePass1
}

// XP rewards.
const (
	XPPerPass    = 1
	XPPerMastery = 2
)

// ItemTally counts the state increments of one word during a session.
type ItemTally struct {
	Passed1 int `json:"passed1"`
	Passed2 int `json:"passed2"`
	Failed  int `json:"failed"`
}

// Seen reports whether the word was answered at least once.
func (t ItemTally) Seen() bool {
	return t.Passed1+t.Passed2+t.Failed > 0
}

// Attempts returns the number of answers given. Every correct answer counts
// towards Passed1, mastering ones towards Passed2 as well.
func (t ItemTally) Attempts() int {
	return t.Passed1 + t.Failed
}

// XP returns the experience earned by the tally.
func (t ItemTally) XP() int {
	return t.Passed1*XPPerPass + t.Passed2*XPPerMastery
}

// SessionResult is the outcome of a session handed back for persistence.
type SessionResult struct {
	SessionID      string              `json:"session_id"`
	Items          map[int64]ItemTally `json:"items"` // word ID -> tally, seen words only
	Abandoned      []int64             `json:"abandoned,omitempty"`
	ElapsedSeconds int                 `json:"elapsed_seconds"`
	XP             int                 `json:"xp"`
}

// StatisticsUpdate is the new statistics of one word after a session.
type StatisticsUpdate struct {
	WordID int64
	Stats  PracticeStats
}
