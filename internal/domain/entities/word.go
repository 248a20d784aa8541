// Package entities contains domain entities used across the application.
package entities

import "time"

// Table is a user-owned collection of words sharing the same columns.
type Table struct {
	ID      int64    `json:"id"`      // unique table ID
	UserID  int64    `json:"user_id"` // owner of the table
	Name    string   `json:"name"`    // display name, e.g. "Spanish verbs"
	Columns []string `json:"columns"` // ordered column names, e.g. ["word", "translation", "example"]
	Words   []*Word  `json:"words"`   // rows of the table
}

// Word is a single vocabulary row of a table.
// Values maps a column name to its text; missing or empty values are allowed.
type Word struct {
	ID      int64             `json:"id"`       // unique word ID
	TableID int64             `json:"table_id"` // table the word belongs to
	Values  map[string]string `json:"values"`   // column name -> text
	Stats   PracticeStats     `json:"stats"`    // practice statistics across sessions
}

// Value returns the text stored in column, or an empty string.
func (w *Word) Value(column string) string {
	if w == nil || w.Values == nil {
		return ""
	}
	return w.Values[column]
}

// PracticeStats stores the long-term practice statistics of a word.
// It is changed only when a finished session is applied, never during a session.
type PracticeStats struct {
	PassedOnce      int        `json:"passed_once"`       // answers that moved the word to Pass1
	PassedTwice     int        `json:"passed_twice"`      // answers that mastered the word (Pass2)
	Failed          int        `json:"failed"`            // wrong answers
	TotalAttempts   int        `json:"total_attempts"`    // all answers
	InQueueCount    int        `json:"in_queue_count"`    // sessions the word took part in
	QuitQueue       bool       `json:"quit_queue"`        // the word was abandoned in the last session
	LastPracticedAt *time.Time `json:"last_practiced_at"` // nullable, nil if never practiced
}

// FailureRate returns failed/totalAttempts, or 0 when there are no attempts.
func (s PracticeStats) FailureRate() float64 {
	if s.TotalAttempts <= 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.TotalAttempts)
}

// SuccessRate returns 1 - FailureRate, or 0 when there are no attempts.
func (s PracticeStats) SuccessRate() float64 {
	if s.TotalAttempts <= 0 {
		return 0
	}
	return 1 - s.FailureRate()
}

// RankPoint returns the number of passes minus the number of failures.
func (s PracticeStats) RankPoint() int {
	return s.PassedOnce + s.PassedTwice - s.Failed
}

// Level maps RankPoint onto a 1..6 step scale.
func (s PracticeStats) Level() int {
	return levelForRankPoint(s.RankPoint())
}

// Signals returns the inputs the priority scorer works with.
func (s PracticeStats) Signals() PrioritySignals {
	return PrioritySignals{
		RankPoint:       s.RankPoint(),
		FailureRate:     s.FailureRate(),
		Level:           s.Level(),
		LastPracticedAt: s.LastPracticedAt,
		QuitQueue:       s.QuitQueue,
		InQueueCount:    s.InQueueCount,
	}
}

// Apply folds one session tally into the statistics.
//
// Seen words get their counters increased, their queue count bumped and their
// practice time set to now. The quit flag follows abandoned for every word,
// seen or not, so an abandoned word is prioritized in the next session.
func (s PracticeStats) Apply(tally ItemTally, abandoned bool, now time.Time) PracticeStats {
	next := s
	next.QuitQueue = abandoned

	if !tally.Seen() {
		return next
	}

	next.PassedOnce += tally.Passed1
	next.PassedTwice += tally.Passed2
	next.Failed += tally.Failed
	next.TotalAttempts += tally.Attempts()
	next.InQueueCount++

	practicedAt := now
	next.LastPracticedAt = &practicedAt

	return next
}

// PrioritySignals are the per-word values the priority score is computed from.
type PrioritySignals struct {
	RankPoint       int
	FailureRate     float64
	Level           int
	LastPracticedAt *time.Time
	QuitQueue       bool
	InQueueCount    int
}

func levelForRankPoint(rp int) int {
	switch {
	case rp <= 0:
		return 1
	case rp <= 3:
		return 2
	case rp <= 7:
		return 3
	case rp <= 15:
		return 4
	case rp <= 31:
		return 5
	default:
		return 6
	}
}
