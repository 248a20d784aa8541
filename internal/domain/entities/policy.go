package entities

import (
	"encoding"
	"fmt"
	"strings"
	"time"
)

// SelectionMode is the top-level way words are picked for a session.
type SelectionMode string

const (
	SelectionTable    SelectionMode = "table"    // explicit tables, automatic or manual picking
	SelectionCriteria SelectionMode = "criteria" // sort rules across the selected tables
)

// WordSelectionStrategy decides whether tables are ranked together or one by one.
type WordSelectionStrategy string

const (
	SelectHolistic WordSelectionStrategy = "holistic"  // one ranking across all selected tables
	SelectPerTable WordSelectionStrategy = "per_table" // rank each table, then compose
)

// CompositionStrategy decides how the word count is split across tables.
type CompositionStrategy string

const (
	ComposeBalanced   CompositionStrategy = "balanced"   // split as evenly as possible
	ComposePercentage CompositionStrategy = "percentage" // split by TablePercentages
)

// SelectionPolicy configures which words enter a session and how they are asked.
// It is configuration only; Word Count is a target, not a guarantee.
type SelectionPolicy struct {
	Mode             SelectionMode         `json:"mode"`
	TableIDs         []int64               `json:"table_ids"`
	RelationIDs      []int64               `json:"relation_ids"`
	RandomRelation   bool                  `json:"random_relation"`
	Modes            []Mode                `json:"modes"`
	RandomizeModes   bool                  `json:"randomize_modes"`
	WordCount        int                   `json:"word_count"`
	Manual           bool                  `json:"manual"`
	ManualWordIDs    []int64               `json:"manual_word_ids"`
	WordSelection    WordSelectionStrategy `json:"word_selection"`
	Composition      CompositionStrategy   `json:"composition"`
	TablePercentages map[int64]float64     `json:"table_percentages"` // table ID -> share in percent
	CriteriaSorts    []SortRule            `json:"criteria_sorts"`
}

// NewSelectionPolicy creates a table-mode policy over tableIDs with default strategies.
func NewSelectionPolicy(tableIDs []int64, modes []Mode, wordCount int) *SelectionPolicy {
	return &SelectionPolicy{
		Mode:           SelectionTable,
		TableIDs:       tableIDs,
		RandomRelation: true,
		Modes:          modes,
		WordCount:      wordCount,
		WordSelection:  SelectHolistic,
		Composition:    ComposeBalanced,
	}
}

// Regenerates reports whether requeued questions are synthesized again.
func (p *SelectionPolicy) Regenerates() bool {
	return p.RandomRelation || p.RandomizeModes
}

// HasRelation reports whether relationID is explicitly selected.
func (p *SelectionPolicy) HasRelation(relationID int64) bool {
	for _, id := range p.RelationIDs {
		if id == relationID {
			return true
		}
	}
	return false
}

// SortKind tags the variant of a SortKey.
type SortKind int

const (
	SortNumeric  SortKind = iota + 1 // numeric statistic
	SortDate                         // date statistic, nil sorts first
	SortColumn                       // lexicographic word column
	SortPriority                     // derived priority score
)

// StatField names a sortable statistic.
type StatField string

const (
	FieldPassedOnce      StatField = "passed_once"
	FieldPassedTwice     StatField = "passed_twice"
	FieldFailed          StatField = "failed"
	FieldTotalAttempts   StatField = "total_attempts"
	FieldInQueueCount    StatField = "in_queue_count"
	FieldRankPoint       StatField = "rank_point"
	FieldLevel           StatField = "level"
	FieldFailureRate     StatField = "failure_rate"
	FieldSuccessRate     StatField = "success_rate"
	FieldLastPracticedAt StatField = "last_practiced_at"
)

var numericFields = map[StatField]func(PracticeStats) float64{
	FieldPassedOnce:    func(s PracticeStats) float64 { return float64(s.PassedOnce) },
	FieldPassedTwice:   func(s PracticeStats) float64 { return float64(s.PassedTwice) },
	FieldFailed:        func(s PracticeStats) float64 { return float64(s.Failed) },
	FieldTotalAttempts: func(s PracticeStats) float64 { return float64(s.TotalAttempts) },
	FieldInQueueCount:  func(s PracticeStats) float64 { return float64(s.InQueueCount) },
	FieldRankPoint:     func(s PracticeStats) float64 { return float64(s.RankPoint()) },
	FieldLevel:         func(s PracticeStats) float64 { return float64(s.Level()) },
	FieldFailureRate:   func(s PracticeStats) float64 { return s.FailureRate() },
	FieldSuccessRate:   func(s PracticeStats) float64 { return s.SuccessRate() },
}

var dateFields = map[StatField]func(PracticeStats) *time.Time{
	FieldLastPracticedAt: func(s PracticeStats) *time.Time { return s.LastPracticedAt },
}

const (
	sortKeyPriority     = "priority"
	sortKeyColumnPrefix = "column:"
)

// SortKey is what a sort rule compares. It is a closed set of variants built
// with NumericKey, DateKey, ColumnKey and PriorityKey.
type SortKey struct {
	kind   SortKind
	field  StatField
	column string
}

var (
	_ fmt.Stringer             = SortKey{}
	_ encoding.TextMarshaler   = SortKey{}
	_ encoding.TextUnmarshaler = (*SortKey)(nil)
)

// NumericKey sorts by a numeric statistic.
func NumericKey(f StatField) (SortKey, error) {
	if _, ok := numericFields[f]; !ok {
		return SortKey{}, fmt.Errorf("not a numeric statistic: %q", f)
	}
	return SortKey{kind: SortNumeric, field: f}, nil
}

// DateKey sorts by a date statistic.
func DateKey(f StatField) (SortKey, error) {
	if _, ok := dateFields[f]; !ok {
		return SortKey{}, fmt.Errorf("not a date statistic: %q", f)
	}
	return SortKey{kind: SortDate, field: f}, nil
}

// ColumnKey sorts lexicographically by a word column.
func ColumnKey(column string) SortKey {
	return SortKey{kind: SortColumn, column: column}
}

// PriorityKey sorts by the derived priority score.
func PriorityKey() SortKey {
	return SortKey{kind: SortPriority}
}

// ParseSortKey parses "priority", "column:<name>" or a statistic name.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == sortKeyPriority:
		return PriorityKey(), nil
	case strings.HasPrefix(s, sortKeyColumnPrefix):
		col := strings.TrimPrefix(s, sortKeyColumnPrefix)
		if col == "" {
			return SortKey{}, fmt.Errorf("empty column in sort key %q", s)
		}
		return ColumnKey(col), nil
	}

	f := StatField(s)
	if _, ok := numericFields[f]; ok {
		return NumericKey(f)
	}
	if _, ok := dateFields[f]; ok {
		return DateKey(f)
	}
	return SortKey{}, fmt.Errorf("unknown sort key %q", s)
}

// Kind returns the variant tag.
func (k SortKey) Kind() SortKind { return k.kind }

// Field returns the statistic of a numeric or date key.
func (k SortKey) Field() StatField { return k.field }

// Column returns the column of a column key.
func (k SortKey) Column() string { return k.column }

// Number returns the numeric statistic of s. Only valid for SortNumeric keys.
func (k SortKey) Number(s PracticeStats) float64 {
	if fn, ok := numericFields[k.field]; ok {
		return fn(s)
	}
	return 0
}

// Date returns the date statistic of s. Only valid for SortDate keys.
func (k SortKey) Date(s PracticeStats) *time.Time {
	if fn, ok := dateFields[k.field]; ok {
		return fn(s)
	}
	return nil
}

func (k SortKey) String() string {
	switch k.kind {
	case SortPriority:
		return sortKeyPriority
	case SortColumn:
		return sortKeyColumnPrefix + k.column
	case SortNumeric, SortDate:
		return string(k.field)
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SortKey) MarshalText() ([]byte, error) {
	if k.kind == 0 {
		return nil, fmt.Errorf("invalid sort key")
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SortKey) UnmarshalText(text []byte) error {
	v, err := ParseSortKey(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// SortRule is one ordering step; rules are applied in order as tie-breakers.
type SortRule struct {
	Key        SortKey `json:"key"`
	Descending bool    `json:"descending"`
}
