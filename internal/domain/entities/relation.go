package entities

import (
	"encoding"
	"fmt"
	"strings"
)

// Mode is the kind of quiz question presented for a word.
type Mode int

const (
	ModeMultipleChoice Mode = iota + 1 // pick the answer among options
	ModeTrueFalse                      // decide whether the displayed answer is right
	ModeTyping                         // type the answer
	ModeScrambled                      // reassemble the answer from shuffled letters
)

var (
	modeNames = [...]string{
		ModeMultipleChoice: "multiple_choice",
		ModeTrueFalse:      "true_false",
		ModeTyping:         "typing",
		ModeScrambled:      "scrambled",
	}
	modeByName = map[string]Mode{
		"multiple_choice": ModeMultipleChoice,
		"true_false":      ModeTrueFalse,
		"typing":          ModeTyping,
		"scrambled":       ModeScrambled,
	}
)

var (
	_ fmt.Stringer             = Mode(0)
	_ encoding.TextMarshaler   = Mode(0)
	_ encoding.TextUnmarshaler = (*Mode)(nil)
)

// AllModes lists every mode in declaration order.
func AllModes() []Mode {
	return []Mode{ModeMultipleChoice, ModeTrueFalse, ModeTyping, ModeScrambled}
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m >= ModeMultipleChoice && m <= ModeScrambled
}

// NeedsDistractors reports whether questions of this mode show wrong answers.
func (m Mode) NeedsDistractors() bool {
	return m == ModeMultipleChoice || m == ModeTrueFalse
}

func (m Mode) String() string {
	if m.IsValid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("invalid mode: %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseMode parses a mode name such as "typing" (case-insensitive).
// Short aliases "mc" and "tf" are accepted as well.
func ParseMode(s string) (Mode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "mc":
		return ModeMultipleChoice, nil
	case "tf":
		return ModeTrueFalse, nil
	}
	if v, ok := modeByName[name]; ok {
		return v, nil
	}
	return 0, fmt.Errorf("invalid mode: %q", s)
}

// Relation maps question columns to answer columns of one table and
// lists the quiz modes it can be asked in.
type Relation struct {
	ID              int64    `json:"id"`
	TableID         int64    `json:"table_id"`
	Name            string   `json:"name"`
	QuestionColumns []string `json:"question_columns"` // non-empty
	AnswerColumns   []string `json:"answer_columns"`   // non-empty
	Modes           []Mode   `json:"modes"`            // supported quiz modes
}

// Supports reports whether the relation can be asked in mode m.
func (r *Relation) Supports(m Mode) bool {
	for _, rm := range r.Modes {
		if rm == m {
			return true
		}
	}
	return false
}

// CompatibleModes returns the modes of selected that the relation supports,
// keeping the order of selected.
func (r *Relation) CompatibleModes(selected []Mode) []Mode {
	out := make([]Mode, 0, len(selected))
	for _, m := range selected {
		if r.Supports(m) && !containsMode(out, m) {
			out = append(out, m)
		}
	}
	return out
}

func containsMode(modes []Mode, m Mode) bool {
	for _, x := range modes {
		if x == m {
			return true
		}
	}
	return false
}
