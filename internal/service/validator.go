package service

import (
	"strings"
	"unicode"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// Verdict is the grading of one answer.
type Verdict struct {
	Correct  bool
	NearMiss bool // wrong, but close to the answer; typed modes only
}

// AnswerValidator grades answers. Correctness is a case-insensitive exact
// match; fuzzy similarity is only reported as a near miss.
type AnswerValidator struct {
	threshold float64 // near miss similarity threshold (0.0 - 1.0)
}

// NewAnswerValidator creates a new AnswerValidator.
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{
		threshold: 0.8,
	}
}

// Grade checks answer against the question.
func (v *AnswerValidator) Grade(q *entities.StudyQuestion, answer string) Verdict {
	switch q.Mode {
	case entities.ModeTrueFalse:
		saysTrue, ok := parseTrueFalse(answer)
		return Verdict{Correct: ok && saysTrue == q.TFIsCorrect}

	case entities.ModeTyping:
		if v.Matches(answer, q.Answer) {
			return Verdict{Correct: true}
		}
		return Verdict{NearMiss: v.similarity(v.normalize(answer), v.normalize(q.Answer)) >= v.threshold}

	case entities.ModeScrambled:
		// Tiles carry no spaces, so neither does the graded answer.
		got, want := withoutSpaces(answer), withoutSpaces(q.Answer)
		if v.Matches(got, want) {
			return Verdict{Correct: true}
		}
		return Verdict{NearMiss: v.similarity(v.normalize(got), v.normalize(want)) >= v.threshold}

	default:
		return Verdict{Correct: v.Matches(answer, q.Answer)}
	}
}

// Matches reports whether userAnswer equals correctAnswer ignoring case and outer spaces.
func (v *AnswerValidator) Matches(userAnswer, correctAnswer string) bool {
	return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
}

func withoutSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// parseTrueFalse reads the literal True or False token.
func parseTrueFalse(answer string) (value bool, ok bool) {
	switch answer {
	case entities.AnswerTrue:
		return true, true
	case entities.AnswerFalse:
		return false, true
	default:
		return false, false
	}
}

// normalize lowercases s, drops combining marks and collapses whitespace.
func (v *AnswerValidator) normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.Mn, r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func (v *AnswerValidator) similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	cols := len(r2) + 1

	// Two rows instead of the full matrix.
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,    // insertion
				prev[j]+1,      // deletion
				prev[j-1]+cost, // substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
