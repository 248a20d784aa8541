package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

func TestAnswerValidator_Grade(t *testing.T) {
	v := NewAnswerValidator()

	mc := &entities.StudyQuestion{Mode: entities.ModeMultipleChoice, Answer: "Gato"}
	typing := &entities.StudyQuestion{Mode: entities.ModeTyping, Answer: "elephant"}
	scrambled := &entities.StudyQuestion{Mode: entities.ModeScrambled, Answer: "gato"}
	phrase := &entities.StudyQuestion{Mode: entities.ModeScrambled, Answer: "to go", Tiles: []string{"o", "g", "t", "o"}}
	tfTrue := &entities.StudyQuestion{Mode: entities.ModeTrueFalse, Answer: "gato", Displayed: "gato", TFIsCorrect: true}
	tfFalse := &entities.StudyQuestion{Mode: entities.ModeTrueFalse, Answer: "gato", Displayed: "perro"}

	tests := []struct {
		name   string
		q      *entities.StudyQuestion
		answer string
		want   Verdict
	}{
		{"choice exact", mc, "Gato", Verdict{Correct: true}},
		{"choice ignores case and spaces", mc, "  gato ", Verdict{Correct: true}},
		{"choice wrong", mc, "Perro", Verdict{}},
		{"choice close is still wrong", mc, "Gat", Verdict{}},
		{"typing exact", typing, "ELEPHANT", Verdict{Correct: true}},
		{"typing near miss", typing, "elephan", Verdict{NearMiss: true}},
		{"typing far off", typing, "dog", Verdict{}},
		{"scrambled", scrambled, "gato", Verdict{Correct: true}},
		{"scrambled phrase from tiles", phrase, "togo", Verdict{Correct: true}},
		{"scrambled phrase with space", phrase, "To Go", Verdict{Correct: true}},
		{"scrambled phrase wrong", phrase, "goto", Verdict{}},
		{"true on true", tfTrue, "True", Verdict{Correct: true}},
		{"false on true", tfTrue, "False", Verdict{}},
		{"false on false", tfFalse, "False", Verdict{Correct: true}},
		{"true on false", tfFalse, "True", Verdict{}},
		{"lowercase token", tfTrue, "true", Verdict{}},
		{"padded token", tfFalse, " False ", Verdict{}},
		{"not a token", tfTrue, "yes", Verdict{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Grade(tt.q, tt.answer))
		})
	}
}

func TestAnswerValidator_Normalize(t *testing.T) {
	v := NewAnswerValidator()

	assert.Equal(t, "hello world", v.normalize("  Hello   World "))
	// Arabic harakat are combining marks.
	assert.Equal(t, "كتب", v.normalize("كَتَبَ"))
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"gato", "gato", 0},
		{"ñandú", "nandu", 2},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshteinDistance(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}
