package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in      string
		kind    SortKind
		want    string
		wantErr bool
	}{
		{in: "priority", kind: SortPriority, want: "priority"},
		{in: "failed", kind: SortNumeric, want: "failed"},
		{in: "failure_rate", kind: SortNumeric, want: "failure_rate"},
		{in: "last_practiced_at", kind: SortDate, want: "last_practiced_at"},
		{in: "column:word", kind: SortColumn, want: "column:word"},
		{in: "column:", wantErr: true},
		{in: "bogus", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k, err := ParseSortKey(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.kind, k.Kind())
			assert.Equal(t, tt.want, k.String())
		})
	}
}

func TestSortKeyConstructorsRejectWrongVariant(t *testing.T) {
	_, err := NumericKey(FieldLastPracticedAt)
	assert.Error(t, err)

	_, err = DateKey(FieldFailed)
	assert.Error(t, err)
}

func TestSelectionPolicyJSON(t *testing.T) {
	failed, err := NumericKey(FieldFailed)
	require.NoError(t, err)

	p := NewSelectionPolicy([]int64{1, 2}, []Mode{ModeTyping, ModeMultipleChoice}, 12)
	p.Mode = SelectionCriteria
	p.TablePercentages = map[int64]float64{1: 70, 2: 30}
	p.CriteriaSorts = []SortRule{{Key: failed, Descending: true}, {Key: ColumnKey("word")}}

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"modes":["typing","multiple_choice"]`)
	assert.Contains(t, string(data), `"key":"column:word"`)

	var got SelectionPolicy
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *p, got)
}

func TestParseMode(t *testing.T) {
	for _, m := range AllModes() {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode(" MC ")
	require.NoError(t, err)
	assert.Equal(t, ModeMultipleChoice, got)

	_, err = ParseMode("essay")
	assert.Error(t, err)
}

func TestRelationCompatibleModes(t *testing.T) {
	r := &Relation{Modes: []Mode{ModeTyping, ModeMultipleChoice}}

	got := r.CompatibleModes([]Mode{ModeTrueFalse, ModeMultipleChoice, ModeTyping, ModeMultipleChoice})
	assert.Equal(t, []Mode{ModeMultipleChoice, ModeTyping}, got)
	assert.Empty(t, r.CompatibleModes([]Mode{ModeScrambled}))
}

func TestItemStateNext(t *testing.T) {
	assert.Equal(t, StatePass1, StateUnseen.Next(true))
	assert.Equal(t, StateFail, StateUnseen.Next(false))
	assert.Equal(t, StatePass2, StatePass1.Next(true))
	assert.Equal(t, StateFail, StatePass1.Next(false))
	assert.Equal(t, StatePass1, StateFail.Next(true))
	assert.True(t, StatePass2.IsTerminal())
}
