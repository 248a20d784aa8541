package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

func TestComposeQuotas(t *testing.T) {
	tests := []struct {
		name        string
		capacities  []int
		total       int
		strategy    entities.CompositionStrategy
		percentages []float64
		want        []int
	}{
		{
			name:       "balanced with a small table",
			capacities: []int{2, 5, 6},
			total:      10,
			strategy:   entities.ComposeBalanced,
			want:       []int{2, 4, 4},
		},
		{
			name:       "balanced even split",
			capacities: []int{5, 5, 5},
			total:      9,
			strategy:   entities.ComposeBalanced,
			want:       []int{3, 3, 3},
		},
		{
			name:       "balanced remainder goes to first tables",
			capacities: []int{5, 5, 5},
			total:      8,
			strategy:   entities.ComposeBalanced,
			want:       []int{3, 3, 2},
		},
		{
			name:       "not enough words",
			capacities: []int{1, 2},
			total:      10,
			strategy:   entities.ComposeBalanced,
			want:       []int{1, 2},
		},
		{
			name:        "percentage",
			capacities:  []int{10, 10},
			total:       10,
			strategy:    entities.ComposePercentage,
			percentages: []float64{30, 70},
			want:        []int{3, 7},
		},
		{
			name:        "percentage rounds down and last takes the rest",
			capacities:  []int{10, 10, 10},
			total:       10,
			strategy:    entities.ComposePercentage,
			percentages: []float64{33, 33, 34},
			want:        []int{3, 3, 4},
		},
		{
			name:        "percentage shortfall is refilled",
			capacities:  []int{1, 10},
			total:       10,
			strategy:    entities.ComposePercentage,
			percentages: []float64{50, 50},
			want:        []int{1, 9},
		},
		{
			name:        "missing percentages leave everything to the last table",
			capacities:  []int{10, 10},
			total:       4,
			strategy:    entities.ComposePercentage,
			percentages: nil,
			want:        []int{0, 4},
		},
		{
			name:       "zero total",
			capacities: []int{3},
			total:      0,
			strategy:   entities.ComposeBalanced,
			want:       []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := composeQuotas(tt.capacities, tt.total, tt.strategy, tt.percentages)
			assert.Equal(t, tt.want, got)

			sum := 0
			for i, q := range got {
				assert.LessOrEqual(t, q, tt.capacities[i])
				sum += q
			}
			assert.LessOrEqual(t, sum, tt.total)
		})
	}
}

func TestComposeQuotas_NoTables(t *testing.T) {
	assert.Empty(t, composeQuotas(nil, 10, entities.ComposeBalanced, nil))
}
