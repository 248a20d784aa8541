package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPracticeStatsRates(t *testing.T) {
	tests := []struct {
		name    string
		stats   PracticeStats
		failure float64
		success float64
	}{
		{name: "no attempts", stats: PracticeStats{}, failure: 0, success: 0},
		{name: "all failed", stats: PracticeStats{Failed: 4, TotalAttempts: 4}, failure: 1, success: 0},
		{name: "half failed", stats: PracticeStats{Failed: 2, TotalAttempts: 4}, failure: 0.5, success: 0.5},
		{name: "none failed", stats: PracticeStats{PassedOnce: 3, TotalAttempts: 3}, failure: 0, success: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.failure, tt.stats.FailureRate(), 1e-9)
			assert.InDelta(t, tt.success, tt.stats.SuccessRate(), 1e-9)
			if tt.stats.TotalAttempts > 0 {
				assert.InDelta(t, 1.0, tt.stats.FailureRate()+tt.stats.SuccessRate(), 1e-9)
			}
		})
	}
}

func TestPracticeStatsLevel(t *testing.T) {
	tests := []struct {
		rankPoint int
		level     int
	}{
		{-5, 1}, {0, 1}, {1, 2}, {3, 2}, {4, 3}, {7, 3}, {8, 4}, {15, 4}, {16, 5}, {31, 5}, {32, 6}, {100, 6},
	}

	for _, tt := range tests {
		s := PracticeStats{PassedOnce: max(tt.rankPoint, 0), Failed: max(-tt.rankPoint, 0)}
		assert.Equal(t, tt.rankPoint, s.RankPoint())
		assert.Equal(t, tt.level, s.Level(), "rank point %d", tt.rankPoint)
	}
}

func TestPracticeStatsApply(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	before := PracticeStats{PassedOnce: 2, Failed: 1, TotalAttempts: 3, InQueueCount: 1, QuitQueue: true}

	t.Run("seen word", func(t *testing.T) {
		got := before.Apply(ItemTally{Passed1: 2, Passed2: 1, Failed: 1}, false, now)

		assert.Equal(t, 4, got.PassedOnce)
		assert.Equal(t, 1, got.PassedTwice)
		assert.Equal(t, 2, got.Failed)
		assert.Equal(t, 6, got.TotalAttempts)
		assert.Equal(t, 2, got.InQueueCount)
		assert.False(t, got.QuitQueue)
		if assert.NotNil(t, got.LastPracticedAt) {
			assert.True(t, got.LastPracticedAt.Equal(now))
		}
	})

	t.Run("abandoned unseen word", func(t *testing.T) {
		fresh := PracticeStats{}
		got := fresh.Apply(ItemTally{}, true, now)

		assert.True(t, got.QuitQueue)
		assert.Zero(t, got.TotalAttempts)
		assert.Zero(t, got.InQueueCount)
		assert.Nil(t, got.LastPracticedAt)
	})

	t.Run("input is not mutated", func(t *testing.T) {
		_ = before.Apply(ItemTally{Failed: 3}, true, now)
		assert.Equal(t, 1, before.Failed)
	})
}

func TestWordValue(t *testing.T) {
	w := &Word{Values: map[string]string{"word": "gato"}}
	assert.Equal(t, "gato", w.Value("word"))
	assert.Equal(t, "", w.Value("missing"))

	var nilWord *Word
	assert.Equal(t, "", nilWord.Value("word"))
}
