package service

import (
	"time"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// Priority weights, summing to 1.0.
const (
	weightRank      = 0.2
	weightFailure   = 0.2
	weightLevel     = 0.1
	weightRecency   = 0.2
	weightQuitQueue = 0.2
	weightInQueue   = 0.1
)

// PriorityScorer computes how urgently a word should be practiced.
// Scores lie in [0, 1]; higher means more urgent.
type PriorityScorer struct {
	now func() time.Time
}

// NewPriorityScorer creates a scorer that measures recency against now.
// A nil now uses time.Now.
func NewPriorityScorer(now func() time.Time) *PriorityScorer {
	if now == nil {
		now = time.Now
	}
	return &PriorityScorer{now: now}
}

// ScoreWord scores w relative to the largest InQueueCount of the candidate pool.
func (s *PriorityScorer) ScoreWord(w *entities.Word, maxInQueue int) float64 {
	return s.Score(w.Stats.Signals(), maxInQueue)
}

// Score computes the weighted sum of the six priority components.
func (s *PriorityScorer) Score(sig entities.PrioritySignals, maxInQueue int) float64 {
	// Negative rank points would break 1/(rp+1); they are as urgent as zero.
	rank := 1.0 / float64(max(sig.RankPoint, 0)+1)
	level := 1.0 / float64(max(sig.Level, 1)+1)

	quit := 0.0
	if sig.QuitQueue {
		quit = 1.0
	}

	inQueue := 1.0 - float64(sig.InQueueCount)/float64(max(maxInQueue, 1))
	inQueue = clamp01(inQueue)

	return weightRank*rank +
		weightFailure*clamp01(sig.FailureRate) +
		weightLevel*level +
		weightRecency*s.recency(sig.LastPracticedAt) +
		weightQuitQueue*quit +
		weightInQueue*inQueue
}

// recency grows in steps with the days since the last practice.
// A word that was never practiced counts as infinitely old.
func (s *PriorityScorer) recency(last *time.Time) float64 {
	if last == nil {
		return 1.0
	}

	days := s.now().Sub(*last).Hours() / 24
	switch {
	case days < 2:
		return 0.1
	case days < 5:
		return 0.5
	case days < 10:
		return 0.8
	default:
		return 1.0
	}
}

// maxInQueueCount returns the largest InQueueCount among words.
func maxInQueueCount(words []*entities.Word) int {
	m := 0
	for _, w := range words {
		m = max(m, w.Stats.InQueueCount)
	}
	return m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
