package service

import (
	"cmp"
	"sort"
	"strings"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// wordSorter orders words by a list of sort rules.
// Rules after the first only break ties of the previous ones.
type wordSorter struct {
	rules      []entities.SortRule
	scorer     *PriorityScorer
	maxInQueue int

	scores map[int64]float64
}

func newWordSorter(rules []entities.SortRule, scorer *PriorityScorer, maxInQueue int) *wordSorter {
	return &wordSorter{
		rules:      rules,
		scorer:     scorer,
		maxInQueue: maxInQueue,
		scores:     make(map[int64]float64),
	}
}

// sorted returns a sorted copy of words. Equal words keep their input order.
func (s *wordSorter) sorted(words []*entities.Word) []*entities.Word {
	out := append([]*entities.Word(nil), words...)
	sort.SliceStable(out, func(i, j int) bool {
		return s.compare(out[i], out[j]) < 0
	})
	return out
}

func (s *wordSorter) compare(a, b *entities.Word) int {
	for _, r := range s.rules {
		c := s.compareBy(r.Key, a, b)
		if r.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func (s *wordSorter) compareBy(key entities.SortKey, a, b *entities.Word) int {
	switch key.Kind() {
	case entities.SortNumeric:
		return cmp.Compare(key.Number(a.Stats), key.Number(b.Stats))
	case entities.SortDate:
		return compareDates(key, a, b)
	case entities.SortColumn:
		return compareText(a.Value(key.Column()), b.Value(key.Column()))
	case entities.SortPriority:
		return cmp.Compare(s.score(a), s.score(b))
	default:
		return 0
	}
}

// score caches priority scores; the scorer clock is read once per word.
func (s *wordSorter) score(w *entities.Word) float64 {
	if v, ok := s.scores[w.ID]; ok {
		return v
	}
	v := s.scorer.ScoreWord(w, s.maxInQueue)
	s.scores[w.ID] = v
	return v
}

// compareDates puts missing dates first: a word never practiced is the oldest.
func compareDates(key entities.SortKey, a, b *entities.Word) int {
	da, db := key.Date(a.Stats), key.Date(b.Stats)
	switch {
	case da == nil && db == nil:
		return 0
	case da == nil:
		return -1
	case db == nil:
		return 1
	default:
		return da.Compare(*db)
	}
}

// compareText compares case-insensitively and falls back to byte order.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// priorityRules is the default ordering: most urgent first.
func priorityRules() []entities.SortRule {
	return []entities.SortRule{{Key: entities.PriorityKey(), Descending: true}}
}
