package service

import (
	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// CandidateSelector picks the words of a session according to a selection policy.
type CandidateSelector struct {
	scorer *PriorityScorer
}

// NewCandidateSelector creates a new CandidateSelector.
func NewCandidateSelector(scorer *PriorityScorer) *CandidateSelector {
	return &CandidateSelector{scorer: scorer}
}

// tableGroup is an eligible table together with its words in table order.
type tableGroup struct {
	table *entities.Table
	words []*entities.Word
}

// Select returns at most policy.WordCount eligible words.
// A word is eligible when its table is selected and has at least one
// applicable relation. The result is empty when nothing is eligible.
func (s *CandidateSelector) Select(
	tables []*entities.Table,
	relations []*entities.Relation,
	policy *entities.SelectionPolicy,
) []*entities.Word {
	if policy == nil || policy.WordCount <= 0 || len(policy.Modes) == 0 {
		return nil
	}

	groups := eligibleGroups(tables, relations, policy)
	if len(groups) == 0 {
		return nil
	}

	var pool []*entities.Word
	for _, g := range groups {
		pool = append(pool, g.words...)
	}
	maxInQueue := maxInQueueCount(pool)

	if policy.Mode != entities.SelectionCriteria {
		if policy.Manual {
			return s.selectManual(pool, policy)
		}
		if policy.WordSelection != entities.SelectPerTable {
			ranked := newWordSorter(priorityRules(), s.scorer, maxInQueue).sorted(pool)
			return takeFirst(ranked, policy.WordCount)
		}
	}

	// Per-table ranking in table mode and criteria mode share the sort rules.
	rules := policy.CriteriaSorts
	if len(rules) == 0 {
		rules = priorityRules()
	}
	sorter := newWordSorter(rules, s.scorer, maxInQueue)

	ranked := make([][]*entities.Word, len(groups))
	capacities := make([]int, len(groups))
	percentages := make([]float64, len(groups))
	for i, g := range groups {
		ranked[i] = sorter.sorted(g.words)
		capacities[i] = len(g.words)
		percentages[i] = policy.TablePercentages[g.table.ID]
	}

	quotas := composeQuotas(capacities, policy.WordCount, policy.Composition, percentages)

	var out []*entities.Word
	for i, q := range quotas {
		out = append(out, takeFirst(ranked[i], q)...)
	}
	return takeFirst(out, policy.WordCount)
}

// selectManual keeps the user's hand-picked order, dropping unknown and repeated IDs.
func (s *CandidateSelector) selectManual(pool []*entities.Word, policy *entities.SelectionPolicy) []*entities.Word {
	byID := make(map[int64]*entities.Word, len(pool))
	for _, w := range pool {
		byID[w.ID] = w
	}

	out := make([]*entities.Word, 0, len(policy.ManualWordIDs))
	for _, id := range uniqueKeepOrder(policy.ManualWordIDs) {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return takeFirst(out, policy.WordCount)
}

// eligibleGroups returns the selected tables that have an applicable relation,
// in the order the policy lists them.
func eligibleGroups(
	tables []*entities.Table,
	relations []*entities.Relation,
	policy *entities.SelectionPolicy,
) []tableGroup {
	byID := make(map[int64]*entities.Table, len(tables))
	for _, t := range tables {
		if t != nil {
			byID[t.ID] = t
		}
	}

	var groups []tableGroup
	for _, id := range uniqueKeepOrder(policy.TableIDs) {
		t, ok := byID[id]
		if !ok {
			continue
		}
		if len(applicableRelations(t.ID, relations, policy)) == 0 {
			continue
		}

		words := make([]*entities.Word, 0, len(t.Words))
		for _, w := range t.Words {
			if w != nil {
				words = append(words, w)
			}
		}
		if len(words) == 0 {
			continue
		}
		groups = append(groups, tableGroup{table: t, words: words})
	}
	return groups
}

// uniqueKeepOrder removes duplicates while preserving the original order.
func uniqueKeepOrder[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, v := range items {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// takeFirst returns the first n elements of items, or the whole slice if it is shorter.
func takeFirst[T any](items []T, n int) []T {
	if n <= 0 {
		return nil
	}
	if len(items) <= n {
		return items
	}
	return items[:n]
}
