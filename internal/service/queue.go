package service

import (
	"slices"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// Queue is the ordered list of pending questions of a session.
// Questions live in an arena, one slot per word; the order holds slot indexes,
// so replacing a question never disturbs the queue.
type Queue struct {
	arena []*entities.StudyQuestion
	order []int
}

// NewQueue creates a queue holding questions in the given order.
func NewQueue(questions []*entities.StudyQuestion) *Queue {
	q := &Queue{
		arena: make([]*entities.StudyQuestion, len(questions)),
		order: make([]int, len(questions)),
	}
	for i, sq := range questions {
		q.arena[i] = sq
		q.order[i] = i
	}
	return q
}

// Len returns the number of pending questions.
func (q *Queue) Len() int { return len(q.order) }

// At returns the question at position i.
func (q *Queue) At(i int) *entities.StudyQuestion {
	return q.arena[q.order[i]]
}

// Replace swaps the question at position i without moving it.
func (q *Queue) Replace(i int, sq *entities.StudyQuestion) {
	q.arena[q.order[i]] = sq
}

// Remove drops position i from the queue.
func (q *Queue) Remove(i int) {
	q.order = slices.Delete(q.order, i, i+1)
}

// MoveToBack moves position i to the end and returns its new position.
func (q *Queue) MoveToBack(i int) int {
	slot := q.order[i]
	q.order = append(slices.Delete(q.order, i, i+1), slot)
	return len(q.order) - 1
}

// MoveForwardBy moves position i n places towards the back, stopping at the end.
// It returns the new position.
func (q *Queue) MoveForwardBy(i, n int) int {
	slot := q.order[i]
	q.order = slices.Delete(q.order, i, i+1)
	to := min(i+n, len(q.order))
	q.order = slices.Insert(q.order, to, slot)
	return to
}

// Questions returns the pending questions in queue order.
func (q *Queue) Questions() []*entities.StudyQuestion {
	out := make([]*entities.StudyQuestion, len(q.order))
	for i, slot := range q.order {
		out[i] = q.arena[slot]
	}
	return out
}
