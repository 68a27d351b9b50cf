package scheduler

import "github.com/jlenaghan/boliye/internal/domain"

// ReviewQueue is the prepared card set for one review session: due cards
// most overdue first, new cards in creation order. Built once at session
// start and never persisted; cards that come due later are not injected.
type ReviewQueue struct {
	Due   []*domain.Card
	New   []*domain.Card
	Total int
}

// NewReviewQueue builds a queue from already-fetched due and new cards.
func NewReviewQueue(due, newCards []*domain.Card) *ReviewQueue {
	return &ReviewQueue{
		Due:   due,
		New:   newCards,
		Total: len(due) + len(newCards),
	}
}

// Interleaved returns the session's presentation order: mostly reviews, with
// one new card mixed in after every interval-th due card so unfamiliar
// material never arrives in a clump. Leftover new cards go at the end.
//
// The result is deterministic for fixed inputs and always contains every
// card from both lists exactly once.
func (q *ReviewQueue) Interleaved() []*domain.Card {
	if len(q.New) == 0 {
		return append([]*domain.Card(nil), q.Due...)
	}
	if len(q.Due) == 0 {
		return append([]*domain.Card(nil), q.New...)
	}

	interval := len(q.Due) / (len(q.New) + 1)
	if interval < 1 {
		interval = 1
	}

	result := make([]*domain.Card, 0, q.Total)
	newIdx := 0
	for i, card := range q.Due {
		result = append(result, card)
		if newIdx < len(q.New) && (i+1)%interval == 0 {
			result = append(result, q.New[newIdx])
			newIdx++
		}
	}

	return append(result, q.New[newIdx:]...)
}
