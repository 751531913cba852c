package scoring

import (
	"iter"

	"github.com/okian/duoquiz/internal/domain/quiz"
)

// primaryFollowups is how many questions the dominant axis contributes first.
const primaryFollowups = 2

// Followups yields the whole follow-up pool in selection order for v: up to
// two questions on v's dominant axis, then questions on other axes, then
// whatever is left. Each stage is shuffled only when reached, and every
// iteration of the sequence draws a fresh order.
func (e *Engine) Followups(v quiz.Vector) iter.Seq[quiz.Question] {
	primary := v.Ranked()[0]
	return func(yield func(quiz.Question) bool) {
		pool := e.catalog.Pool()
		used := make(map[int]bool, len(pool))

		stage := func(keep func(quiz.Question) bool, limit int) bool {
			var candidates []quiz.Question
			for _, q := range pool {
				if !used[q.ID] && keep(q) {
					candidates = append(candidates, q)
				}
			}
			for i, q := range e.shuffle(candidates) {
				if limit >= 0 && i >= limit {
					break
				}
				used[q.ID] = true
				if !yield(q) {
					return false
				}
			}
			return true
		}

		if !stage(func(q quiz.Question) bool { return q.Focus == primary }, primaryFollowups) {
			return
		}
		if !stage(func(q quiz.Question) bool { return q.Focus.Valid() && q.Focus != primary }, -1) {
			return
		}
		stage(func(quiz.Question) bool { return true }, -1)
	}
}

// PickFollowups returns min(count, pool size) distinct follow-up questions.
func (e *Engine) PickFollowups(v quiz.Vector, count int) []quiz.Question {
	if count <= 0 {
		return []quiz.Question{}
	}
	out := make([]quiz.Question, 0, count)
	for q := range e.Followups(v) {
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	return out
}
