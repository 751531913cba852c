package pairsim

import (
	"math/rand/v2"

	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
)

// bonusChance is the share of participants who answer the bonus question.
const bonusChance = 0.5

// generateAnswers answers every base question at random, then the follow-ups
// the engine suggests for that vector, then maybe a key question.
func generateAnswers(rng *rand.Rand, engine *scoring.Engine, followups int) model.UserAnswers {
	catalog := engine.Catalog()
	answers := map[int]int{}
	for _, q := range catalog.Base() {
		answers[q.ID] = q.Options[rng.IntN(len(q.Options))].Value
	}
	for _, q := range engine.PickFollowups(engine.ScoreVector(answers), followups) {
		answers[q.ID] = q.Options[rng.IntN(len(q.Options))].Value
	}

	u := model.NewUserAnswers(answers)
	if keys := catalog.Keys(); len(keys) > 0 && rng.IntN(2) == 0 {
		k := keys[rng.IntN(len(keys))]
		u = u.WithKey(k.ID, k.Options[rng.IntN(len(k.Options))].Value)
	}
	if rng.Float64() < bonusChance {
		u = u.WithBonus(1 + rng.IntN(5))
	}
	return u
}

// mirror negates the participant's lean by picking the option at the
// opposite end of each question.
func mirror(engine *scoring.Engine, u model.UserAnswers) model.UserAnswers {
	out := u.Clone()
	for id, v := range u.Answers {
		q, ok := engine.Catalog().Lookup(id)
		if !ok {
			continue
		}
		for i, o := range q.Options {
			if o.Value == v {
				out.Answers[id] = q.Options[len(q.Options)-1-i].Value
				break
			}
		}
	}
	return out
}
