// Package question supplies the read-only catalog of question pairs a
// room draws from when a game starts.
package question

import (
	"context"
	"math/rand"
	"sync"

	"github.com/mohammadf16/numberhunt/internal/model"
)

// Bank draws n real/decoy question pairs honoring an optional category
// and difficulty preference. Draws within one call do not repeat real
// questions unless the catalog is smaller than n.
type Bank interface {
	DrawPairs(ctx context.Context, category string, difficulty, n int) ([]model.QuestionPair, error)
}

// StaticBank serves the built-in catalog from memory. It backs tests
// and deployments without a database.
type StaticBank struct {
	mu        sync.Mutex
	rng       *rand.Rand
	questions []model.Question
	decoys    []model.Question
}

// NewStaticBank creates a bank over the given catalog; pass the result
// of Seed* helpers or any custom lists.
func NewStaticBank(src rand.Source, questions, decoys []model.Question) *StaticBank {
	return &StaticBank{
		rng:       rand.New(src),
		questions: questions,
		decoys:    decoys,
	}
}

// DrawPairs implements Bank.
func (b *StaticBank) DrawPairs(_ context.Context, category string, difficulty, n int) ([]model.QuestionPair, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	pool := filter(b.questions, category, difficulty)
	if len(pool) == 0 {
		pool = filter(b.questions, "", 0)
	}
	if len(pool) == 0 || len(b.decoys) == 0 {
		return nil, ErrBankEmpty
	}

	b.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	pairs := make([]model.QuestionPair, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, model.QuestionPair{
			Real:  pool[i%len(pool)],
			Decoy: b.decoys[b.rng.Intn(len(b.decoys))],
		})
	}
	return pairs, nil
}

func filter(qs []model.Question, category string, difficulty int) []model.Question {
	out := make([]model.Question, 0, len(qs))
	for _, q := range qs {
		if category != "" && q.Category != category {
			continue
		}
		if difficulty != 0 && q.Difficulty != difficulty {
			continue
		}
		out = append(out, q)
	}
	return out
}
