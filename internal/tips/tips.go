// Package tips selects the text shown on a reminder prompt. Draws are
// uniform over the prompt list except that the previous draw never repeats
// back to back.
package tips

import (
	"math/rand"
	"sync"
	"time"
)

var prompts = []string{
	"Smelly butt, smelly butt, please stand up!",
	"Your chakras are literally flattening. Stand up!",
	"The chair is NOT your lobster. Move!",
	"My spirit says your butt needs freedom!",
	"Could you BE sitting any longer?",
	"Could your butt BE any flatter? Stand!",
	"Could this chair BE more attached to you?",
	"So, I'm just gonna DIE here sitting?",
	"Could sitting here BE any sadder? Move!",
	"Your posture is a MESS. Stand up.",
	"If you won't move, I'll MAKE you move!",
	"How YOU sittin'? Get up already!",
	"Stand up or your sandwich gets it!",
	"Oh. My. God. You're STILL sitting?!",
	"Nooo, you can't sit forever. It's like... so bad!",
}

// Count returns the number of available prompts.
func Count() int {
	return len(prompts)
}

// Text returns the prompt at index i, wrapping out-of-range indices.
func Text(i int) string {
	return prompts[i%len(prompts)]
}

// Selector draws prompt indices with a no-immediate-repeat guarantee. Safe
// for concurrent use.
type Selector struct {
	mu   sync.Mutex
	rng  *rand.Rand
	last int // -1 until the first draw
}

// NewSelector creates a Selector. A nil source seeds from the wall clock;
// tests inject a fixed source for deterministic draws.
func NewSelector(src rand.Source) *Selector {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Selector{rng: rand.New(src), last: -1}
}

// NextIndex draws the next prompt index. When the uniform draw collides
// with the previous index, it is remapped uniformly over the remaining
// indices, so no prompt ever shows twice in a row (single-prompt lists are
// exempt).
func (s *Selector) NextIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(prompts)
	idx := s.rng.Intn(n)
	if s.last >= 0 && n > 1 && idx == s.last {
		idx = (idx + 1 + s.rng.Intn(n-1)) % n
	}
	s.last = idx
	return idx
}

// NextText draws the next prompt index and returns its text.
func (s *Selector) NextText() string {
	return Text(s.NextIndex())
}
