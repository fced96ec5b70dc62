package item

import "github.com/dekarrin/simc/internal/util"

// Pool is the single interning point for finished LR1 items described in
// spec.md §5 ("every item is interned through a single pool and handed out
// as a shared reference") and §4.4 ("interning through the LR(1) item pool
// ensures structural uniqueness"). Keyed by LR1.Key() (core plus lookahead
// together), so two items are only ever the same pool entry when their
// content is identical in full -- a core shared by two items with different
// lookahead sets stays two distinct entries, exactly what spec.md §4.4 means
// by "two LR(1) items with the same core but different lookahead sets are
// distinct entities".
//
// Pool does not merge lookaheads itself; that only happens locally while a
// single state's closure is still reaching its fixpoint (see
// automaton.lr1Closure). Pool's job is purely to let two states that
// independently arrive at the exact same finished item share one pointer
// instead of allocating equal-but-distinct copies.
//
// Pool is not safe for concurrent use; spec.md §5 requires any parallel
// closure expansion to serialize access to it itself.
type Pool struct {
	byKey map[string]*LR1
}

// NewPool returns an empty item pool.
func NewPool() *Pool {
	return &Pool{byKey: map[string]*LR1{}}
}

// Intern returns the pool's canonical *LR1 equal to it by full structural
// identity (Key()), storing it if this exact core+lookahead combination
// hasn't been seen before. The returned bool reports whether it was newly
// stored.
func (p *Pool) Intern(it *LR1) (*LR1, bool) {
	key := it.Key()
	if existing, ok := p.byKey[key]; ok {
		return existing, false
	}
	p.byKey[key] = it
	return it, true
}

// Get returns the pool's canonical item with the given full identity, if one
// has been interned.
func (p *Pool) Get(core LR0, la util.StringSet) (*LR1, bool) {
	e, ok := p.byKey[(&LR1{Core: core, Lookahead: la}).Key()]
	return e, ok
}

// Len returns the number of distinct (core, lookahead) items interned.
func (p *Pool) Len() int {
	return len(p.byKey)
}
