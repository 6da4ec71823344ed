package cfr

// utilitySlicePool recycles the per-action utility buffers of a traversal.
// It is owned by a single solver and not safe for concurrent use.
type utilitySlicePool struct {
	pool [][]utility
}

func (p *utilitySlicePool) alloc(n int) []utility {
	if p == nil {
		return make([]utility, n)
	}

	if len(p.pool) > 0 {
		m := len(p.pool)
		next := p.pool[m-1]
		p.pool = p.pool[:m-1]
		return append(next, make([]utility, n)...)
	}

	return make([]utility, n)
}

func (p *utilitySlicePool) free(s []utility) {
	if p != nil && cap(s) > 0 {
		p.pool = append(p.pool, s[:0])
	}
}
