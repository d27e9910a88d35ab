package reconcile

// Index maps a key to the right-record indexes sharing it, in input order.
type Index map[string][]int

// BuildIndex indexes right records by key. Records with a null key are
// left out.
func BuildIndex[R any](right []R, key func(R) (string, bool)) Index {
	idx := make(Index, len(right))
	for i, r := range right {
		k, ok := key(r)
		if !ok {
			continue
		}
		idx[k] = append(idx[k], i)
	}
	return idx
}

// Join performs a left join of left against right.
//
// The result has exactly one Match per left record, in left order:
//  1. The primary key is looked up first. The first right record with the
//     same key wins.
//  2. When that attempt yields no value (no hit, or a hit whose value is
//     null) the fallback key is looked up the same way.
//  3. A record matching neither way gets a nil value. This is not an error.
func Join[L, R any](left []L, right []R, a Adapter[L, R]) ([]Match, Summary) {
	primary := BuildIndex(right, a.RightPrimaryKey)
	fallback := BuildIndex(right, a.RightFallbackKey)

	matches := make([]Match, len(left))
	summary := Summary{Total: len(left)}

	for i, l := range left {
		m := Match{Left: i, Right: -1, Strategy: StrategyNone}

		if key, ok := a.LeftPrimaryKey(l); ok {
			if r, hit := lookup(primary, key, i, StrategyPrimary, &summary); hit {
				m.Right = r
				m.Strategy = StrategyPrimary
				if v, ok := a.ResolveValue(right[r]); ok {
					m.Value = &v
				} else {
					summary.PrimaryWithoutValue++
				}
			}
		}

		if m.Value == nil {
			if key, ok := a.LeftFallbackKey(l); ok {
				if r, hit := lookup(fallback, key, i, StrategyFallback, &summary); hit {
					if v, ok := a.ResolveValue(right[r]); ok {
						m.Right = r
						m.Strategy = StrategyFallback
						m.Value = &v
					}
				}
			}
		}

		switch {
		case m.Value == nil:
			summary.Unmatched++
		case m.Strategy == StrategyPrimary:
			summary.Primary++
		default:
			summary.Fallback++
		}

		matches[i] = m
	}

	return matches, summary
}

// lookup returns the first right index for key and records ambiguity.
func lookup(idx Index, key string, left int, strategy Strategy, s *Summary) (int, bool) {
	hits := idx[key]
	if len(hits) == 0 {
		return -1, false
	}
	if len(hits) > 1 {
		if strategy == StrategyPrimary {
			s.AmbiguousPrimary++
		} else {
			s.AmbiguousFallback++
		}
		s.Ambiguities = append(s.Ambiguities, Ambiguity{
			Left:       left,
			Key:        key,
			Strategy:   strategy,
			Candidates: len(hits),
		})
	}
	return hits[0], true
}
