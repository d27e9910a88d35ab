// Package reconcile provides a generic two-pass left join between two
// record sets of different shapes.
//
// # Architecture
//
// 1. Adapter: model-specific key and value extractors. Left and right records
// expose a primary key and a fallback key; right records also expose the
// value they contribute to the joined record.
//
// 2. Engine: Join indexes the right records once per key kind, then walks the
// left records in order. The primary key is tried first; the fallback key is
// tried only when the primary attempt produced no value. When a key is shared
// by several right records the first one in input order wins and the
// ambiguity is counted in the Summary.
//
// 3. Cache: TTL-based caching layer with singleflight stampede protection,
// used by the HTTP layer to avoid re-running a join per request.
//
// # Guarantees
//
//   - The join is total: one Match per left record, same order.
//   - A miss is a nil value, never an error.
//   - Inputs are never mutated.
//
// # Usage Example
//
//	matches, summary := reconcile.Join(records, webRows, capitalAdapter{})
//	for _, m := range matches {
//	    fmt.Println(m.Left, m.Strategy, m.Value)
//	}
package reconcile
