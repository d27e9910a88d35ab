package reconcile

// Adapter defines the model-specific side of a two-pass left join between
// a left record type L and a right record type R.
//
// Every extractor returns ok=false for a null key. Null keys never match.
type Adapter[L, R any] interface {
	// Name returns the unique name of this adapter (e.g., "capitals").
	Name() string

	// LeftPrimaryKey returns the primary join key of a left record.
	LeftPrimaryKey(l L) (string, bool)

	// RightPrimaryKey returns the primary join key of a right record.
	RightPrimaryKey(r R) (string, bool)

	// LeftFallbackKey returns the key tried when the primary attempt
	// produced no value.
	LeftFallbackKey(l L) (string, bool)

	// RightFallbackKey returns the fallback join key of a right record.
	RightFallbackKey(r R) (string, bool)

	// ResolveValue returns the value a right record contributes to the
	// joined record, ok=false when it has none.
	ResolveValue(r R) (string, bool)
}
