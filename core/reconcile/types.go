package reconcile

// Strategy names the join attempt that produced a match.
type Strategy string

const (
	// StrategyPrimary means the left record matched on its primary key.
	StrategyPrimary Strategy = "primary"
	// StrategyFallback means the primary attempt gave no value and the
	// fallback key matched.
	StrategyFallback Strategy = "fallback"
	// StrategyNone means neither attempt matched.
	StrategyNone Strategy = "none"
)

// Match is the join outcome for one left record.
type Match struct {
	// Left is the index of the left record.
	Left int `json:"left"`

	// Right is the index of the matched right record, or -1.
	// A primary hit without a value keeps its index even when the
	// fallback attempt misses.
	Right int `json:"right"`

	// Strategy is the attempt that set Right.
	Strategy Strategy `json:"strategy"`

	// Value is the resolved value, nil when no attempt produced one.
	Value *string `json:"value"`
}

// Resolved reports whether the match carries a value.
func (m Match) Resolved() bool {
	return m.Value != nil
}

// Ambiguity records a key that matched several right records.
// The first right record in input order always wins.
type Ambiguity struct {
	// Left is the index of the left record that looked the key up.
	Left int `json:"left"`

	// Key is the shared key value.
	Key string `json:"key"`

	// Strategy is the attempt that hit the ambiguity.
	Strategy Strategy `json:"strategy"`

	// Candidates is the number of right records sharing the key.
	Candidates int `json:"candidates"`
}

// Summary provides aggregate statistics for a join.
type Summary struct {
	// Total is the number of left records, always equal to the match count.
	Total int `json:"total"`

	// Primary counts records resolved by the primary key.
	Primary int `json:"primary"`

	// Fallback counts records resolved by the fallback key.
	Fallback int `json:"fallback"`

	// Unmatched counts records left without a value.
	Unmatched int `json:"unmatched"`

	// PrimaryWithoutValue counts primary hits whose right record had no value.
	PrimaryWithoutValue int `json:"primary_without_value"`

	// AmbiguousPrimary counts primary lookups with several candidates.
	AmbiguousPrimary int `json:"ambiguous_primary"`

	// AmbiguousFallback counts fallback lookups with several candidates.
	AmbiguousFallback int `json:"ambiguous_fallback"`

	// Ambiguities lists every ambiguous lookup.
	Ambiguities []Ambiguity `json:"ambiguities,omitempty"`
}
