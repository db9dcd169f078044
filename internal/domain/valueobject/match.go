package valueobject

// MatchMethod tags how a matched pair was produced.
type MatchMethod string

const (
	// MatchMethodExact marks external-id matches and to-the-cent,
	// same-day amount matches.
	MatchMethodExact MatchMethod = "exact"
	// MatchMethodFuzzy marks tolerance-window matches.
	MatchMethodFuzzy MatchMethod = "fuzzy"
	// MatchMethodManual marks user-confirmed links.
	MatchMethodManual MatchMethod = "manual"
)
