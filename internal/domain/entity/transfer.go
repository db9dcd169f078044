package entity

// TransferGroup is a candidate pair of transactions representing one manual
// transfer between two of the same user's accounts. Source is the outflow
// (negative amount), Destination the inflow (positive amount).
type TransferGroup struct {
	Source       *Transaction
	Destination  *Transaction
	Confidence   float64
	MatchReasons []string
}
