package valueobject

// BatchFailure describes one failed item of a multi-item operation. Batch
// operations never abort on a failing item; failures are collected and
// returned alongside the successes.
type BatchFailure struct {
	ID     string
	Reason string
}
