package ports

// LoanMetrics receives lifecycle counters from the loan service.
type LoanMetrics interface {
	LoanCreated(status string)
	StatusChanged(from, to string)
	LoanDeleted()
	// ValidationFailed is called with "create" or "update".
	ValidationFailed(operation string)
}
