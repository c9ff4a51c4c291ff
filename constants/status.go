package constants

// ReconStatus is the canonical verdict for a reconciled invoice.
type ReconStatus string

// Stable values (these exact strings appear in exported tables).
const (
	ReconMatch        ReconStatus = "MATCH"        // derived gross within tolerance of declared total
	ReconMismatch     ReconStatus = "MISMATCH"     // derived gross outside tolerance
	ReconUndetermined ReconStatus = "UNDETERMINED" // declared total missing or unparsable
)
