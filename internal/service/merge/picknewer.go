package merge

import "time"

// outcome is the decision for one matched pair of records.
type outcome int

const (
	// keepLocal leaves the local record untouched.
	keepLocal outcome = iota
	// adoptNewer writes the incoming record over the local one.
	adoptNewer
	// adoptTie writes the incoming record but counts it as skipped: equal
	// timestamps mean the records are the same edit, so re-importing a
	// backup reports no changes.
	adoptTie
)

// pickNewer resolves a conflict between a local record and an incoming one
// by comparing updatedAt stamps. An incoming record with no stamp wins
// unconditionally: provenance is unclear, the import is trusted.
func pickNewer(local, incoming time.Time) outcome {
	if incoming.IsZero() {
		return adoptNewer
	}
	if incoming.After(local) {
		return adoptNewer
	}
	if incoming.Equal(local) {
		return adoptTie
	}
	return keepLocal
}
