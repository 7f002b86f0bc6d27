// Package bills defines the bill text-version data model: the composite
// bill identity, candidate version records, and the descriptor files that
// carry per-version metadata.
package bills

import (
	"time"
)

// Key identifies one bill across all of its version records.
type Key struct {
	// Congress is the numbered legislative session, e.g. "118".
	Congress string
	// Type is the short bill type code, e.g. "hr" or "s".
	Type string
	// Number is the bill-within-type identifier, e.g. "85".
	Number string
}

// String returns the key in <congress>/<type>/<number> form.
func (k Key) String() string {
	return k.Congress + "/" + k.Type + "/" + k.Number
}

// BillID returns the combined bill directory name, e.g. "hr85".
func (k Key) BillID() string {
	return k.Type + k.Number
}

// Candidate is one discovered text-version record. Candidates are
// immutable once discovered and regenerated on every run.
type Candidate struct {
	// Path is the descriptor file location on disk.
	Path string
	// Key is the owning bill's identity.
	Key Key
	// VersionCode is the version directory name, e.g. "ih" or "enr".
	VersionCode string
	// IssuedOn is the authoritative issue date; zero when unknown.
	IssuedOn time.Time
	// ModTime is the descriptor file's modification time, used as the
	// fallback date and as the tie-breaker.
	ModTime time.Time
	// BillVersionID is the upstream version identifier, when present.
	BillVersionID string
	// URLs maps resource kind (pdf, xml, html, ...) to URL.
	URLs map[string]string

	// malformed records that the descriptor could not be parsed and the
	// candidate is dated by mtime alone.
	malformed bool
}

// EffectiveDate returns the candidate's primary ordering key: the issued
// date when known, otherwise the descriptor file's modification time. An
// unknown date therefore competes on the recency of the file itself
// rather than always losing (or winning) by being missing.
func (c *Candidate) EffectiveDate() time.Time {
	if !c.IssuedOn.IsZero() {
		return c.IssuedOn
	}
	return c.ModTime
}

// Better reports whether a should replace b as the best record of a
// group: later effective date wins, then later modification time. Equal
// tuples report false, so a reduction seeded with the first record keeps
// the first-encountered candidate on ties.
func Better(a, b *Candidate) bool {
	ad, bd := a.EffectiveDate(), b.EffectiveDate()
	if !ad.Equal(bd) {
		return ad.After(bd)
	}
	return a.ModTime.After(b.ModTime)
}
