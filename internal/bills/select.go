package bills

import (
	"sort"
)

// Group buckets candidates by bill identity, preserving encounter order
// within each group so tie-breaking stays stable.
func Group(cands []*Candidate) map[Key][]*Candidate {
	groups := make(map[Key][]*Candidate, len(cands))
	for _, c := range cands {
		groups[c.Key] = append(groups[c.Key], c)
	}
	return groups
}

// SelectLatest picks the single best candidate per bill using the
// documented ordering: effective date descending, then modification time
// descending, first-encountered on ties. Every non-empty group produces
// a winner; a group whose members all lack dates competes on mtime.
func SelectLatest(cands []*Candidate) map[Key]*Candidate {
	winners := make(map[Key]*Candidate)
	for key, group := range Group(cands) {
		best := group[0]
		for _, c := range group[1:] {
			if Better(c, best) {
				best = c
			}
		}
		winners[key] = best
	}
	return winners
}

// SortedKeys returns the winners' keys in deterministic order for
// reproducible logs and staging.
func SortedKeys(winners map[Key]*Candidate) []Key {
	keys := make([]Key, 0, len(winners))
	for k := range winners {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}
