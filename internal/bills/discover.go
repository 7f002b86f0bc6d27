package bills

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/maddyp86/congress/internal/logger"
)

// textVersionsSegment is the directory that holds a bill's version
// directories.
const textVersionsSegment = "text-versions"

// DiscoverStats reports what the discovery walk saw.
type DiscoverStats struct {
	// Discovered counts descriptor files found under text-versions.
	Discovered int
	// Classified counts descriptors that yielded a bill identity.
	Classified int
	// SkippedLayout counts paths with no recognizable bill identity.
	SkippedLayout int
	// Malformed counts descriptors that could not be parsed and fell
	// back to modification-time dating.
	Malformed int
	// UnknownDate counts candidates whose descriptor carried no usable
	// date.
	UnknownDate int
}

// Discover walks the data tree and returns one Candidate per
// text-version descriptor file. Unrecognized layouts are counted and
// skipped; malformed descriptors degrade to modification-time dating.
// Only I/O errors from the walk itself are fatal.
func Discover(dataRoot string, log logger.Interface) ([]*Candidate, DiscoverStats, error) {
	var (
		cands []*Candidate
		stats DiscoverStats
	)

	err := filepath.WalkDir(dataRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || d.Name() != DescriptorFileName {
			return nil
		}
		versionDir := filepath.Dir(path)
		if filepath.Base(filepath.Dir(versionDir)) != textVersionsSegment {
			return nil
		}
		stats.Discovered++

		cand, err := newCandidate(path, versionDir)
		if err != nil {
			stats.SkippedLayout++
			log.Warn("Skipping unclassifiable descriptor", "path", path, "error", err)
			return nil
		}
		stats.Classified++
		if cand.IssuedOn.IsZero() {
			stats.UnknownDate++
		}
		if cand.malformed {
			stats.Malformed++
		}
		cands = append(cands, cand)
		return nil
	})
	if err != nil {
		return nil, stats, fmt.Errorf("walk data tree %s: %w", dataRoot, err)
	}

	return cands, stats, nil
}

// newCandidate builds a Candidate for one descriptor file. Classification
// failure is the only error; descriptor problems degrade to the mtime
// fallback.
func newCandidate(path, versionDir string) (*Candidate, error) {
	key, err := ClassifyPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat descriptor: %w", err)
	}

	cand := &Candidate{
		Path:        path,
		Key:         key,
		VersionCode: filepath.Base(versionDir),
		ModTime:     info.ModTime().UTC(),
	}

	desc, err := ReadDescriptor(path)
	if err != nil {
		cand.malformed = true
		return cand, nil
	}
	cand.IssuedOn = ParseDate(desc.DateString())
	cand.BillVersionID = desc.BillVersionID
	cand.URLs = desc.URLs
	if desc.VersionCode != "" {
		cand.VersionCode = desc.VersionCode
	}
	return cand, nil
}
