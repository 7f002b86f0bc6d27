package synth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/maddyp86/congress/internal/bills"
	"github.com/maddyp86/congress/internal/logger"
)

// Stats reports what a synthesis run did.
type Stats struct {
	// Scanned counts version directories examined.
	Scanned int
	// Synthesized counts descriptors written.
	Synthesized int
	// HadDescriptor counts directories that already carried one.
	HadDescriptor int
	// Failed counts directories whose synthesis failed; these are logged
	// and skipped, never fatal for the batch.
	Failed int
}

// Synthesizer fills in missing descriptor files so later pipeline stages
// see a uniform input.
type Synthesizer struct {
	log logger.Interface
}

// New creates a Synthesizer.
func New(log logger.Interface) *Synthesizer {
	return &Synthesizer{log: log.WithComponent("synth")}
}

// Run walks the data tree and synthesizes a descriptor for every
// text-version directory lacking one. Individual failures are logged and
// skipped; only the walk itself can fail the run.
func (s *Synthesizer) Run(dataRoot string) (Stats, error) {
	var stats Stats

	err := filepath.WalkDir(dataRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() || filepath.Base(filepath.Dir(path)) != "text-versions" {
			return nil
		}
		stats.Scanned++

		descriptorPath := filepath.Join(path, bills.DescriptorFileName)
		if _, statErr := os.Stat(descriptorPath); statErr == nil {
			stats.HadDescriptor++
			return fs.SkipDir
		}

		if synthErr := s.SynthesizeDir(path); synthErr != nil {
			stats.Failed++
			s.log.Warn("Descriptor synthesis failed", "dir", path, "error", synthErr)
		} else {
			stats.Synthesized++
		}
		// Nothing below a version directory is a version directory.
		return fs.SkipDir
	})
	if err != nil {
		return stats, fmt.Errorf("walk data tree %s: %w", dataRoot, err)
	}

	s.log.Info("Synthesis complete",
		"scanned", stats.Scanned,
		"synthesized", stats.Synthesized,
		"existing", stats.HadDescriptor,
		"failed", stats.Failed)
	return stats, nil
}

// SynthesizeDir builds and writes a descriptor for one version
// directory. The metadata sources are tried in fixed order and the first
// well-formed parse wins; with no source at all, a minimal descriptor is
// still produced so the version can compete on directory mtime.
func (s *Synthesizer) SynthesizeDir(versionDir string) error {
	desc := &bills.Descriptor{
		VersionCode: filepath.Base(versionDir),
	}

	if key, err := bills.ClassifyPath(versionDir); err == nil {
		desc.BillID = key.BillID()
		desc.BillIDSource = "path"
	}

	root := s.parseFirstSource(versionDir)
	if root != nil {
		desc.IssuedOn = extractDate(root)
		desc.BillVersionID = extractVersionID(root)
		desc.URLs = extractURLs(root)
	}

	if desc.IssuedOn == "" {
		// Calendar-date precision: the directory mtime is the best
		// remaining signal for when this version appeared.
		info, err := os.Stat(versionDir)
		if err != nil {
			return fmt.Errorf("stat version dir: %w", err)
		}
		desc.IssuedOn = info.ModTime().UTC().Format("2006-01-02")
	}

	return desc.Write(filepath.Join(versionDir, bills.DescriptorFileName))
}

// parseFirstSource returns the first metadata document that parses, or
// nil when none does.
func (s *Synthesizer) parseFirstSource(versionDir string) *node {
	refs, err := findSources(versionDir)
	if err != nil {
		if !errors.Is(err, ErrNoSource) {
			s.log.Debug("Source search failed", "dir", versionDir, "error", err)
		}
		return nil
	}

	for _, ref := range refs {
		raw, readErr := ref.read()
		if readErr != nil {
			s.log.Debug("Unreadable metadata source", "source", ref.String(), "error", readErr)
			continue
		}
		root, parseErr := parseDocument(raw)
		if parseErr != nil {
			s.log.Debug("Malformed metadata source", "source", ref.String(), "error", parseErr)
			continue
		}
		return root
	}
	return nil
}
