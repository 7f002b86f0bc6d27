// Package manifest builds the machine-readable file manifests consumed
// downstream: local file lists plus bucket HTTPS variants for each
// dataset (votes, bill metadata, bill text).
package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maddyp86/congress/internal/logger"
)

// storageHost is the public HTTPS host files resolve to once synced.
const storageHost = "https://storage.googleapis.com"

// Manifest is the on-disk manifest format.
type Manifest struct {
	Files []string `json:"files"`
}

// Builder writes manifests for the data and published trees.
type Builder struct {
	dataRoot      string
	publishedRoot string
	manifestDir   string
	bucket        string
	prefix        string
	log           logger.Interface
}

// New creates a Builder. bucket may be empty; the HTTPS variants then
// carry empty strings, matching the historical behavior downstream
// tooling expects.
func New(dataRoot, publishedRoot, manifestDir, bucket, prefix string, log logger.Interface) *Builder {
	return &Builder{
		dataRoot:      dataRoot,
		publishedRoot: publishedRoot,
		manifestDir:   manifestDir,
		bucket:        strings.TrimRight(bucket, "/"),
		prefix:        strings.Trim(prefix, "/"),
		log:           log.WithComponent("manifest"),
	}
}

// Summary reports what Build produced.
type Summary struct {
	// Counts maps manifest file name to number of entries.
	Counts map[string]int
	// BillTextSource records whether bill text came from the published
	// tree ("latest") or fell back to the raw tree ("data").
	BillTextSource string
}

// Build writes all manifests and their HTTPS variants into the manifest
// directory.
func (b *Builder) Build() (*Summary, error) {
	if err := os.MkdirAll(b.manifestDir, 0o755); err != nil {
		return nil, fmt.Errorf("create manifest dir: %w", err)
	}

	summary := &Summary{Counts: make(map[string]int)}

	votes, err := gather(b.dataRoot, "votes/*/*/data.json")
	if err != nil {
		return nil, err
	}
	billMeta, err := gather(b.dataRoot, "bills/*/data.json", "bills/*/*/data.json")
	if err != nil {
		return nil, err
	}

	billText, source, err := b.gatherBillText()
	if err != nil {
		return nil, err
	}
	summary.BillTextSource = source

	sets := []struct {
		name    string
		entries []entry
	}{
		{"votes-manifest.json", votes},
		{"bills-manifest.json", billMeta},
		{"billtext-manifest.json", billText},
	}

	for _, set := range sets {
		if err := b.writePair(set.name, set.entries, source); err != nil {
			return nil, err
		}
		summary.Counts[set.name] = len(set.entries)
		b.log.Info("Manifest built", "name", set.name, "files", len(set.entries))
	}

	return summary, nil
}

// gatherBillText prefers the curated published tree; with none present
// it falls back to every text-version descriptor in the raw tree.
func (b *Builder) gatherBillText() ([]entry, string, error) {
	if _, err := os.Stat(b.publishedRoot); err == nil {
		entries, gatherErr := gather(b.publishedRoot, "*/data.json")
		if gatherErr != nil {
			return nil, "", gatherErr
		}
		return entries, "latest", nil
	}

	entries, err := gather(b.dataRoot, "text-versions/*/data.json")
	if err != nil {
		return nil, "", err
	}
	return entries, "data", nil
}

// writePair writes the local manifest and its HTTPS variant.
func (b *Builder) writePair(name string, entries []entry, billTextSource string) error {
	local := make([]string, len(entries))
	remote := make([]string, len(entries))
	for i, e := range entries {
		local[i] = e.full
		remote[i] = b.remoteURL(name, e, billTextSource)
	}

	if err := writeManifest(filepath.Join(b.manifestDir, name), local); err != nil {
		return err
	}
	gcsName := strings.Replace(name, ".json", "-gcs.json", 1)
	return writeManifest(filepath.Join(b.manifestDir, gcsName), remote)
}

// remoteURL maps one local file to its bucket HTTPS URL. Without a
// configured bucket the entry is an empty string.
func (b *Builder) remoteURL(name string, e entry, billTextSource string) string {
	if b.bucket == "" {
		return ""
	}
	var object string
	if name == "billtext-manifest.json" && billTextSource == "latest" {
		object = path.Join("billtext", e.rel)
	} else {
		object = path.Join("data", e.rel)
	}
	if b.prefix != "" {
		object = path.Join(b.prefix, object)
	}
	return storageHost + "/" + b.bucket + "/" + object
}

// entry is one gathered file: the full local path and the path relative
// to its root, both slash-separated.
type entry struct {
	full string
	rel  string
}

// gather walks root collecting files whose trailing path segments match
// one of the glob patterns. Results are sorted for deterministic output.
func gather(root string, patterns ...string) ([]entry, error) {
	var entries []entry

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		for _, pattern := range patterns {
			if tailMatch(rel, pattern) {
				entries = append(entries, entry{full: filepath.ToSlash(p), rel: rel})
				return nil
			}
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("gather %s: %w", root, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].full < entries[j].full })
	return entries, nil
}

// tailMatch reports whether the trailing segments of rel match the glob
// pattern segment-for-segment.
func tailMatch(rel, pattern string) bool {
	relSegs := strings.Split(rel, "/")
	patSegs := strings.Split(pattern, "/")
	if len(relSegs) < len(patSegs) {
		return false
	}
	tail := relSegs[len(relSegs)-len(patSegs):]
	for i, pat := range patSegs {
		ok, err := path.Match(pat, tail[i])
		if err != nil || !ok {
			return false
		}
	}
	return true
}

// writeManifest serializes one manifest file.
func writeManifest(dest string, files []string) error {
	if files == nil {
		files = []string{}
	}
	raw, err := json.Marshal(Manifest{Files: files})
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(dest, raw, 0o644); err != nil {
		return fmt.Errorf("write manifest %s: %w", dest, err)
	}
	return nil
}
