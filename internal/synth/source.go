// Package synth synthesizes descriptor files for text-version
// directories that lack one, from whatever raw metadata document is
// present (a MODS XML file, possibly nested or zipped).
package synth

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceFileName is the raw metadata document a descriptor is
// synthesized from.
const SourceFileName = "mods.xml"

// ErrNoSource is returned when a version directory holds no discoverable
// metadata document.
var ErrNoSource = errors.New("no metadata source document found")

// maxSourceBytes caps how much of a metadata document is read. Upstream
// MODS files are tens of kilobytes; anything past this is not metadata.
const maxSourceBytes = 8 << 20

// findSources returns candidate metadata documents for a version
// directory in fixed search order: a direct sibling, one nested a level
// down, any discoverable recursively, then members of sibling archives.
// The caller parses them in order and the first well-formed one wins.
func findSources(versionDir string) ([]sourceRef, error) {
	var refs []sourceRef

	// (a) direct sibling
	direct := filepath.Join(versionDir, SourceFileName)
	if isRegular(direct) {
		refs = append(refs, sourceRef{path: direct})
	}

	// (b) one level down
	entries, err := os.ReadDir(versionDir)
	if err != nil {
		return nil, fmt.Errorf("read version dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		nested := filepath.Join(versionDir, e.Name(), SourceFileName)
		if isRegular(nested) {
			refs = append(refs, sourceRef{path: nested})
		}
	}

	// (c) anywhere below
	_ = filepath.WalkDir(versionDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || d.Name() != SourceFileName {
			return nil
		}
		refs = append(refs, sourceRef{path: path})
		return nil
	})

	// (d) inside sibling archives
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".zip") {
			continue
		}
		refs = append(refs, archiveMembers(filepath.Join(versionDir, e.Name()))...)
	}

	refs = dedupeRefs(refs)
	if len(refs) == 0 {
		return nil, ErrNoSource
	}
	return refs, nil
}

// sourceRef points at a metadata document, either directly on disk or as
// an archive member.
type sourceRef struct {
	path    string
	archive string // non-empty when path is a member of this archive
}

func (r sourceRef) String() string {
	if r.archive != "" {
		return r.archive + "!" + r.path
	}
	return r.path
}

// read returns the document contents.
func (r sourceRef) read() ([]byte, error) {
	if r.archive == "" {
		return os.ReadFile(r.path)
	}

	zr, err := zip.OpenReader(r.archive)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", r.archive, err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		if member.Name != r.path {
			continue
		}
		rc, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("open archive member %s: %w", r, err)
		}
		defer rc.Close()
		return io.ReadAll(io.LimitReader(rc, maxSourceBytes))
	}
	return nil, fmt.Errorf("archive member vanished: %s", r)
}

// archiveMembers lists the members of a zip whose name ends in the
// source filename. Unreadable archives contribute nothing.
func archiveMembers(archivePath string) []sourceRef {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil
	}
	defer zr.Close()

	var refs []sourceRef
	for _, member := range zr.File {
		if strings.HasSuffix(member.Name, SourceFileName) {
			refs = append(refs, sourceRef{path: member.Name, archive: archivePath})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].path < refs[j].path })
	return refs
}

func dedupeRefs(refs []sourceRef) []sourceRef {
	seen := make(map[string]struct{}, len(refs))
	out := refs[:0]
	for _, r := range refs {
		if _, ok := seen[r.String()]; ok {
			continue
		}
		seen[r.String()] = struct{}{}
		out = append(out, r)
	}
	return out
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
