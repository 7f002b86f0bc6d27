package synth_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maddyp86/congress/internal/bills"
	"github.com/maddyp86/congress/internal/logger"
	"github.com/maddyp86/congress/internal/synth"
)

const sampleMods = `<mods xmlns="http://www.loc.gov/mods/v3">
	<originInfo><dateIssued>2023-05-01</dateIssued></originInfo>
	<identifier type="local">118hr85ih</identifier>
	<location><url>https://example.gov/BILLS-118hr85ih.pdf</url></location>
</mods>`

func versionDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "118", "bills", "hr", "85", "text-versions", "ih")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func readDescriptor(t *testing.T, dir string) *bills.Descriptor {
	t.Helper()
	desc, err := bills.ReadDescriptor(filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	return desc
}

func TestSynthesizeDir_DirectSource(t *testing.T) {
	t.Parallel()

	dir := versionDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mods.xml"), []byte(sampleMods), 0o644))

	s := synth.New(logger.NewNoOp())
	require.NoError(t, s.SynthesizeDir(dir))

	desc := readDescriptor(t, dir)
	require.Equal(t, "2023-05-01", desc.IssuedOn)
	require.Equal(t, "ih", desc.VersionCode)
	require.Equal(t, "118hr85ih", desc.BillVersionID)
	require.Equal(t, "https://example.gov/BILLS-118hr85ih.pdf", desc.URLs["pdf"])
	require.Equal(t, "hr85", desc.BillID)
	require.Equal(t, "path", desc.BillIDSource)
}

func TestSynthesizeDir_NestedSource(t *testing.T) {
	t.Parallel()

	dir := versionDir(t)
	nested := filepath.Join(dir, "package")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "mods.xml"), []byte(sampleMods), 0o644))

	require.NoError(t, synth.New(logger.NewNoOp()).SynthesizeDir(dir))
	require.Equal(t, "2023-05-01", readDescriptor(t, dir).IssuedOn)
}

func TestSynthesizeDir_DeeplyNestedSource(t *testing.T) {
	t.Parallel()

	dir := versionDir(t)
	deep := filepath.Join(dir, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(deep, "mods.xml"), []byte(sampleMods), 0o644))

	require.NoError(t, synth.New(logger.NewNoOp()).SynthesizeDir(dir))
	require.Equal(t, "2023-05-01", readDescriptor(t, dir).IssuedOn)
}

func TestSynthesizeDir_ArchivedSource(t *testing.T) {
	t.Parallel()

	dir := versionDir(t)
	writeZip(t, filepath.Join(dir, "package.zip"), map[string]string{
		"BILLS-118hr85ih/mods.xml": sampleMods,
		"BILLS-118hr85ih/bill.xml": "<bill/>",
	})

	require.NoError(t, synth.New(logger.NewNoOp()).SynthesizeDir(dir))

	desc := readDescriptor(t, dir)
	require.Equal(t, "2023-05-01", desc.IssuedOn)
	require.Equal(t, "118hr85ih", desc.BillVersionID)
}

func TestSynthesizeDir_MalformedSourceFallsThrough(t *testing.T) {
	t.Parallel()

	// The direct source is broken; the nested one parses.
	dir := versionDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mods.xml"), []byte("<unclosed"), 0o644))
	nested := filepath.Join(dir, "package")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "mods.xml"), []byte(sampleMods), 0o644))

	require.NoError(t, synth.New(logger.NewNoOp()).SynthesizeDir(dir))
	require.Equal(t, "2023-05-01", readDescriptor(t, dir).IssuedOn)
}

func TestSynthesizeDir_NoSourceUsesDirMtime(t *testing.T) {
	t.Parallel()

	dir := versionDir(t)
	mtime := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(dir, mtime, mtime))

	require.NoError(t, synth.New(logger.NewNoOp()).SynthesizeDir(dir))

	desc := readDescriptor(t, dir)
	require.Equal(t, "2023-06-01", desc.IssuedOn)
	require.Equal(t, "ih", desc.VersionCode)
	require.Empty(t, desc.BillVersionID)
}

func TestRun_SynthesizesOnlyMissing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	withDescriptor := filepath.Join(root, "118", "bills", "hr", "85", "text-versions", "ih")
	withoutDescriptor := filepath.Join(root, "118", "bills", "hr", "85", "text-versions", "enr")
	require.NoError(t, os.MkdirAll(withDescriptor, 0o755))
	require.NoError(t, os.MkdirAll(withoutDescriptor, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(withDescriptor, "data.json"),
		[]byte(`{"issued_on": "2023-05-01"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(withoutDescriptor, "mods.xml"), []byte(sampleMods), 0o644))

	stats, err := synth.New(logger.NewNoOp()).Run(root)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Scanned)
	require.Equal(t, 1, stats.Synthesized)
	require.Equal(t, 1, stats.HadDescriptor)
	require.Zero(t, stats.Failed)

	// The existing descriptor is left alone.
	desc := readDescriptor(t, withDescriptor)
	require.Equal(t, "2023-05-01", desc.IssuedOn)
	require.Empty(t, desc.BillVersionID)
}

func TestRun_IsIdempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "118", "bills", "hr", "85", "text-versions", "ih")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mods.xml"), []byte(sampleMods), 0o644))

	s := synth.New(logger.NewNoOp())
	_, err := s.Run(root)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dir, "data.json"))
	require.NoError(t, err)

	stats, err := s.Run(root)
	require.NoError(t, err)
	require.Equal(t, 1, stats.HadDescriptor)
	require.Zero(t, stats.Synthesized)

	second, err := os.ReadFile(filepath.Join(dir, "data.json"))
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func writeZip(t *testing.T, dest string, members map[string]string) {
	t.Helper()
	f, err := os.Create(dest)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range members {
		w, createErr := zw.Create(name)
		require.NoError(t, createErr)
		_, writeErr := w.Write([]byte(body))
		require.NoError(t, writeErr)
	}
	require.NoError(t, zw.Close())
}
