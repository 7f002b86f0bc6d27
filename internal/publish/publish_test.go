package publish_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maddyp86/congress/internal/bills"
	"github.com/maddyp86/congress/internal/logger"
	"github.com/maddyp86/congress/internal/publish"
)

func stageWinner(t *testing.T, dir, contents string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestPublish(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	out := filepath.Join(work, "latest_data")
	key := bills.Key{Congress: "118", Type: "hr", Number: "85"}
	src := stageWinner(t, filepath.Join(work, "src"), `{"issued_on": "2023-05-01"}`)

	winners := map[bills.Key]*bills.Candidate{
		key: {Path: src, Key: key, VersionCode: "ih"},
	}

	require.NoError(t, publish.New(out, logger.NewNoOp()).Publish(winners))

	published, err := os.ReadFile(filepath.Join(out, "118", "bills", "hr", "85", "data.json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"issued_on": "2023-05-01"}`, string(published))

	// No scratch or backup directories remain.
	entries, err := os.ReadDir(work)
	require.NoError(t, err)
	require.Len(t, entries, 2) // src + latest_data
}

func TestPublish_NoWinners(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	out := filepath.Join(work, "latest_data")

	err := publish.New(out, logger.NewNoOp()).Publish(nil)
	require.ErrorIs(t, err, publish.ErrNoWinners)

	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr), "output tree must not be created")
}

func TestPublish_NoWinnersLeavesPreviousTree(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	out := filepath.Join(work, "latest_data")
	previous := stageWinner(t, filepath.Join(out, "118", "bills", "hr", "85"), `{"issued_on": "2020-01-01"}`)

	err := publish.New(out, logger.NewNoOp()).Publish(map[bills.Key]*bills.Candidate{})
	require.ErrorIs(t, err, publish.ErrNoWinners)

	contents, readErr := os.ReadFile(previous)
	require.NoError(t, readErr)
	require.JSONEq(t, `{"issued_on": "2020-01-01"}`, string(contents))
}

func TestPublish_ReplacesPreviousTreeCompletely(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	out := filepath.Join(work, "latest_data")

	// Previous run published a bill that no longer exists upstream.
	stageWinner(t, filepath.Join(out, "117", "bills", "s", "9"), `{"issued_on": "2019-01-01"}`)

	key := bills.Key{Congress: "118", Type: "hr", Number: "85"}
	src := stageWinner(t, filepath.Join(work, "src"), `{"issued_on": "2023-05-01"}`)
	winners := map[bills.Key]*bills.Candidate{
		key: {Path: src, Key: key, VersionCode: "ih"},
	}

	require.NoError(t, publish.New(out, logger.NewNoOp()).Publish(winners))

	// The stale bill is gone; the tree is the complete new version.
	_, err := os.Stat(filepath.Join(out, "117"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(out, "118", "bills", "hr", "85", "data.json"))
	require.NoError(t, err)

	// The backup tree was dropped after the swap.
	_, err = os.Stat(out + ".backup")
	require.True(t, os.IsNotExist(err))
}

func TestPublish_StagingFailureLeavesPreviousTreeIntact(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	out := filepath.Join(work, "latest_data")
	previous := stageWinner(t, filepath.Join(out, "118", "bills", "hr", "85"), `{"issued_on": "2020-01-01"}`)

	key := bills.Key{Congress: "118", Type: "hr", Number: "85"}
	winners := map[bills.Key]*bills.Candidate{
		key: {Path: filepath.Join(work, "does-not-exist", "data.json"), Key: key},
	}

	err := publish.New(out, logger.NewNoOp()).Publish(winners)
	require.Error(t, err)
	require.NotErrorIs(t, err, publish.ErrNoWinners)

	// Previous tree untouched, scratch cleaned up.
	contents, readErr := os.ReadFile(previous)
	require.NoError(t, readErr)
	require.JSONEq(t, `{"issued_on": "2020-01-01"}`, string(contents))

	entries, readDirErr := os.ReadDir(work)
	require.NoError(t, readDirErr)
	require.Len(t, entries, 1) // only latest_data
}

func TestPublish_IsIdempotent(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	out := filepath.Join(work, "latest_data")
	key := bills.Key{Congress: "118", Type: "hr", Number: "85"}
	src := stageWinner(t, filepath.Join(work, "src"), `{"issued_on": "2023-05-01"}`)
	mtime := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	winners := map[bills.Key]*bills.Candidate{
		key: {Path: src, Key: key, VersionCode: "ih"},
	}

	p := publish.New(out, logger.NewNoOp())
	require.NoError(t, p.Publish(winners))
	dest := filepath.Join(out, "118", "bills", "hr", "85", "data.json")
	first, err := os.ReadFile(dest)
	require.NoError(t, err)
	firstInfo, err := os.Stat(dest)
	require.NoError(t, err)

	require.NoError(t, p.Publish(winners))
	second, err := os.ReadFile(dest)
	require.NoError(t, err)
	secondInfo, err := os.Stat(dest)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.True(t, firstInfo.ModTime().Equal(secondInfo.ModTime()))
}

func TestPublish_MultipleWinnersStagedSorted(t *testing.T) {
	t.Parallel()

	work := t.TempDir()
	out := filepath.Join(work, "latest_data")

	hr := bills.Key{Congress: "118", Type: "hr", Number: "85"}
	s := bills.Key{Congress: "117", Type: "s", Number: "1"}
	hrSrc := stageWinner(t, filepath.Join(work, "src-hr"), `{"issued_on": "2023-05-01"}`)
	sSrc := stageWinner(t, filepath.Join(work, "src-s"), `{"issued_on": "2021-01-01"}`)

	winners := map[bills.Key]*bills.Candidate{
		hr: {Path: hrSrc, Key: hr},
		s:  {Path: sSrc, Key: s},
	}

	require.NoError(t, publish.New(out, logger.NewNoOp()).Publish(winners))

	for _, rel := range []string{
		"118/bills/hr/85/data.json",
		"117/bills/s/1/data.json",
	} {
		_, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, err)
	}
}
