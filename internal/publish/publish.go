// Package publish stages selected descriptors into a scratch tree and
// swaps it into the published location atomically. The published tree is
// always either the complete previous version or the complete new
// version, never a mix.
package publish

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/maddyp86/congress/internal/bills"
	"github.com/maddyp86/congress/internal/logger"
)

// backupSuffix names the retained previous tree during a swap.
const backupSuffix = ".backup"

// Publisher writes winning descriptors into the published tree.
type Publisher struct {
	outputRoot string
	log        logger.Interface
}

// New creates a Publisher targeting outputRoot.
func New(outputRoot string, log logger.Interface) *Publisher {
	return &Publisher{
		outputRoot: outputRoot,
		log:        log.WithComponent("publish"),
	}
}

// Publish stages all winners into a fresh scratch tree shaped
// <congress>/bills/<type>/<number>/data.json and then swaps it into the
// published location. With zero winners it refuses to touch the
// published tree and returns ErrNoWinners. Any staging failure removes
// the scratch tree and leaves the published tree untouched.
func (p *Publisher) Publish(winners map[bills.Key]*bills.Candidate) (err error) {
	if len(winners) == 0 {
		return ErrNoWinners
	}

	scratch := p.outputRoot + ".staging-" + uuid.NewString()
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(scratch); rmErr != nil {
				p.log.Error("Failed to clean up scratch tree", "dir", scratch, "error", rmErr)
			}
		}
	}()

	for _, key := range bills.SortedKeys(winners) {
		winner := winners[key]
		destDir := filepath.Join(scratch, key.Congress, "bills", key.Type, key.Number)
		if err = os.MkdirAll(destDir, 0o755); err != nil {
			return fmt.Errorf("stage %s: %w", key, err)
		}
		dest := filepath.Join(destDir, bills.DescriptorFileName)
		if err = copyFile(winner.Path, dest); err != nil {
			return fmt.Errorf("stage %s: %w", key, err)
		}
		p.log.Debug("Staged winner", "bill", key.String(), "version", winner.VersionCode, "from", winner.Path)
	}

	if err = p.swap(scratch); err != nil {
		return err
	}

	p.log.Info("Published tree swapped into place", "output", p.outputRoot, "bills", len(winners))
	return nil
}

// swap is the commit point: the previous tree is moved aside, the
// scratch tree renamed in, and the backup dropped only after success.
func (p *Publisher) swap(scratch string) error {
	backup := p.outputRoot + backupSuffix
	hadPrevious := false

	if _, err := os.Stat(p.outputRoot); err == nil {
		if err := os.RemoveAll(backup); err != nil {
			return fmt.Errorf("remove stale backup: %w", err)
		}
		if err := os.Rename(p.outputRoot, backup); err != nil {
			return fmt.Errorf("move previous tree aside: %w", err)
		}
		hadPrevious = true
	}

	if err := os.Rename(scratch, p.outputRoot); err != nil {
		if hadPrevious {
			// Restore the previous tree; the swap never happened.
			if rbErr := os.Rename(backup, p.outputRoot); rbErr != nil {
				return fmt.Errorf("swap failed (%w) and rollback failed: %w", err, rbErr)
			}
		}
		return fmt.Errorf("swap published tree: %w", err)
	}

	if hadPrevious {
		if err := os.RemoveAll(backup); err != nil {
			// The new tree is live; a lingering backup is only noise.
			p.log.Warn("Failed to remove backup tree", "dir", backup, "error", err)
		}
	}
	return nil
}

// copyFile copies src to dest preserving the modification time, so
// reruns over unchanged input stay byte- and timestamp-identical.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dest, info.ModTime(), info.ModTime())
}
