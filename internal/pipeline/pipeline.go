// Package pipeline wires the selection stages together: synthesize
// missing descriptors, discover and classify candidates, select one
// winner per bill, and publish the winners atomically.
package pipeline

import (
	"fmt"
	"time"

	"github.com/maddyp86/congress/internal/bills"
	"github.com/maddyp86/congress/internal/logger"
	"github.com/maddyp86/congress/internal/publish"
	"github.com/maddyp86/congress/internal/synth"
)

// Summary reports per-stage counts for one run.
type Summary struct {
	Synth     synth.Stats
	Discover  bills.DiscoverStats
	Picked    int
	Published bool
	Duration  time.Duration
}

// Pipeline runs the full selection-and-publish sequence.
type Pipeline struct {
	dataRoot   string
	outputRoot string
	dryRun     bool
	log        logger.Interface
}

// New creates a Pipeline. With dryRun set, selection runs but the
// published tree is left untouched.
func New(dataRoot, outputRoot string, dryRun bool, log logger.Interface) *Pipeline {
	return &Pipeline{
		dataRoot:   dataRoot,
		outputRoot: outputRoot,
		dryRun:     dryRun,
		log:        log.WithComponent("pipeline"),
	}
}

// Run executes the pipeline once. It returns publish.ErrNoWinners when
// the run selects zero bills; the published tree is untouched in that
// case.
func (p *Pipeline) Run() (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	synthStats, err := synth.New(p.log).Run(p.dataRoot)
	if err != nil {
		return summary, fmt.Errorf("synthesis stage: %w", err)
	}
	summary.Synth = synthStats

	cands, discoverStats, err := bills.Discover(p.dataRoot, p.log)
	if err != nil {
		return summary, fmt.Errorf("discovery stage: %w", err)
	}
	summary.Discover = discoverStats

	winners := bills.SelectLatest(cands)
	summary.Picked = len(winners)

	for _, key := range bills.SortedKeys(winners) {
		winner := winners[key]
		p.log.Info("Picked version",
			"bill", key.String(),
			"version", winner.VersionCode,
			"effective_date", winner.EffectiveDate().Format(time.RFC3339))
	}

	if p.dryRun {
		p.log.Info("Dry run: skipping publish", "picked", summary.Picked)
		summary.Duration = time.Since(start)
		if summary.Picked == 0 {
			return summary, publish.ErrNoWinners
		}
		return summary, nil
	}

	if err := publish.New(p.outputRoot, p.log).Publish(winners); err != nil {
		summary.Duration = time.Since(start)
		return summary, err
	}
	summary.Published = true
	summary.Duration = time.Since(start)

	p.log.WithDuration(summary.Duration).Info("Pipeline complete",
		"discovered", discoverStats.Discovered,
		"classified", discoverStats.Classified,
		"skipped_layout", discoverStats.SkippedLayout,
		"picked", summary.Picked)
	return summary, nil
}
