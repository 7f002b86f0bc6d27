package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/maddyp86/congress/cmd"
	"github.com/maddyp86/congress/internal/publish"
)

// Exit statuses. "Nothing to publish" is distinguishable from other
// failures so automation can tell an empty run from a broken one.
const (
	exitFailure   = 1
	exitNoWinners = 2
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, publish.ErrNoWinners) {
			os.Exit(exitNoWinners)
		}
		os.Exit(exitFailure)
	}
}
