package publish

import "errors"

var (
	// ErrNoWinners is returned when a run selects zero bills. The
	// publisher refuses to replace a previously good tree with an empty
	// one; callers exit with a distinct status so automation can tell
	// "nothing to publish" from "published successfully".
	ErrNoWinners = errors.New("no bills selected; refusing to publish")
)
