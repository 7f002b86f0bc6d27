package bills

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrUnrecognizedLayout is returned when a path does not match any known
// directory shape. Callers count and skip such paths rather than
// aborting the run.
var ErrUnrecognizedLayout = errors.New("unrecognized bill path layout")

// anchorSegment is the literal path segment that anchors classification.
const anchorSegment = "bills"

var (
	typePattern     = regexp.MustCompile(`^[a-z]+$`)
	numberPattern   = regexp.MustCompile(`^[0-9]+$`)
	combinedPattern = regexp.MustCompile(`^([a-z]+)([0-9]+)$`)
)

// shapeMatcher tries to derive a bill identity from the segments
// following the "bills" anchor. Shape knowledge stays localized here; the
// matchers are tried in order and the first success wins.
type shapeMatcher func(congress string, rest []string) (Key, bool)

var shapeMatchers = []shapeMatcher{
	matchSplitShape,
	matchCombinedShape,
}

// matchSplitShape handles <congress>/bills/<type>/<number>/... layouts.
func matchSplitShape(congress string, rest []string) (Key, bool) {
	if len(rest) < 2 {
		return Key{}, false
	}
	if !typePattern.MatchString(rest[0]) || !numberPattern.MatchString(rest[1]) {
		return Key{}, false
	}
	return Key{Congress: congress, Type: rest[0], Number: rest[1]}, true
}

// matchCombinedShape handles the older <congress>/bills/<type><number>/...
// layout where the bill directory carries both parts, e.g. "hr85".
func matchCombinedShape(congress string, rest []string) (Key, bool) {
	if len(rest) < 2 {
		return Key{}, false
	}
	m := combinedPattern.FindStringSubmatch(rest[0])
	if m == nil {
		return Key{}, false
	}
	return Key{Congress: congress, Type: m[1], Number: m[2]}, true
}

// ClassifyPath derives the owning bill's identity from a descriptor path.
// The congress is the segment immediately preceding the "bills" anchor;
// the segments after the anchor carry the type and number in one of the
// historical shapes. It never panics; unparseable paths report
// ErrUnrecognizedLayout.
func ClassifyPath(path string) (Key, error) {
	segs := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")

	for i, seg := range segs {
		if seg != anchorSegment || i == 0 || segs[i-1] == "" {
			continue
		}
		congress := segs[i-1]
		if !numberPattern.MatchString(congress) {
			continue
		}
		rest := segs[i+1:]
		for _, match := range shapeMatchers {
			if key, ok := match(congress, rest); ok {
				return key, nil
			}
		}
	}

	return Key{}, ErrUnrecognizedLayout
}
