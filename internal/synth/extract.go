package synth

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

var (
	isoDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	yearPattern    = regexp.MustCompile(`\b(1[6-9]|20)\d{2}\b`)

	// billVersionPattern matches canonical upstream version identifiers
	// like "113hr2028enr": congress, type, number, version code.
	billVersionPattern = regexp.MustCompile(`(?i)^[0-9]{1,3}[a-z]+[0-9]+[a-z]{1,5}$`)
)

// dateTags are the descendant element names (namespace-stripped,
// case-insensitive, separators ignored) that may carry the issue date, in
// no particular priority: document order decides.
var dateTags = map[string]struct{}{
	"dateissued":  {},
	"datecreated": {},
	"date":        {},
}

// node is a generic XML element tree; the metadata documents vary too
// much across congresses for a fixed schema.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Kids    []node     `xml:",any"`
}

// parseDocument parses raw XML into a node tree. Malformed documents
// fail here so the caller can try the next source.
func parseDocument(raw []byte) (*node, error) {
	var root node
	if err := xml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parse metadata document: %w", err)
	}
	if root.XMLName.Local == "" {
		return nil, fmt.Errorf("parse metadata document: empty root element")
	}
	return &root, nil
}

// walk visits every element depth-first in document order.
func (n *node) walk(visit func(*node)) {
	visit(n)
	for i := range n.Kids {
		n.Kids[i].walk(visit)
	}
}

func (n *node) attr(name string) string {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}

func normalTag(name xml.Name) string {
	tag := strings.ToLower(name.Local)
	tag = strings.ReplaceAll(tag, "-", "")
	return strings.ReplaceAll(tag, "_", "")
}

func elementText(n *node) string {
	return strings.TrimSpace(n.Text)
}

// extractDate finds the issue date: the first non-empty date-bearing
// element wins, reduced to a YYYY-MM-DD substring when present, else a
// bare year, else the raw text. When no date element exists at all, any
// date-shaped substring in the document's text content is used.
func extractDate(root *node) string {
	var found string
	root.walk(func(n *node) {
		if found != "" {
			return
		}
		if _, ok := dateTags[normalTag(n.XMLName)]; !ok {
			return
		}
		text := elementText(n)
		if text == "" {
			return
		}
		found = reduceDate(text)
	})
	if found != "" {
		return found
	}

	// No date element: scan every text node.
	var scanned string
	root.walk(func(n *node) {
		if scanned != "" {
			return
		}
		text := elementText(n)
		if m := isoDatePattern.FindString(text); m != "" {
			scanned = m
		} else if m := yearPattern.FindString(text); m != "" {
			scanned = m
		}
	})
	return scanned
}

// reduceDate trims a date-bearing text down to its usable core.
func reduceDate(text string) string {
	if m := isoDatePattern.FindString(text); m != "" {
		return m
	}
	if m := yearPattern.FindString(text); m != "" {
		return m
	}
	return text
}

// extractVersionID picks the version identifier: prefer an identifier
// typed "local" or "bill", then one matching the canonical bill-version
// shape, then the first non-empty identifier in document order.
func extractVersionID(root *node) string {
	var typed, canonical, first string
	root.walk(func(n *node) {
		if normalTag(n.XMLName) != "identifier" {
			return
		}
		text := elementText(n)
		if text == "" {
			return
		}
		if first == "" {
			first = text
		}
		switch strings.ToLower(n.attr("type")) {
		case "local", "bill":
			if typed == "" {
				typed = text
			}
		}
		if canonical == "" && billVersionPattern.MatchString(text) {
			canonical = text
		}
	})
	if typed != "" {
		return typed
	}
	if canonical != "" {
		return canonical
	}
	return first
}

// extractURLs collects URL-bearing elements (an element literally named
// "url", including ones nested under "location") keyed by resource kind.
// Last write wins per kind; unclassifiable URLs get de-duplicated
// "unknown" keys.
func extractURLs(root *node) map[string]string {
	urls := make(map[string]string)
	unknowns := 0
	root.walk(func(n *node) {
		if normalTag(n.XMLName) != "url" {
			return
		}
		text := elementText(n)
		if text == "" {
			return
		}
		kind := classifyURL(text)
		if kind == "" {
			unknowns++
			kind = "unknown"
			if unknowns > 1 {
				kind = fmt.Sprintf("unknown%d", unknowns)
			}
		}
		urls[kind] = text
	})
	if len(urls) == 0 {
		return nil
	}
	return urls
}

// classifyURL maps a URL to a resource kind by trailing extension, then
// by path segment. Returns "" when nothing matches.
func classifyURL(url string) string {
	trimmed := strings.ToLower(strings.SplitN(url, "?", 2)[0])
	switch {
	case strings.HasSuffix(trimmed, ".pdf"):
		return "pdf"
	case strings.HasSuffix(trimmed, ".xml"):
		return "xml"
	case strings.HasSuffix(trimmed, ".htm"), strings.HasSuffix(trimmed, ".html"):
		return "html"
	}
	for _, segment := range strings.Split(trimmed, "/") {
		switch segment {
		case "pdf", "pdfs":
			return "pdf"
		case "xml":
			return "xml"
		case "html", "htm":
			return "html"
		}
	}
	return ""
}
