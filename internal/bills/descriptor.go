package bills

import (
	"encoding/json"
	"fmt"
	"os"
)

// DescriptorFileName is the per-version metadata file the pipeline reads
// and publishes.
const DescriptorFileName = "data.json"

// Descriptor is the structured metadata record for one text version. Date
// fields mirror the historical upstream variants; IssuedOn is the one the
// pipeline writes.
type Descriptor struct {
	IssuedOn      string            `json:"issued_on,omitempty"`
	Issued        string            `json:"issued,omitempty"`
	Date          string            `json:"date,omitempty"`
	VersionCode   string            `json:"version_code,omitempty"`
	BillVersionID string            `json:"bill_version_id,omitempty"`
	URLs          map[string]string `json:"urls,omitempty"`
	BillID        string            `json:"bill_id,omitempty"`
	BillIDSource  string            `json:"bill_id_source,omitempty"`
}

// DateString returns the first present date field, in priority order
// issued_on, issued, date.
func (d *Descriptor) DateString() string {
	for _, s := range []string{d.IssuedOn, d.Issued, d.Date} {
		if s != "" {
			return s
		}
	}
	return ""
}

// ReadDescriptor parses the descriptor file at path.
func ReadDescriptor(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor: %w", err)
	}
	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	return &d, nil
}

// Write serializes the descriptor to path. Output is deterministic so
// reruns over unchanged input produce byte-identical files.
func (d *Descriptor) Write(path string) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal descriptor: %w", err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write descriptor %s: %w", path, err)
	}
	return nil
}
