package merge

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultFilePageLimit caps the page count of one output file unless the
// caller overrides it.
const DefaultFilePageLimit = 10000

// OMRMode selects optical-mark drawing on merged pages.
type OMRMode int

const (
	// OMRNone draws no marks.
	OMRNone OMRMode = iota
	// OMRSimplex draws the mark column on every page.
	OMRSimplex
	// OMRDuplex draws the mark column on front (odd) pages only.
	OMRDuplex
)

// ParseOMRMode converts the CLI's numeric mode.
func ParseOMRMode(value int) (OMRMode, error) {
	switch value {
	case 0:
		return OMRNone, nil
	case 1:
		return OMRSimplex, nil
	case 2:
		return OMRDuplex, nil
	default:
		return OMRNone, fmt.Errorf("draw-omr mode must be 0, 1, or 2, got %d", value)
	}
}

// Options configures one merge run. Validated once at controller
// construction.
type Options struct {
	// InputPath is the delimited row data file.
	InputPath string
	// OutputPath is the output location; chunk N writes <stem>_<N>.pdf.
	OutputPath string
	// TemplatePath is the template document, or the template directory when
	// VariableColumn is set.
	TemplatePath string
	// VariableColumn names the column whose value selects each row's
	// template. Empty for a fixed template.
	VariableColumn string
	// FilePageLimit bounds the cumulative template pages per output file.
	FilePageLimit int
	// GenerateProof reduces the run to a verification sample.
	GenerateProof bool
	// DrawOMR selects optical-mark drawing.
	DrawOMR OMRMode
}

func (o *Options) validate() error {
	if strings.TrimSpace(o.InputPath) == "" {
		return errors.New("input path required")
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return errors.New("output path required")
	}
	if strings.TrimSpace(o.TemplatePath) == "" {
		return errors.New("template path required")
	}
	if o.FilePageLimit == 0 {
		o.FilePageLimit = DefaultFilePageLimit
	}
	if o.FilePageLimit < 1 {
		return fmt.Errorf("file page limit must be at least 1, got %d", o.FilePageLimit)
	}
	switch o.DrawOMR {
	case OMRNone, OMRSimplex, OMRDuplex:
	default:
		return fmt.Errorf("invalid OMR mode %d", o.DrawOMR)
	}
	return nil
}
