// Package output renders CLI results as text, markdown, json, yaml or csv.
package output

import (
	"fmt"
	"strings"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto" // text on a TTY, markdown otherwise
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
	ModeYAML     Mode = "yaml"
	ModeCSV      Mode = "csv"
)

// Modes lists every accepted mode, for flag completion.
var Modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML, ModeCSV}

// ParseMode validates s. Empty selects ModeAuto; "md" is accepted for markdown.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case "md":
		return ModeMarkdown, nil
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML, ModeCSV:
		return m, nil
	default:
		return "", fmt.Errorf("invalid output format %q (valid: auto, text, markdown, json, yaml, csv)", s)
	}
}
