package duckdb

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// Params holds DuckDB-specific configuration, decoded from adapter.Config.Params.
type Params struct {
	// Extensions to install and load before introspection (e.g. "json").
	Extensions []string `mapstructure:"extensions"`

	// Settings applied with SET after connecting (e.g. threads, memory_limit).
	Settings map[string]string `mapstructure:"settings"`
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parseParams decodes the free-form adapter params. Unknown keys and names
// that are not plain identifiers are rejected.
func parseParams(raw map[string]any) (*Params, error) {
	params := &Params{}
	if len(raw) == 0 {
		return params, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           params,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid duckdb params: %w", err)
	}

	for _, ext := range params.Extensions {
		if !identPattern.MatchString(ext) {
			return nil, fmt.Errorf("invalid duckdb params: extension %q is not an identifier", ext)
		}
	}
	for key := range params.Settings {
		if !identPattern.MatchString(key) {
			return nil, fmt.Errorf("invalid duckdb params: setting %q is not an identifier", key)
		}
	}
	return params, nil
}

// statements returns the SQL run after connecting: INSTALL and LOAD per
// extension, then SET per setting in key order.
func (p *Params) statements() []string {
	out := make([]string, 0, 2*len(p.Extensions)+len(p.Settings))
	for _, ext := range p.Extensions {
		out = append(out, "INSTALL "+ext, "LOAD "+ext)
	}

	keys := make([]string, 0, len(p.Settings))
	for k := range p.Settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, fmt.Sprintf("SET %s = %s", k, quote(p.Settings[k])))
	}
	return out
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
