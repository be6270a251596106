// Package render writes resolved records in the supported output formats.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/alecthomas/chroma/v2/quick"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/buildcfg/internal/buildconfig"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCBOR Format = "cbor"
)

// DefaultStyle is the chroma style used for highlighted output.
const DefaultStyle = "monokai"

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML, FormatTOML, FormatCBOR:
		return Format(s), nil
	default:
		return "", fmt.Errorf("invalid format %q (expected json|yaml|toml|cbor)", s)
	}
}

// Binary reports whether the format is not human-readable text.
func (f Format) Binary() bool {
	return f == FormatCBOR
}

// Encode writes view to w in the given format.
func Encode(w io.Writer, view buildconfig.View, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		// TOML has no null; undefined env values are left out.
		defined := make(map[string]*string, len(view.PublicEnv))
		for name, value := range view.PublicEnv {
			if value != nil {
				defined[name] = value
			}
		}
		view.PublicEnv = defined
		return toml.NewEncoder(w).Encode(view)
	case FormatCBOR:
		data, err := buildconfig.MarshalCanonical(view)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// Highlight writes text with terminal syntax highlighting for format.
func Highlight(w io.Writer, text string, format Format, style string) error {
	if style == "" {
		style = DefaultStyle
	}
	return quick.Highlight(w, text, string(format), "terminal256", style)
}

// ColorEnabled decides whether to colorize output for w.
// mode is "always", "never" or "auto"; auto colors terminals unless NO_COLOR is set.
func ColorEnabled(mode string, w io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return IsTerminal(w)
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
