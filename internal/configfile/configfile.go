// Package configfile locates and parses project configuration files.
//
// A project keeps its build configuration in one of:
//   - buildcfg.toml (preferred)
//   - buildcfg.json
//   - buildcfg.jsonc (JSON with comments and trailing commas)
//   - buildcfg.yaml / buildcfg.yml
//
// Parsing produces a raw buildconfig.Input; type checking and defaults are
// left to buildconfig.Resolve.
package configfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/nibzard/buildcfg/internal/buildconfig"
)

// Format identifies a config file syntax.
type Format string

const (
	FormatTOML  Format = "toml"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
)

// CandidateNames lists the config file names Find looks for, in order.
var CandidateNames = []string{
	"buildcfg.toml",
	"buildcfg.json",
	"buildcfg.jsonc",
	"buildcfg.yaml",
	"buildcfg.yml",
}

// Find returns the first config file present in dir, or "" when there is none.
func Find(dir string) (string, error) {
	for _, name := range CandidateNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return "", fmt.Errorf("stat %s: %w", path, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory", path)
		}
		return path, nil
	}
	return "", nil
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonc":
		return FormatJSONC, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported config file extension %q (want .toml, .json, .jsonc, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load reads and parses the config file at path.
func Load(path string) (buildconfig.Input, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	input, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return input, nil
}

// Parse decodes data in the given format. An empty document is an empty Input.
func Parse(data []byte, format Format) (buildconfig.Input, error) {
	switch format {
	case FormatTOML:
		return parseTOML(data)
	case FormatJSON, FormatJSONC:
		// Plain JSON passes through jsonc unchanged.
		return parseJSON(jsonc.ToJSON(data))
	case FormatYAML:
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
}

func parseTOML(data []byte) (buildconfig.Input, error) {
	doc := map[string]any{}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("parsing toml: %w", err)
	}
	return buildconfig.Input(doc), nil
}

func parseJSON(data []byte) (buildconfig.Input, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return buildconfig.Input{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing json: unexpected data after top-level object")
	}
	if doc == nil {
		return buildconfig.Input{}, nil
	}
	return buildconfig.Input(doc), nil
}

func parseYAML(data []byte) (buildconfig.Input, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	if doc == nil {
		return buildconfig.Input{}, nil
	}
	return buildconfig.Input(doc), nil
}
