package buildconfig

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Input is a partial configuration document as decoded from a config file.
// Every key is optional:
//
//	output        "default" | "standalone"
//	images        { domains: [string], unoptimized: bool }
//	env           { NAME: string | null }
//	experimental  { flag: bool }
//	typescript    { ignoreBuildErrors: bool }
//	eslint        { ignoreDuringBuilds: bool }
type Input map[string]any

// OutputMode selects how the build output is laid out.
type OutputMode string

const (
	// OutputDefault keeps build output tied to the project layout.
	OutputDefault OutputMode = "default"
	// OutputStandalone produces a self-contained deployable bundle.
	OutputStandalone OutputMode = "standalone"
)

// OutputModes returns the recognized output modes.
func OutputModes() []OutputMode {
	return []OutputMode{OutputDefault, OutputStandalone}
}

// Valid reports whether m is a recognized output mode.
func (m OutputMode) Valid() bool {
	for _, mode := range OutputModes() {
		if m == mode {
			return true
		}
	}
	return false
}

// Top-level keys of an Input document.
const (
	KeyOutput       = "output"
	KeyImages       = "images"
	KeyEnv          = "env"
	KeyExperimental = "experimental"
	KeyTypeScript   = "typescript"
	KeyESLint       = "eslint"
)

// Keys returns the recognized top-level keys.
func Keys() []string {
	return []string{KeyOutput, KeyImages, KeyEnv, KeyExperimental, KeyTypeScript, KeyESLint}
}

// partial is the typed form of an Input. Nil fields were omitted.
type partial struct {
	Output       *string            `key:"output" validate:"omitnil,oneof=default standalone"`
	Images       *partialImages     `key:"images"`
	Env          map[string]*string `key:"env" validate:"omitempty,dive,keys,envkey,endkeys"`
	Experimental map[string]bool    `key:"experimental"`
	TypeScript   *partialTypeScript `key:"typescript"`
	ESLint       *partialESLint     `key:"eslint"`
}

type partialImages struct {
	Domains     []string `key:"domains" validate:"omitempty,dive,hostname_rfc1123"`
	Unoptimized *bool    `key:"unoptimized"`
}

type partialTypeScript struct {
	IgnoreBuildErrors *bool `key:"ignoreBuildErrors"`
}

type partialESLint struct {
	IgnoreDuringBuilds *bool `key:"ignoreDuringBuilds"`
}

// reservedEnvKey explains why name cannot be exposed as a public env key,
// or returns "" when it can.
func reservedEnvKey(name string) string {
	switch {
	case name == "":
		return "empty name"
	case strings.HasPrefix(name, "__"):
		return "names starting with __ are reserved"
	case strings.HasPrefix(strings.ToUpper(name), "NODE_"):
		return "names starting with NODE_ are reserved"
	case name == "NEXT_RUNTIME":
		return "NEXT_RUNTIME is reserved"
	}
	return ""
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return "number"
	case []any, []string, []bool:
		return "array"
	case map[string]any, map[any]any, map[string]string, map[string]bool:
		return "table"
	default:
		return fmt.Sprintf("%T", v)
	}
}
