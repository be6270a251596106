package buildconfig

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/buildcfg/internal/utils"
)

//go:embed schema.json
var schemaJSON []byte

const schemaResource = "buildcfg.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// Schema returns the JSON Schema describing an Input document.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaResource, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaResource)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateDocument checks a raw document against the embedded schema. The
// first failing leaf is reported as an *InvalidConfigError.
func ValidateDocument(doc any) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}

	// The validator only understands plain JSON values.
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var normalized any
	if err := dec.Decode(&normalized); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}

	if err := schema.Validate(normalized); err != nil {
		return schemaError(err)
	}
	return nil
}

var (
	quotedNamePattern = regexp.MustCompile(`['"]([^'"]+)['"]`)
	typeMsgPattern    = regexp.MustCompile(`^expected (.+), but got (.+)$`)
)

// schemaError converts a jsonschema validation error to an InvalidConfigError.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate document: %w", err)
	}
	leaf := firstLeaf(ve)
	key := utils.JSONPointerToPath(leaf.InstanceLocation)

	switch {
	case strings.HasSuffix(leaf.KeywordLocation, "/additionalProperties"):
		if m := quotedNamePattern.FindStringSubmatch(leaf.Message); m != nil {
			if key == "" {
				key = m[1]
			} else {
				key += "." + m[1]
			}
		}
		return &InvalidConfigError{Key: key, Problem: ProblemUnknownKey}
	case strings.HasSuffix(leaf.KeywordLocation, "/type"):
		e := &InvalidConfigError{Key: key, Problem: ProblemWrongType, Expected: leaf.Message}
		if m := typeMsgPattern.FindStringSubmatch(leaf.Message); m != nil {
			e.Expected, e.Got = m[1], m[2]
		}
		return e
	default:
		return &InvalidConfigError{Key: key, Problem: ProblemInvalidValue, Expected: leaf.Message}
	}
}

// firstLeaf walks causes depth-first and returns the first error without causes.
func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
