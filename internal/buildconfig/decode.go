package buildconfig

import (
	"fmt"
	"sort"

	"github.com/nibzard/buildcfg/internal/utils"
)

// decodeInput converts a raw document into a partial record, rejecting
// unknown keys and values of the wrong type. Keys are visited in sorted
// order so the first reported error is stable.
func decodeInput(in Input) (*partial, error) {
	p := &partial{}
	for _, key := range sortedKeys(in) {
		value := in[key]
		switch key {
		case KeyOutput:
			s, ok := value.(string)
			if !ok {
				return nil, wrongType(key, expectedOutput(), value)
			}
			p.Output = &s
		case KeyImages:
			table, err := decodeTable(key, value)
			if err != nil {
				return nil, err
			}
			images, err := decodeImages(table)
			if err != nil {
				return nil, err
			}
			p.Images = images
		case KeyEnv:
			env, err := decodeEnv(value)
			if err != nil {
				return nil, err
			}
			p.Env = env
		case KeyExperimental:
			flags, err := decodeFlags(value)
			if err != nil {
				return nil, err
			}
			p.Experimental = flags
		case KeyTypeScript:
			table, err := decodeTable(key, value)
			if err != nil {
				return nil, err
			}
			ts := &partialTypeScript{}
			err = decodeBoolTable(key, table, map[string]**bool{
				"ignoreBuildErrors": &ts.IgnoreBuildErrors,
			})
			if err != nil {
				return nil, err
			}
			p.TypeScript = ts
		case KeyESLint:
			table, err := decodeTable(key, value)
			if err != nil {
				return nil, err
			}
			lint := &partialESLint{}
			err = decodeBoolTable(key, table, map[string]**bool{
				"ignoreDuringBuilds": &lint.IgnoreDuringBuilds,
			})
			if err != nil {
				return nil, err
			}
			p.ESLint = lint
		default:
			return nil, unknownKey(key)
		}
	}
	return p, nil
}

// decodeImages decodes the images table.
func decodeImages(table map[string]any) (*partialImages, error) {
	images := &partialImages{}
	for _, key := range sortedKeys(table) {
		value := table[key]
		path := utils.JoinKey(KeyImages, key)
		switch key {
		case "domains":
			domains, err := decodeStringList(path, value)
			if err != nil {
				return nil, err
			}
			images.Domains = domains
		case "unoptimized":
			b, ok := value.(bool)
			if !ok {
				return nil, wrongType(path, "boolean", value)
			}
			images.Unoptimized = &b
		default:
			return nil, unknownKey(path)
		}
	}
	return images, nil
}

// decodeEnv decodes the env table. A null value declares the key without a
// reference; it is looked up by its own name.
func decodeEnv(value any) (map[string]*string, error) {
	if m, ok := value.(map[string]string); ok {
		env := make(map[string]*string, len(m))
		for k, v := range m {
			env[k] = &v
		}
		return env, nil
	}
	table, err := decodeTable(KeyEnv, value)
	if err != nil {
		return nil, err
	}
	env := make(map[string]*string, len(table))
	for _, key := range sortedKeys(table) {
		switch v := table[key].(type) {
		case nil:
			env[key] = nil
		case string:
			env[key] = &v
		default:
			return nil, wrongType(utils.JoinKey(KeyEnv, key), "string or null", v)
		}
	}
	return env, nil
}

// decodeFlags decodes the experimental table.
func decodeFlags(value any) (map[string]bool, error) {
	if m, ok := value.(map[string]bool); ok {
		flags := make(map[string]bool, len(m))
		for k, v := range m {
			flags[k] = v
		}
		return flags, nil
	}
	table, err := decodeTable(KeyExperimental, value)
	if err != nil {
		return nil, err
	}
	flags := make(map[string]bool, len(table))
	for _, key := range sortedKeys(table) {
		b, ok := table[key].(bool)
		if !ok {
			return nil, wrongType(utils.JoinKey(KeyExperimental, key), "boolean", table[key])
		}
		flags[key] = b
	}
	return flags, nil
}

// decodeBoolTable decodes a table whose only keys are the given booleans.
func decodeBoolTable(prefix string, table map[string]any, fields map[string]**bool) error {
	for _, key := range sortedKeys(table) {
		path := utils.JoinKey(prefix, key)
		target, ok := fields[key]
		if !ok {
			return unknownKey(path)
		}
		b, ok := table[key].(bool)
		if !ok {
			return wrongType(path, "boolean", table[key])
		}
		*target = &b
	}
	return nil
}

// decodeTable accepts the map shapes produced by the TOML, JSON and YAML
// decoders, plus plain Go maps.
func decodeTable(key string, value any) (map[string]any, error) {
	switch v := value.(type) {
	case map[string]any:
		return v, nil
	case Input:
		return v, nil
	case map[any]any:
		table := make(map[string]any, len(v))
		for k, item := range v {
			table[fmt.Sprint(k)] = item
		}
		return table, nil
	case map[string]bool:
		table := make(map[string]any, len(v))
		for k, item := range v {
			table[k] = item
		}
		return table, nil
	case map[string]string:
		table := make(map[string]any, len(v))
		for k, item := range v {
			table[k] = item
		}
		return table, nil
	default:
		return nil, wrongType(key, "table", value)
	}
}

func decodeStringList(key string, value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, wrongType(utils.IndexKey(key, i), "string", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, wrongType(key, "array of strings", value)
	}
}

func expectedOutput() string {
	return fmt.Sprintf("one of %q, %q", OutputDefault, OutputStandalone)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
