package buildconfig

import (
	"os"
	"regexp"
	"sort"
	"strings"
)

// EnvSnapshot is an immutable set of environment variables captured once.
// The zero value is an empty snapshot.
type EnvSnapshot struct {
	vars map[string]string
}

// NewEnvSnapshot copies vars into a new snapshot.
func NewEnvSnapshot(vars map[string]string) EnvSnapshot {
	copied := make(map[string]string, len(vars))
	for k, v := range vars {
		copied[k] = v
	}
	return EnvSnapshot{vars: copied}
}

// EnvSnapshotFromEnviron builds a snapshot from "NAME=value" pairs as
// returned by os.Environ. Later duplicates win; entries without '=' are
// ignored.
func EnvSnapshotFromEnviron(environ []string) EnvSnapshot {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = value
	}
	return EnvSnapshot{vars: vars}
}

// CaptureProcessEnv snapshots the current process environment.
func CaptureProcessEnv() EnvSnapshot {
	return EnvSnapshotFromEnviron(os.Environ())
}

// Lookup returns the value of name and whether it is set.
func (s EnvSnapshot) Lookup(name string) (string, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Len returns the number of variables in the snapshot.
func (s EnvSnapshot) Len() int {
	return len(s.vars)
}

// Names returns the sorted variable names.
func (s EnvSnapshot) Names() []string {
	names := make([]string, 0, len(s.vars))
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var singleRefPattern = regexp.MustCompile(`^\$(?:\{([A-Za-z_][A-Za-z0-9_]*)\}|([A-Za-z_][A-Za-z0-9_]*))$`)

// resolveEnvValue resolves one declared public env entry by lookup. A value
// that is a single $NAME or ${NAME} reference reads NAME; any other value
// reads the declared key itself. A miss is undefined.
func resolveEnvValue(key string, ref *string, env EnvSnapshot) envValue {
	name := key
	if ref != nil {
		if m := singleRefPattern.FindStringSubmatch(*ref); m != nil {
			name = m[1]
			if name == "" {
				name = m[2]
			}
		}
	}
	return lookupEnvValue(name, env)
}

func lookupEnvValue(name string, env EnvSnapshot) envValue {
	v, ok := env.Lookup(name)
	if !ok {
		return envValue{}
	}
	return envValue{value: v, defined: true}
}
