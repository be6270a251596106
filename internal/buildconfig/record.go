package buildconfig

import (
	"maps"
	"slices"
	"sort"
	"strings"
)

// envValue is a resolved public env entry. An undefined entry was declared
// but had nothing to look up.
type envValue struct {
	value   string
	defined bool
}

// Record is a fully resolved build configuration. It has no exported
// fields; accessors return copies, so a Record never changes after Resolve
// returns it.
type Record struct {
	outputMode       OutputMode
	allowedHosts     []string
	unoptimized      bool
	publicEnv        map[string]envValue
	experimental     map[string]bool
	failOnTypeErrors bool
	failOnLintErrors bool
}

// Defaults returns the record produced by resolving an empty document.
func Defaults() *Record {
	return &Record{
		outputMode:       OutputDefault,
		allowedHosts:     []string{},
		unoptimized:      false,
		publicEnv:        map[string]envValue{},
		experimental:     map[string]bool{},
		failOnTypeErrors: true,
		failOnLintErrors: true,
	}
}

// OutputMode returns the build output mode.
func (r *Record) OutputMode() OutputMode { return r.outputMode }

// Standalone reports whether the build produces a self-contained bundle.
func (r *Record) Standalone() bool { return r.outputMode == OutputStandalone }

// AllowedHosts returns the sorted set of hosts permitted as external image sources.
func (r *Record) AllowedHosts() []string {
	return slices.Clone(r.allowedHosts)
}

// HostAllowed reports whether host may serve external images. Host names
// compare case-insensitively.
func (r *Record) HostAllowed(host string) bool {
	_, found := slices.BinarySearch(r.allowedHosts, strings.ToLower(host))
	return found
}

// UnoptimizedImages reports whether the image transformation pipeline is bypassed.
func (r *Record) UnoptimizedImages() bool { return r.unoptimized }

// FailOnTypeErrors reports whether type errors fail the build.
func (r *Record) FailOnTypeErrors() bool { return r.failOnTypeErrors }

// FailOnLintErrors reports whether lint errors fail the build.
func (r *Record) FailOnLintErrors() bool { return r.failOnLintErrors }

// PublicEnvNames returns the sorted names of all declared public env keys,
// including undefined ones.
func (r *Record) PublicEnvNames() []string {
	return sortedKeys(r.publicEnv)
}

// LookupPublicEnv returns the resolved value of a public env key. The
// boolean is false when the key is undefined or was never declared.
func (r *Record) LookupPublicEnv(name string) (string, bool) {
	v, ok := r.publicEnv[name]
	if !ok || !v.defined {
		return "", false
	}
	return v.value, true
}

// PublicEnvDeclared reports whether name was declared, defined or not.
func (r *Record) PublicEnvDeclared(name string) bool {
	_, ok := r.publicEnv[name]
	return ok
}

// PublicEnv returns a copy of the public env mapping. Undefined values are nil.
func (r *Record) PublicEnv() map[string]*string {
	out := make(map[string]*string, len(r.publicEnv))
	for name, v := range r.publicEnv {
		if !v.defined {
			out[name] = nil
			continue
		}
		value := v.value
		out[name] = &value
	}
	return out
}

// Experimental reports whether an experimental flag is enabled.
func (r *Record) Experimental(flag string) bool { return r.experimental[flag] }

// ExperimentalFlags returns a copy of the experimental flag mapping.
func (r *Record) ExperimentalFlags() map[string]bool {
	return maps.Clone(r.experimental)
}

// Equal reports whether r and other hold the same configuration.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.outputMode == other.outputMode &&
		slices.Equal(r.allowedHosts, other.allowedHosts) &&
		r.unoptimized == other.unoptimized &&
		maps.Equal(r.publicEnv, other.publicEnv) &&
		maps.Equal(r.experimental, other.experimental) &&
		r.failOnTypeErrors == other.failOnTypeErrors &&
		r.failOnLintErrors == other.failOnLintErrors
}

// View is an exported snapshot of a Record for encoders. Undefined public
// env values are nil and encode as null (TOML omits them).
type View struct {
	OutputMode   OutputMode         `json:"outputMode" yaml:"outputMode" toml:"outputMode"`
	Images       ImagesView         `json:"images" yaml:"images" toml:"images"`
	PublicEnv    map[string]*string `json:"publicEnv" yaml:"publicEnv" toml:"publicEnv"`
	Experimental map[string]bool    `json:"experimental" yaml:"experimental" toml:"experimental"`
	Strictness   StrictnessView     `json:"buildStrictness" yaml:"buildStrictness" toml:"buildStrictness"`
}

// ImagesView is the image section of a View.
type ImagesView struct {
	AllowedHosts []string `json:"allowedHosts" yaml:"allowedHosts" toml:"allowedHosts"`
	Unoptimized  bool     `json:"unoptimizedImages" yaml:"unoptimizedImages" toml:"unoptimizedImages"`
}

// StrictnessView is the build strictness section of a View.
type StrictnessView struct {
	FailOnTypeErrors bool `json:"failOnTypeErrors" yaml:"failOnTypeErrors" toml:"failOnTypeErrors"`
	FailOnLintErrors bool `json:"failOnLintErrors" yaml:"failOnLintErrors" toml:"failOnLintErrors"`
}

// View returns an exported copy of the record.
func (r *Record) View() View {
	return View{
		OutputMode: r.outputMode,
		Images: ImagesView{
			AllowedHosts: r.AllowedHosts(),
			Unoptimized:  r.unoptimized,
		},
		PublicEnv:    r.PublicEnv(),
		Experimental: r.ExperimentalFlags(),
		Strictness: StrictnessView{
			FailOnTypeErrors: r.failOnTypeErrors,
			FailOnLintErrors: r.failOnLintErrors,
		},
	}
}

// hostSet lowercases, sorts and deduplicates hosts.
func hostSet(hosts []string) []string {
	set := make([]string, 0, len(hosts))
	for _, h := range hosts {
		set = append(set, strings.ToLower(h))
	}
	sort.Strings(set)
	return slices.Compact(set)
}
