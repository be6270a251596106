package buildconfig

// Resolve validates input and returns the fully resolved record.
//
// Omitted keys take their defaults: output "default", no allowed hosts,
// optimized images, empty public env and experimental flags, and builds
// that fail on type and lint errors. Public env values are read from env
// exactly once, here; a declared key missing from env resolves to
// undefined rather than failing.
//
// Any unknown key or mistyped value aborts resolution with an
// *InvalidConfigError and no record. Resolve performs no I/O and may be
// called concurrently.
func Resolve(input Input, env EnvSnapshot) (*Record, error) {
	p, err := decodeInput(input)
	if err != nil {
		return nil, err
	}
	if err := validatePartial(p); err != nil {
		return nil, err
	}
	return build(p, env), nil
}

// build applies defaults and captures public env values.
func build(p *partial, env EnvSnapshot) *Record {
	r := Defaults()

	if p.Output != nil {
		r.outputMode = OutputMode(*p.Output)
	}
	if p.Images != nil {
		r.allowedHosts = hostSet(p.Images.Domains)
		if p.Images.Unoptimized != nil {
			r.unoptimized = *p.Images.Unoptimized
		}
	}
	for key, ref := range p.Env {
		r.publicEnv[key] = resolveEnvValue(key, ref, env)
	}
	for flag, enabled := range p.Experimental {
		r.experimental[flag] = enabled
	}
	if p.TypeScript != nil && p.TypeScript.IgnoreBuildErrors != nil {
		r.failOnTypeErrors = !*p.TypeScript.IgnoreBuildErrors
	}
	if p.ESLint != nil && p.ESLint.IgnoreDuringBuilds != nil {
		r.failOnLintErrors = !*p.ESLint.IgnoreDuringBuilds
	}
	return r
}
