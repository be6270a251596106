package configfile

// ExampleConfig returns an example buildcfg.toml showing all available options.
func ExampleConfig() string {
	return `# buildcfg project configuration
# Every key is optional; omitted keys take the defaults shown here.

# Build output layout: "default" or "standalone" (self-contained bundle for containers)
output = "default"

[images]
# Hosts permitted as external image sources
domains = []
# Bypass the image transformation pipeline
unoptimized = false

# Public environment values exposed to client code.
# "" reads the variable of the same name; "${NAME}" reads NAME.
# Unset variables resolve to undefined instead of failing the build.
[env]
# NEXTAUTH_URL = ""

# Opt-in unstable features
[experimental]
# appDir = true

[typescript]
# true lets the build succeed with type errors
ignoreBuildErrors = false

[eslint]
# true skips lint failures during builds
ignoreDuringBuilds = false
`
}
