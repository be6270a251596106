package buildconfig

import (
	"encoding/json"
	"reflect"
	"sync"
	"testing"
)

func TestResolveEmptyInputReturnsDefaults(t *testing.T) {
	envs := []EnvSnapshot{
		{},
		NewEnvSnapshot(map[string]string{"NEXTAUTH_URL": "http://localhost:3000", "PATH": "/bin"}),
	}
	for _, env := range envs {
		got, err := Resolve(Input{}, env)
		if err != nil {
			t.Fatalf("Resolve({}): %v", err)
		}
		if !got.Equal(Defaults()) {
			t.Errorf("Resolve({}) = %+v, want defaults", got.View())
		}
	}

	got, err := Resolve(nil, EnvSnapshot{})
	if err != nil {
		t.Fatalf("Resolve(nil): %v", err)
	}
	if !got.Equal(Defaults()) {
		t.Errorf("Resolve(nil) = %+v, want defaults", got.View())
	}
}

func TestDefaults(t *testing.T) {
	r := Defaults()
	if r.OutputMode() != OutputDefault {
		t.Errorf("OutputMode: got %q, want %q", r.OutputMode(), OutputDefault)
	}
	if hosts := r.AllowedHosts(); len(hosts) != 0 {
		t.Errorf("AllowedHosts: got %v, want empty", hosts)
	}
	if r.UnoptimizedImages() {
		t.Error("UnoptimizedImages: got true, want false")
	}
	if len(r.PublicEnv()) != 0 {
		t.Errorf("PublicEnv: got %v, want empty", r.PublicEnv())
	}
	if len(r.ExperimentalFlags()) != 0 {
		t.Errorf("ExperimentalFlags: got %v, want empty", r.ExperimentalFlags())
	}
	if !r.FailOnTypeErrors() {
		t.Error("FailOnTypeErrors: got false, want true")
	}
	if !r.FailOnLintErrors() {
		t.Error("FailOnLintErrors: got false, want true")
	}
}

func TestResolveStandaloneScenario(t *testing.T) {
	input := Input{
		"output": "standalone",
		"images": map[string]any{
			"domains":     []any{"localhost"},
			"unoptimized": true,
		},
	}
	r, err := Resolve(input, EnvSnapshot{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if r.OutputMode() != OutputStandalone || !r.Standalone() {
		t.Errorf("OutputMode: got %q, want standalone", r.OutputMode())
	}
	if got := r.AllowedHosts(); !reflect.DeepEqual(got, []string{"localhost"}) {
		t.Errorf("AllowedHosts: got %v, want [localhost]", got)
	}
	if !r.UnoptimizedImages() {
		t.Error("UnoptimizedImages: got false, want true")
	}
	if !r.FailOnTypeErrors() || !r.FailOnLintErrors() {
		t.Errorf("strictness: got type=%v lint=%v, want both true", r.FailOnTypeErrors(), r.FailOnLintErrors())
	}
	if len(r.PublicEnv()) != 0 {
		t.Errorf("PublicEnv: got %v, want empty", r.PublicEnv())
	}
}

func TestResolveFullDocument(t *testing.T) {
	input := Input{
		"output":       "default",
		"images":       map[string]any{"domains": []string{"cdn.example.com", "localhost"}},
		"env":          map[string]any{"NEXTAUTH_URL": "${NEXTAUTH_URL}"},
		"experimental": map[string]any{"appDir": true, "turbo": false},
		"typescript":   map[string]any{"ignoreBuildErrors": true},
		"eslint":       map[string]any{"ignoreDuringBuilds": false},
	}
	env := NewEnvSnapshot(map[string]string{"NEXTAUTH_URL": "https://auth.example.com"})

	r, err := Resolve(input, env)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v, ok := r.LookupPublicEnv("NEXTAUTH_URL"); !ok || v != "https://auth.example.com" {
		t.Errorf("NEXTAUTH_URL: got %q (%v), want https://auth.example.com", v, ok)
	}
	if !r.Experimental("appDir") {
		t.Error("Experimental(appDir): got false, want true")
	}
	if r.Experimental("turbo") || r.Experimental("missing") {
		t.Error("disabled or missing flags should report false")
	}
	if r.FailOnTypeErrors() {
		t.Error("FailOnTypeErrors: got true, want false (ignoreBuildErrors = true)")
	}
	if !r.FailOnLintErrors() {
		t.Error("FailOnLintErrors: got false, want true (ignoreDuringBuilds = false)")
	}
	if !r.HostAllowed("cdn.example.com") || r.HostAllowed("evil.example.com") {
		t.Errorf("HostAllowed mismatch for hosts %v", r.AllowedHosts())
	}
}

func TestResolveAllowedHostsIsSet(t *testing.T) {
	a, err := Resolve(Input{"images": map[string]any{"domains": []any{"b.example.com", "a.example.com", "b.example.com"}}}, EnvSnapshot{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := Resolve(Input{"images": map[string]any{"domains": []any{"a.example.com", "b.example.com"}}}, EnvSnapshot{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"a.example.com", "b.example.com"}
	if got := a.AllowedHosts(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllowedHosts: got %v, want %v", got, want)
	}
	if !a.Equal(b) {
		t.Error("records differing only in host order and duplicates should be equal")
	}
}

func TestResolveAllowedHostsIgnoreCase(t *testing.T) {
	r, err := Resolve(Input{"images": map[string]any{"domains": []any{"LocalHost", "localhost", "CDN.example.com"}}}, EnvSnapshot{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"cdn.example.com", "localhost"}
	if got := r.AllowedHosts(); !reflect.DeepEqual(got, want) {
		t.Errorf("AllowedHosts: got %v, want %v", got, want)
	}
	for _, host := range []string{"LOCALHOST", "localhost", "cdn.EXAMPLE.com"} {
		if !r.HostAllowed(host) {
			t.Errorf("HostAllowed(%q): got false, want true", host)
		}
	}

	lower, err := Resolve(Input{"images": map[string]any{"domains": []any{"localhost", "cdn.example.com"}}}, EnvSnapshot{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !r.Equal(lower) {
		t.Error("records differing only in host case should be equal")
	}
}

func TestResolvePublicEnv(t *testing.T) {
	env := NewEnvSnapshot(map[string]string{
		"NEXTAUTH_URL": "http://localhost:3000",
		"API_HOST":     "api.internal",
	})

	tests := []struct {
		name        string
		template    any
		wantValue   string
		wantDefined bool
	}{
		{"null looks up own name", nil, "http://localhost:3000", true},
		{"empty looks up own name", "", "http://localhost:3000", true},
		{"braced reference", "${API_HOST}", "api.internal", true},
		{"bare reference", "$API_HOST", "api.internal", true},
		{"missing reference is undefined", "${MISSING}", "", false},
		{"literal reads own name", "https://static.example.com", "http://localhost:3000", true},
		{"embedded reference reads own name", "https://${API_HOST}/v1", "http://localhost:3000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := Input{"env": map[string]any{"NEXTAUTH_URL": tt.template}}
			r, err := Resolve(input, env)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			got, ok := r.LookupPublicEnv("NEXTAUTH_URL")
			if ok != tt.wantDefined || got != tt.wantValue {
				t.Errorf("got (%q, %v), want (%q, %v)", got, ok, tt.wantValue, tt.wantDefined)
			}
			if !r.PublicEnvDeclared("NEXTAUTH_URL") {
				t.Error("key should be declared")
			}
		})
	}
}

func TestResolveMissingPublicEnvIsUndefined(t *testing.T) {
	r, err := Resolve(Input{"env": map[string]any{"NEXTAUTH_URL": nil}}, EnvSnapshot{})
	if err != nil {
		t.Fatalf("Resolve should not fail for an unset variable: %v", err)
	}
	env := r.PublicEnv()
	v, declared := env["NEXTAUTH_URL"]
	if !declared {
		t.Fatal("NEXTAUTH_URL should be declared")
	}
	if v != nil {
		t.Errorf("NEXTAUTH_URL: got %q, want undefined", *v)
	}
	if names := r.PublicEnvNames(); !reflect.DeepEqual(names, []string{"NEXTAUTH_URL"}) {
		t.Errorf("PublicEnvNames: got %v", names)
	}
}

func TestResolveLiteralPublicEnvMissingIsUndefined(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"url literal", "http://localhost:3000"},
		{"own name", "API_URL"},
		{"template", "https://${API_HOST}/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Resolve(Input{"env": map[string]any{"API_URL": tt.value}}, NewEnvSnapshot(nil))
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if v, ok := r.LookupPublicEnv("API_URL"); ok {
				t.Errorf("API_URL: got %q, want undefined", v)
			}
			if !r.PublicEnvDeclared("API_URL") {
				t.Error("API_URL should be declared")
			}
		})
	}
}

func TestResolvePublicEnvCapturedOnce(t *testing.T) {
	vars := map[string]string{"NEXTAUTH_URL": "first"}
	env := NewEnvSnapshot(vars)
	vars["NEXTAUTH_URL"] = "changed"

	r, err := Resolve(Input{"env": map[string]string{"NEXTAUTH_URL": ""}}, env)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v, _ := r.LookupPublicEnv("NEXTAUTH_URL"); v != "first" {
		t.Errorf("got %q, want first", v)
	}

	t.Setenv("BUILDCFG_TEST_PUBLIC", "before")
	r, err = Resolve(Input{"env": map[string]any{"BUILDCFG_TEST_PUBLIC": nil}}, CaptureProcessEnv())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	t.Setenv("BUILDCFG_TEST_PUBLIC", "after")
	if v, _ := r.LookupPublicEnv("BUILDCFG_TEST_PUBLIC"); v != "before" {
		t.Errorf("resolved value changed with process env: got %q, want before", v)
	}

	copied := r.PublicEnv()
	*copied["BUILDCFG_TEST_PUBLIC"] = "mutated"
	if v, _ := r.LookupPublicEnv("BUILDCFG_TEST_PUBLIC"); v != "before" {
		t.Errorf("mutating PublicEnv() copy changed the record: got %q", v)
	}
}

func TestRecordAccessorsReturnCopies(t *testing.T) {
	r, err := Resolve(Input{
		"images":       map[string]any{"domains": []any{"localhost"}},
		"experimental": map[string]any{"appDir": true},
	}, EnvSnapshot{})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	hosts := r.AllowedHosts()
	hosts[0] = "evil.example.com"
	flags := r.ExperimentalFlags()
	flags["appDir"] = false

	if r.AllowedHosts()[0] != "localhost" {
		t.Error("AllowedHosts copy leaked into the record")
	}
	if !r.Experimental("appDir") {
		t.Error("ExperimentalFlags copy leaked into the record")
	}
}

func TestResolveInvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		input       Input
		wantKey     string
		wantProblem Problem
	}{
		{"unknown top-level key", Input{"foo": 1}, "foo", ProblemUnknownKey},
		{"invalid output mode", Input{"output": "invalid-mode"}, "output", ProblemInvalidValue},
		{"empty output mode", Input{"output": ""}, "output", ProblemInvalidValue},
		{"output not a string", Input{"output": true}, "output", ProblemWrongType},
		{"null output", Input{"output": nil}, "output", ProblemWrongType},
		{"images not a table", Input{"images": "localhost"}, "images", ProblemWrongType},
		{"unknown images key", Input{"images": map[string]any{"sizes": []any{}}}, "images.sizes", ProblemUnknownKey},
		{"unoptimized not a boolean", Input{"images": map[string]any{"unoptimized": "yes"}}, "images.unoptimized", ProblemWrongType},
		{"domains not an array", Input{"images": map[string]any{"domains": "localhost"}}, "images.domains", ProblemWrongType},
		{"domain not a string", Input{"images": map[string]any{"domains": []any{"localhost", 3}}}, "images.domains[1]", ProblemWrongType},
		{"domain not a host name", Input{"images": map[string]any{"domains": []any{"https://cdn.example.com"}}}, "images.domains[0]", ProblemInvalidValue},
		{"env value not a string", Input{"env": map[string]any{"PORT": 3000}}, "env.PORT", ProblemWrongType},
		{"reserved env key", Input{"env": map[string]any{"NODE_ENV": "production"}}, "env[NODE_ENV]", ProblemInvalidValue},
		{"experimental flag not a boolean", Input{"experimental": map[string]any{"appDir": "true"}}, "experimental.appDir", ProblemWrongType},
		{"unknown typescript key", Input{"typescript": map[string]any{"strict": true}}, "typescript.strict", ProblemUnknownKey},
		{"ignoreBuildErrors not a boolean", Input{"typescript": map[string]any{"ignoreBuildErrors": 0}}, "typescript.ignoreBuildErrors", ProblemWrongType},
		{"ignoreDuringBuilds not a boolean", Input{"eslint": map[string]any{"ignoreDuringBuilds": "no"}}, "eslint.ignoreDuringBuilds", ProblemWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Resolve(tt.input, EnvSnapshot{})
			if err == nil {
				t.Fatalf("expected error, got record %+v", r.View())
			}
			if r != nil {
				t.Error("no record may be returned on error")
			}
			ice, ok := AsInvalidConfig(err)
			if !ok {
				t.Fatalf("expected *InvalidConfigError, got %T: %v", err, err)
			}
			if ice.Key != tt.wantKey {
				t.Errorf("Key: got %q, want %q", ice.Key, tt.wantKey)
			}
			if ice.Problem != tt.wantProblem {
				t.Errorf("Problem: got %q, want %q", ice.Problem, tt.wantProblem)
			}
		})
	}
}

func TestResolveFirstErrorIsDeterministic(t *testing.T) {
	input := Input{"zeta": 1, "alpha": 2, "output": "nope"}
	for i := 0; i < 20; i++ {
		_, err := Resolve(input, EnvSnapshot{})
		ice, ok := AsInvalidConfig(err)
		if !ok || ice.Key != "alpha" {
			t.Fatalf("iteration %d: got %v, want unrecognized key alpha", i, err)
		}
	}
}

func TestResolveJSONNumbersAreRejectedAsBooleans(t *testing.T) {
	_, err := Resolve(Input{"images": map[string]any{"unoptimized": json.Number("1")}}, EnvSnapshot{})
	ice, ok := AsInvalidConfig(err)
	if !ok {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
	if ice.Got != "number" || ice.Expected != "boolean" {
		t.Errorf("got expected=%q got=%q, want boolean/number", ice.Expected, ice.Got)
	}
}

func TestResolveIdempotentAndConcurrent(t *testing.T) {
	input := Input{
		"output": "standalone",
		"images": map[string]any{"domains": []any{"localhost"}, "unoptimized": true},
		"env":    map[string]any{"NEXTAUTH_URL": nil},
	}
	env := NewEnvSnapshot(map[string]string{"NEXTAUTH_URL": "http://localhost:3000"})

	first, err := Resolve(input, env)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]*Record, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := Resolve(input, env)
			if err != nil {
				t.Errorf("Resolve: %v", err)
				return
			}
			results[i] = r
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if !first.Equal(r) {
			t.Errorf("result %d differs from first resolution", i)
		}
	}
	if !reflect.DeepEqual(first.View(), results[0].View()) {
		t.Error("views of equal records should be deeply equal")
	}
}

func TestInvalidConfigErrorMessage(t *testing.T) {
	tests := []struct {
		err  *InvalidConfigError
		want string
	}{
		{&InvalidConfigError{Key: "foo", Problem: ProblemUnknownKey}, `invalid config: unrecognized key "foo"`},
		{
			&InvalidConfigError{Key: "images.unoptimized", Problem: ProblemWrongType, Expected: "boolean", Got: "string"},
			`invalid config: key "images.unoptimized": expected boolean, got string`,
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error(): got %q, want %q", got, tt.want)
		}
	}
}
