package utils

import (
	"reflect"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"A", []string{"A"}},
		{" A , B ,,C ", []string{"A", "B", "C"}},
	}
	for _, tt := range tests {
		if got := SplitAndTrim(tt.in, ","); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"#", ""},
		{"/output", "output"},
		{"#/images/domains/1", "images.domains[1]"},
		{"/experimental/appDir", "experimental.appDir"},
		{"/env/A~1B", "env.A/B"},
		{"/env/A~0B", "env.A~B"},
		{"/0", "0"},
	}
	for _, tt := range tests {
		if got := JSONPointerToPath(tt.in); got != tt.want {
			t.Errorf("JSONPointerToPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinAndIndexKey(t *testing.T) {
	if got := JoinKey("", "output"); got != "output" {
		t.Errorf("JoinKey root: got %q", got)
	}
	if got := JoinKey("images", "domains"); got != "images.domains" {
		t.Errorf("JoinKey: got %q", got)
	}
	if got := IndexKey("images.domains", 2); got != "images.domains[2]" {
		t.Errorf("IndexKey: got %q", got)
	}
}
