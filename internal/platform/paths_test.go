package platform

import (
	"runtime"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		valid bool
	}{
		{"Simple", "Ahri/a.png", true},
		{"Nested", "Ahri/skins/Loading/a.png", true},
		{"Empty", "", false},
		{"ParentEscape", "../outside.png", false},
		{"EmbeddedEscape", "Ahri/../../outside.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.valid && err != nil {
				t.Errorf("ValidatePath(%q) error = %v, want nil", tt.path, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("ValidatePath(%q) = nil, want error", tt.path)
			}
		})
	}

	if runtime.GOOS == "windows" {
		if err := ValidatePath("Cho'Gath:Classic.png"); err == nil {
			t.Error("ValidatePath should reject Windows-invalid characters")
		}
	}
}

func TestNormalizePath(t *testing.T) {
	got := NormalizePath("a/b/../c/./d.png")
	want := NormalizePath("a/c/d.png")
	if got != want {
		t.Errorf("NormalizePath = %q, want %q", got, want)
	}
}
