package mirror

import (
	"testing"
)

func TestExcluded(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		patterns []string
		want     bool
	}{
		{"NoPatterns", "Ahri/skins/a.png", nil, false},
		{"BasenameGlob", "Ahri/skins/a.ogg", []string{"*.ogg"}, true},
		{"BasenameGlobNoMatch", "Ahri/skins/a.png", []string{"*.ogg"}, false},
		{"DirectoryPattern", "Ahri/audio/laugh.ogg", []string{"audio/"}, true},
		{"DirectoryPatternTopLevel", "audio/laugh.ogg", []string{"audio/"}, true},
		{"DirectoryPatternNoMatch", "Ahri/skins/a.png", []string{"audio/"}, false},
		{"PathGlob", "Ahri/skins/a.png", []string{"Ahri/skins/*"}, true},
		{"PathGlobOtherChampion", "Zed/skins/a.png", []string{"Ahri/skins/*"}, false},
		{"PathSuffix", "data/Ahri/skins/Loading/a.png", []string{"Loading/a.png"}, true},
		{"EmptyPattern", "Ahri/a.png", []string{""}, false},
		{"SecondPatternMatches", "Ahri/skins/a.webp", []string{"*.ogg", "*.webp"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Excluded(tt.path, tt.patterns); got != tt.want {
				t.Errorf("Excluded(%q, %v) = %v, want %v", tt.path, tt.patterns, got, tt.want)
			}
		})
	}
}
