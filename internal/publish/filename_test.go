package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextAvailable(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		ext      string
		existing []string
		want     string
	}{
		{
			name:     "gap_is_ignored_max_wins",
			prefix:   "w",
			ext:      ".html",
			existing: []string{"w1.html", "w2.html", "w9.html", "notes.txt"},
			want:     "w10.html",
		},
		{
			name:   "empty_listing",
			prefix: "w",
			ext:    ".html",
			want:   "w1.html",
		},
		{
			name:     "no_matches",
			prefix:   "w",
			ext:      ".html",
			existing: []string{"index.html", "README.md"},
			want:     "w1.html",
		},
		{
			name:     "anchored_match_only",
			prefix:   "w",
			ext:      ".html",
			existing: []string{"draft-w5.html", "w5.html.bak", "w5.htmlx", "w3.html"},
			want:     "w4.html",
		},
		{
			name:     "case_sensitive",
			prefix:   "w",
			ext:      ".html",
			existing: []string{"W7.html"},
			want:     "w1.html",
		},
		{
			name:     "longer_prefix",
			prefix:   "widget",
			ext:      ".html",
			existing: []string{"widget1.html", "widget12.html"},
			want:     "widget13.html",
		},
		{
			name:     "extension_dot_is_literal",
			prefix:   "t",
			ext:      ".html",
			existing: []string{"t2xhtml"},
			want:     "t1.html",
		},
		{
			name:     "non_numeric_suffix_skipped",
			prefix:   "w",
			ext:      ".html",
			existing: []string{"wfinal.html", "w2.html"},
			want:     "w3.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextAvailable(tt.prefix, tt.ext, tt.existing)
			assert.Equal(t, tt.want, got)
		})
	}
}
