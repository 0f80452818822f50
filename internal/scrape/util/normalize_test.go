package util_test

import (
	"testing"

	"jobscout-engine/internal/scrape/util"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  Senior  Go\n Engineer ", "Senior Go Engineer"},
		{"Acme Corp", "Acme Corp"},
		{"\t\n  ", ""},
	}
	for _, tc := range cases {
		if got := util.CleanText(tc.in); got != tc.want {
			t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLocation(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Location: London, UK", "London, UK"},
		{"London, London, UK", "London, UK"},
		{"  Manchester ,  , UK ", "Manchester, UK"},
		{"Remote", "Remote"},
	}
	for _, tc := range cases {
		if got := util.NormalizeLocation(tc.in); got != tc.want {
			t.Errorf("NormalizeLocation(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
