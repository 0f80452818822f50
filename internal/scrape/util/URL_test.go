package util_test

import (
	"testing"

	"jobscout-engine/internal/scrape/util"
)

func TestCanonicalizeURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"tracking params stripped",
			"https://uk.indeed.com/viewjob?jk=abc&utm_source=feed&utm_medium=rss&gclid=xyz",
			"https://uk.indeed.com/viewjob?jk=abc",
		},
		{
			"fragment dropped",
			"https://uk.indeed.com/viewjob?jk=abc#apply",
			"https://uk.indeed.com/viewjob?jk=abc",
		},
		{
			"host lowercased and query ordered",
			"https://UK.Indeed.com/viewjob?b=2&a=1",
			"https://uk.indeed.com/viewjob?a=1&b=2",
		},
		{
			"empty stays empty",
			"",
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := util.CanonicalizeURL(tc.in); got != tc.want {
				t.Errorf("CanonicalizeURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeURL_SameListingDifferentReferrals(t *testing.T) {
	a := util.CanonicalizeURL("https://uk.indeed.com/viewjob?jk=abc&utm_campaign=x")
	b := util.CanonicalizeURL("https://UK.indeed.com/viewjob?jk=abc#vjs")
	if a != b {
		t.Errorf("referral variants did not collapse: %q vs %q", a, b)
	}
}

func TestResolveLink(t *testing.T) {
	cases := []struct {
		base string
		href string
		want string
	}{
		{"https://uk.indeed.com", "/viewjob?jk=abc", "https://uk.indeed.com/viewjob?jk=abc"},
		{"https://uk.indeed.com/", "/viewjob?jk=abc", "https://uk.indeed.com/viewjob?jk=abc"},
		{"https://uk.indeed.com", "https://other.com/job", "https://other.com/job"},
		{"https://uk.indeed.com", "//cdn.indeed.com/viewjob?jk=abc", "https://cdn.indeed.com/viewjob?jk=abc"},
		{"https://uk.indeed.com", "  ", ""},
	}
	for _, tc := range cases {
		if got := util.ResolveLink(tc.base, tc.href); got != tc.want {
			t.Errorf("ResolveLink(%q, %q) = %q, want %q", tc.base, tc.href, got, tc.want)
		}
	}
}
