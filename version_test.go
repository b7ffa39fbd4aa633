package jigsaw

import "testing"

func TestParseVersionRejectsInvalid(t *testing.T) {
	cases := []string{"", ".1", "1.", "1..2"}
	for _, c := range cases {
		if _, err := ParseVersion(c); err == nil {
			t.Errorf("ParseVersion(%q) should have failed", c)
		}
	}
}

func TestVersionTrailingZeroEquivalence(t *testing.T) {
	pairs := [][2]string{
		{"1", "1.0"},
		{"1.0", "1.0.0"},
		{"1.2", "1.2.0"},
	}
	for _, p := range pairs {
		a, b := MustParseVersion(p[0]), MustParseVersion(p[1])
		if !a.Equal(b) {
			t.Errorf("%s should equal %s", p[0], p[1])
		}
	}
}

func TestVersionOrdering(t *testing.T) {
	ordered := []string{"1", "1.1", "1.2", "2", "2.0.1", "10"}
	for i := 1; i < len(ordered); i++ {
		a, b := MustParseVersion(ordered[i-1]), MustParseVersion(ordered[i])
		if !a.Less(b) {
			t.Errorf("%s should be less than %s", ordered[i-1], ordered[i])
		}
	}
}

func TestVersionNumericBeforeAlpha(t *testing.T) {
	a, b := MustParseVersion("1.2"), MustParseVersion("1.a")
	if !a.Less(b) {
		t.Errorf("numeric component should sort before alphabetic component")
	}
}

func TestNoVersionSortsFirst(t *testing.T) {
	v := MustParseVersion("0.0.1")
	if !NoVersion.Less(v) {
		t.Error("NoVersion should sort before any concrete version")
	}
	if !NoVersion.Equal(NoVersion) {
		t.Error("NoVersion should equal itself")
	}
}

func TestVersionQueryMatches(t *testing.T) {
	cases := []struct {
		query string
		ver   string
		want  bool
	}{
		{"", "1", true},
		{"=1", "1.0", true},
		{">=1", "1", true},
		{">=2", "1", false},
		{"<2", "1.9", true},
		{"<=1", "1.0.0", true},
		{">1", "1", false},
	}
	for _, c := range cases {
		q := MustParseVersionQuery(c.query)
		v := MustParseVersion(c.ver)
		if got := q.Matches(v); got != c.want {
			t.Errorf("query %q matches %q = %v, want %v", c.query, c.ver, got, c.want)
		}
	}
}

func TestParseVersionQueryBareOperatorRejected(t *testing.T) {
	if _, err := ParseVersionQuery(">="); err == nil {
		t.Error("bare operator with no version should be rejected")
	}
}
