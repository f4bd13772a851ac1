package textfield

import "testing"

func TestVersion_IsSemver(t *testing.T) {
	if !IsSemver(Version()) {
		t.Fatalf("embedded version must be semver: got %q", Version())
	}
	if got, want := VersionTag(), "v"+Version(); got != want {
		t.Fatalf("version tag: got %q, want %q", got, want)
	}
}

func TestIsSemver(t *testing.T) {
	cases := map[string]bool{
		"0.1.0":         true,
		"1.2.3-alpha.1": true,
		"2.0.0+build.7": true,
		"v1.2.3":        false,
		"1.2":           false,
		"01.2.3":        false,
		"":              false,
	}
	for v, want := range cases {
		if got := IsSemver(v); got != want {
			t.Fatalf("IsSemver(%q): got %v, want %v", v, got, want)
		}
	}
}

func TestSatisfies(t *testing.T) {
	cases := []struct {
		min  string
		want bool
	}{
		{min: "", want: true},
		{min: Version(), want: true},
		{min: "0.0.1", want: true},
		{min: "0.1.0-rc.1", want: true},
		{min: "99.0.0", want: false},
		{min: "1.x", want: false},
	}
	for _, tc := range cases {
		if got := Satisfies(tc.min); got != tc.want {
			t.Fatalf("Satisfies(%q): got %v, want %v", tc.min, got, tc.want)
		}
	}
}
