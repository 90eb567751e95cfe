package core

import "testing"

func TestInstalledVersion(t *testing.T) {
	paths := []string{
		"mods/bottleneck_1.0.2.zip",
		"mods/bottleneck_0.9.0.zip",
		"mods/even-distribution_1.0.10.zip",
		"mods/bottleneck_broken.zip",
	}

	for _, policy := range []MatchPolicy{MatchExact, MatchSubstring} {
		t.Run(policy.String(), func(t *testing.T) {
			got := InstalledVersion("bottleneck", paths, policy)
			if got == nil {
				t.Fatal("InstalledVersion = nil, want 1.0.2")
			}
			if !got.Equal(MustVersion(1, 0, 2)) {
				t.Errorf("InstalledVersion = %s, want 1.0.2", got)
			}
		})
	}
}

func TestInstalledVersionMissing(t *testing.T) {
	if got := InstalledVersion("foo", nil, MatchExact); got != nil {
		t.Errorf("InstalledVersion(foo, []) = %s, want nil", got)
	}
	if got := InstalledVersion("foo", []string{"mods/bar_1.0.0.zip"}, MatchSubstring); got != nil {
		t.Errorf("InstalledVersion = %s, want nil", got)
	}
}

func TestInstalledVersionUnparsableCandidatesExcluded(t *testing.T) {
	paths := []string{
		"mods/foo_dev.zip",
		"mods/foo_1.2.zip",
		"mods/foo_1.200.0.zip",
	}
	if got := InstalledVersion("foo", paths, MatchExact); got != nil {
		t.Errorf("InstalledVersion = %s, want nil", got)
	}

	paths = append(paths, "mods/foo_0.1.0.zip")
	got := InstalledVersion("foo", paths, MatchExact)
	if got == nil || !got.Equal(MustVersion(0, 1, 0)) {
		t.Errorf("InstalledVersion = %v, want 0.1.0", got)
	}
}

func TestMatchPolicies(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		exact     bool
		substring bool
	}{
		{"Bottleneck", "mods/Bottleneck_0.11.7.zip", true, true},
		{"Bottleneck", "mods/BottleneckLite_1.0.0.zip", false, true},
		{"Bottleneck", "mods/Not-Bottleneck_1.0.0.zip", false, true},
		{"even_distribution", "mods/even_distribution_1.0.0.zip", true, true},
		{"even", "mods/even_distribution_1.0.0.zip", false, true},
		{"Bottleneck", "mods/bottleneck_0.11.7.zip", false, false},
		{"Bottleneck", "mods/Bottleneck.zip", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/"+tt.path, func(t *testing.T) {
			if got := MatchExact.Matches(tt.name, tt.path); got != tt.exact {
				t.Errorf("MatchExact.Matches = %v, want %v", got, tt.exact)
			}
			if got := MatchSubstring.Matches(tt.name, tt.path); got != tt.substring {
				t.Errorf("MatchSubstring.Matches = %v, want %v", got, tt.substring)
			}
		})
	}
}

func TestSubstringPolicyFalsePositive(t *testing.T) {
	paths := []string{"mods/BottleneckLite_2.0.0.zip", "mods/Bottleneck_0.11.7.zip"}

	loose := InstalledVersion("Bottleneck", paths, MatchSubstring)
	if loose == nil || !loose.Equal(MustVersion(2, 0, 0)) {
		t.Errorf("substring InstalledVersion = %v, want 2.0.0", loose)
	}

	exact := InstalledVersion("Bottleneck", paths, MatchExact)
	if exact == nil || !exact.Equal(MustVersion(0, 11, 7)) {
		t.Errorf("exact InstalledVersion = %v, want 0.11.7", exact)
	}
}

func TestInstalledVersionDigitsInName(t *testing.T) {
	paths := []string{"mods/Mod1.2.3x_2.0.0.zip"}

	exact := InstalledVersion("Mod1.2.3x", paths, MatchExact)
	if exact == nil || !exact.Equal(MustVersion(2, 0, 0)) {
		t.Errorf("exact InstalledVersion = %v, want 2.0.0", exact)
	}

	loose := InstalledVersion("Mod1.2.3x", paths, MatchSubstring)
	if loose == nil || !loose.Equal(MustVersion(1, 2, 3)) {
		t.Errorf("substring InstalledVersion = %v, want 1.2.3", loose)
	}
}

func TestInstalledFiles(t *testing.T) {
	paths := []string{"mods/a_1.0.0.zip", "mods/b_1.0.0.zip", "mods/a_1.1.0.zip"}
	got := InstalledFiles("a", paths, MatchExact)
	if len(got) != 2 || got[0] != "mods/a_1.0.0.zip" || got[1] != "mods/a_1.1.0.zip" {
		t.Errorf("InstalledFiles = %v", got)
	}
}

func TestParseMatchPolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchPolicy
		wantErr bool
	}{
		{"", MatchExact, false},
		{"exact", MatchExact, false},
		{"Substring", MatchSubstring, false},
		{"fuzzy", MatchExact, true},
	}
	for _, tt := range tests {
		got, err := ParseMatchPolicy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMatchPolicy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMatchPolicy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
