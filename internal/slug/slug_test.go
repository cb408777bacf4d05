package slug

import "testing"

func TestMakeCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ordinal prefix stripped", "1. Overview", "overview"},
		{"nested ordinal stripped", "2.3. Advanced Setup", "advanced-setup"},
		{"version number kept", "Release 2024.3 notes", "release-2024.3-notes"},
		{"leading version not ordinal", "2024.3 notes", "2024.3-notes"},
		{"cyrillic with slash", "Настройка/Конфигурация", "настройка-конфигурация"},
		{"underscores collapse", "a_b__c", "a-b-c"},
		{"html tags stripped", "The <code>cfg</code> file", "the-cfg-file"},
		{"punctuation dropped", "What? How!", "what-how"},
		{"dots survive", "v1.2 upgrade", "v1.2-upgrade"},
		{"separator runs collapse", "a -- b", "a-b"},
		{"trimmed", " - edge - ", "edge"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.in, Canonical, CaseLower); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMakeGitHub(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"slash deleted", "Настройка/Конфигурация", "настройкаконфигурация"},
		{"custom anchor marker flattened", "Title {#custom-id}", "title-custom-id"},
		{"plain text", "Some Heading", "some-heading"},
		{"markup chars dropped", "**Bold** Note", "bold-note"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Make(tt.in, GitHub, CaseLower); got != tt.want {
				t.Errorf("Make(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMakeCase(t *testing.T) {
	if got := Make("MiXeD Case", Canonical, CaseKeep); got != "MiXeD-Case" {
		t.Errorf("CaseKeep = %q, want %q", got, "MiXeD-Case")
	}
	if got := Make("MiXeD Case", Canonical, CaseUpper); got != "MIXED-CASE" {
		t.Errorf("CaseUpper = %q, want %q", got, "MIXED-CASE")
	}
}

func TestMakeDeterministic(t *testing.T) {
	in := "1. Общие сведения/Setup"
	first := Make(in, Canonical, CaseLower)
	for i := 0; i < 3; i++ {
		if got := Make(in, Canonical, CaseLower); got != first {
			t.Fatalf("Make not stable: %q vs %q", got, first)
		}
	}
}
