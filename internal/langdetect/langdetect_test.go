package langdetect

import "testing"

func TestScript(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"hiragana", "今日はポッドキャストの話をします", "ja"},
		{"mixed japanese and latin", "AIの話 with some English", "ja"},
		{"plain english", "Today we talk about podcasts", "en"},
		{"empty", "", "en"},
		{"digits only", "12345", "en"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Script(tc.text); got != tc.want {
				t.Fatalf("Script(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestDetect_Japanese(t *testing.T) {
	t.Parallel()

	if got := Detect("これは日本語の原稿です。今日のエピソードについて話します。"); got != "ja" {
		t.Fatalf("expected ja, got %q", got)
	}
}

func TestDetect_EmptyIsUnknown(t *testing.T) {
	t.Parallel()

	if got := Detect("   \n\t "); got != "unknown" {
		t.Fatalf("expected unknown for blank text, got %q", got)
	}
}

func TestDetect_SymbolsOnlyIsUnknown(t *testing.T) {
	t.Parallel()

	if got := Detect("1234 !!! ---"); got != "unknown" {
		t.Fatalf("expected unknown for symbol-only text, got %q", got)
	}
}

func TestDetect_English(t *testing.T) {
	t.Parallel()

	text := "Welcome back to the show. Today we are discussing how independent " +
		"podcast producers can automate their publishing workflow."
	if got := Detect(text); got != "en" {
		t.Fatalf("expected en, got %q", got)
	}
}
