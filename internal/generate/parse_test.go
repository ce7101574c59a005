package generate

import (
	"errors"
	"strings"
	"testing"
)

func TestParseTitles_Formats(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{
			"numbered with dots",
			"1. A\n2. B\n3. C",
			[]string{"A", "B", "C"},
		},
		{
			"numbered with parens",
			"1) First title\n2) Second title\n3) Third title",
			[]string{"First title", "Second title", "Third title"},
		},
		{
			"dash bullets",
			"- Alpha\n- Beta\n- Gamma",
			[]string{"Alpha", "Beta", "Gamma"},
		},
		{
			"unicode bullets",
			"• One\n• Two\n• Three",
			[]string{"One", "Two", "Three"},
		},
		{
			"bare lines",
			"Morning rituals\nDeep work\nWinding down",
			[]string{"Morning rituals", "Deep work", "Winding down"},
		},
		{
			"heading skipped before numbered list",
			"Here are your titles:\n1. A\n2. B\n3. C",
			[]string{"A", "B", "C"},
		},
		{
			"blank lines ignored",
			"\n1. A\n\n2. B\n\n3. C\n",
			[]string{"A", "B", "C"},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTitles(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %d titles, want %d: %v", len(got), len(tc.want), got)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("title %d: got %q want %q", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestParseTitles_WrongCount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
	}{
		{"single bare line", "Just one line"},
		{"two numbered", "1. A\n2. B"},
		{"four numbered", "1. A\n2. B\n3. C\n4. D"},
		{"empty", ""},
		{"only a heading", "Suggested titles:"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseTitles(tc.raw)
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
			if malformed.Kind != KindTitles {
				t.Fatalf("unexpected kind %q", malformed.Kind)
			}
		})
	}
}

func TestParseTitles_Idempotent(t *testing.T) {
	t.Parallel()

	raw := "1. A\n- B\nPlain third"
	first, err := ParseTitles(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := ParseTitles(raw)
	if err != nil {
		t.Fatalf("unexpected error on re-parse: %v", err)
	}
	if strings.Join(first, "|") != strings.Join(second, "|") {
		t.Fatalf("re-parsing diverged: %v vs %v", first, second)
	}
}

func TestNormalizeDescription_StripsOneQuoteLayer(t *testing.T) {
	t.Parallel()

	if got := normalizeDescription(`  "An episode about focus."  `); got != "An episode about focus." {
		t.Fatalf("unexpected result: %q", got)
	}
	if got := normalizeDescription(`""double wrapped""`); got != `"double wrapped"` {
		t.Fatalf("only one layer should be stripped, got %q", got)
	}
	if got := normalizeDescription(`"unbalanced`); got != `"unbalanced` {
		t.Fatalf("one-sided quote must be kept, got %q", got)
	}
}

func TestCheckLength_DescriptionBounds(t *testing.T) {
	t.Parallel()

	if err := checkLength(KindDescription, strings.Repeat("a", 200)); err != nil {
		t.Fatalf("200 chars is within contract: %v", err)
	}
	if err := checkLength(KindDescription, strings.Repeat("a", 400)); err != nil {
		t.Fatalf("400 chars is within contract: %v", err)
	}

	var violation *ContractViolationError
	err := checkLength(KindDescription, strings.Repeat("a", 199))
	if !errors.As(err, &violation) {
		t.Fatalf("expected ContractViolationError, got %v", err)
	}
	if violation.Length != 199 || !strings.Contains(violation.Error(), "short") {
		t.Fatalf("unexpected violation: %v", violation)
	}

	err = checkLength(KindDescription, strings.Repeat("a", 401))
	if !errors.As(err, &violation) {
		t.Fatalf("expected ContractViolationError, got %v", err)
	}
	if violation.Length != 401 || !strings.Contains(violation.Error(), "long") {
		t.Fatalf("unexpected violation: %v", violation)
	}
}

func TestCheckLength_CountsRunesNotBytes(t *testing.T) {
	t.Parallel()

	// 200 Japanese characters are 600 bytes but must pass the contract.
	text := strings.Repeat("語", 200)
	if err := checkLength(KindDescription, text); err != nil {
		t.Fatalf("rune counting broken: %v", err)
	}
}

func TestCheckLength_BlogPostBounds(t *testing.T) {
	t.Parallel()

	if err := checkLength(KindBlogPost, strings.Repeat("a", 1000)); err != nil {
		t.Fatalf("1000 chars is within contract: %v", err)
	}
	var violation *ContractViolationError
	if err := checkLength(KindBlogPost, strings.Repeat("a", 2001)); !errors.As(err, &violation) {
		t.Fatalf("expected ContractViolationError, got %v", err)
	}
}
