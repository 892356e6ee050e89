package resolve

import (
	"strings"
	"testing"
)

func TestResolve_BestMatch(t *testing.T) {
	r := NewResolver()

	cases := []struct {
		phrase string
		want   string
	}{
		{"show me upcoming testing events", "eventQuery"},
		{"exam score performance", "scoreQuery"},
		{"list all registrations", "registrationQuery"},
		{"which institutions participate", "institutionQuery"},
		{"testing center locations", "siteQuery"},
		{"pass fail outcomes", "resultQuery"},
		{"disability accommodations", "accommodationQuery"},
		{"voucher codes", "voucherQuery"},
	}

	for _, tc := range cases {
		t.Run(tc.phrase, func(t *testing.T) {
			m, err := r.Best(tc.phrase)
			if err != nil {
				t.Fatalf("Best(%q) error: %v", tc.phrase, err)
			}
			if m.Endpoint.Operation != tc.want {
				t.Errorf("Best(%q) = %s, want %s", tc.phrase, m.Endpoint.Operation, tc.want)
			}
			if m.Score <= 0 {
				t.Errorf("Score = %d, want > 0", m.Score)
			}
		})
	}
}

func TestResolve_RankedDescending(t *testing.T) {
	r := NewResolver()

	matches, err := r.Resolve("candidate scores and results")
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(matches) < 2 {
		t.Fatalf("matches = %d, want several", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i-1].Score < matches[i].Score {
			t.Errorf("matches not sorted: %d before %d", matches[i-1].Score, matches[i].Score)
		}
	}
}

func TestResolve_EmptyPhrase(t *testing.T) {
	r := NewResolver()

	if _, err := r.Resolve(""); err == nil {
		t.Error("expected error for empty phrase")
	}
	// Filler-only phrases tokenize to nothing.
	if _, err := r.Resolve("show me all of the"); err == nil {
		t.Error("expected error for filler-only phrase")
	}
}

func TestSuggest(t *testing.T) {
	ops := []string{"eventQuery", "scoreQuery", "registrationQuery"}

	if got := suggest("eventQuer", ops); got != "eventQuery" {
		t.Errorf("suggest(eventQuer) = %q, want eventQuery", got)
	}
	if got := suggest("scoreQurey", ops); got != "scoreQuery" {
		t.Errorf("suggest(scoreQurey) = %q, want scoreQuery", got)
	}
	if got := suggest("zzzzzzzz", ops); got != "" {
		t.Errorf("suggest(zzzzzzzz) = %q, want no suggestion", got)
	}
}

func TestResolve_NoMatchAtAll(t *testing.T) {
	r := NewResolver()

	_, err := r.Resolve("zzzz qqqq xxxx")
	if err == nil {
		t.Fatal("expected error for nonsense phrase")
	}
	if !strings.Contains(err.Error(), "no endpoint matches") {
		t.Errorf("error = %v", err)
	}
}

func TestCatalog_SortedAndComplete(t *testing.T) {
	r := NewResolver()
	cat := r.Catalog()

	if len(cat) < 15 {
		t.Fatalf("catalog has %d entries, want the full endpoint set", len(cat))
	}
	for i, e := range cat {
		if e.Operation == "" || e.Path == "" || e.Description == "" {
			t.Errorf("catalog entry %d incomplete: %+v", i, e)
		}
		if len(e.Tags) == 0 {
			t.Errorf("catalog entry %s has no tags", e.Operation)
		}
		if i > 0 && cat[i-1].Operation >= e.Operation {
			t.Errorf("catalog not sorted at %d: %s before %s", i, cat[i-1].Operation, e.Operation)
		}
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"eventQuery", "eventQuery", 0},
		{"eventQuer", "eventQuery", 1},
	}
	for _, tc := range cases {
		if got := levenshtein(tc.a, tc.b); got != tc.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}
