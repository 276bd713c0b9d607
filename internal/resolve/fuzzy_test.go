package resolve_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/revolut-cli/revolut-cli/internal/resolve"
)

var accounts = []resolve.Named{
	{ID: "acc-gbp", Name: "Main GBP"},
	{ID: "acc-eur", Name: "Main EUR"},
	{ID: "acc-usd", Name: "Savings USD"},
}

func TestFuzzyMatch_ExactHit(t *testing.T) {
	id, err := resolve.FuzzyMatch("Main EUR", accounts)
	if err != nil {
		t.Fatal(err)
	}
	if id != "acc-eur" {
		t.Fatalf("expected acc-eur, got %s", id)
	}
}

func TestFuzzyMatch_PartialHit(t *testing.T) {
	id, err := resolve.FuzzyMatch("sav", accounts)
	if err != nil {
		t.Fatal(err)
	}
	if id != "acc-usd" {
		t.Fatalf("expected acc-usd, got %s", id)
	}
}

func TestFuzzyMatch_CaseInsensitive(t *testing.T) {
	id, err := resolve.FuzzyMatch("SAVINGS", accounts)
	if err != nil {
		t.Fatal(err)
	}
	if id != "acc-usd" {
		t.Fatalf("expected acc-usd, got %s", id)
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	_, err := resolve.FuzzyMatch("payroll", accounts)
	var nm *resolve.NoMatchError
	if !errors.As(err, &nm) {
		t.Fatalf("expected NoMatchError, got %T: %v", err, err)
	}
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	_, err := resolve.FuzzyMatch("main", accounts)
	var ae *resolve.AmbiguousError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AmbiguousError, got %T: %v", err, err)
	}
	if len(ae.Matches) != 2 {
		t.Fatalf("expected two candidates, got %+v", ae.Matches)
	}
	msg := ae.Error()
	if !strings.Contains(msg, `ambiguous match for "main"`) || !strings.Contains(msg, "acc-gbp: Main GBP") {
		t.Fatalf("unexpected error message: %q", msg)
	}
}

func TestFuzzyMatch_PrefersExactOverFuzzy(t *testing.T) {
	items := []resolve.Named{
		{ID: "1", Name: "Ops Float"},
		{ID: "2", Name: "Ops"},
	}
	id, err := resolve.FuzzyMatch("ops", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != "2" {
		t.Fatalf("expected exact match 2, got %s", id)
	}
}

func TestFuzzyMatch_EmptyInputs(t *testing.T) {
	if _, err := resolve.FuzzyMatch("  ", accounts); !errors.Is(err, resolve.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := resolve.FuzzyMatch("main", nil); !errors.Is(err, resolve.ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}
}

func TestResolve_PrefersID(t *testing.T) {
	items := []resolve.Named{
		{ID: "main", Name: "Savings"},
		{ID: "acc-2", Name: "main"},
	}
	id, err := resolve.Resolve("main", items)
	if err != nil {
		t.Fatal(err)
	}
	if id != "main" {
		t.Fatalf("expected ID match, got %s", id)
	}

	id, err = resolve.Resolve("savings", items)
	if err != nil || id != "main" {
		t.Fatalf("expected name fallback to main, got %s, %v", id, err)
	}
}

func TestFuzzyMatchAll_ReturnsRanked(t *testing.T) {
	matches := resolve.FuzzyMatchAll("main", accounts, 1)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if !strings.HasPrefix(matches[0].Name, "Main") {
		t.Fatalf("unexpected best match %+v", matches[0])
	}
	if resolve.FuzzyMatchAll("", accounts, 3) != nil {
		t.Fatal("expected nil for empty query")
	}
}
