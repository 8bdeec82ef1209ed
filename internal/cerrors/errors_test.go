package cerrors

import (
	"strings"
	"testing"
)

func TestSuggestionsDistanceThreshold(t *testing.T) {
	got := Suggestions("mpa", []string{"map", "filter", "reduce", "mp"})
	if len(got) != 2 || got[0] != "mp" || got[1] != "map" {
		t.Fatalf("expected [mp map] (distance 1, then distance 2), got %v", got)
	}
}

func TestSuggestionsLimitsToTwo(t *testing.T) {
	got := Suggestions("xx", []string{"xy", "yx", "xz", "zx"})
	if len(got) > 2 {
		t.Fatalf("expected at most 2 suggestions, got %d", len(got))
	}
}

func TestErrorPathFormatting(t *testing.T) {
	err := New(UnknownVariable, "undefined variable %q", "foo").WithPath([]string{"let", "binding_value_for_x"})
	msg := err.Error()
	if msg == "" {
		t.Fatal("expected non-empty message")
	}
	if !strings.Contains(msg, "(at let -> binding_value_for_x)") {
		t.Fatalf("expected path rendered as 'let -> binding_value_for_x', got %q", msg)
	}
}

func TestPrependStep(t *testing.T) {
	err := New(TypeError, "boom").WithPath([]string{"then"})
	err = err.PrependStep("if")
	if len(err.Path) != 2 || err.Path[0] != "if" || err.Path[1] != "then" {
		t.Fatalf("unexpected path: %v", err.Path)
	}
}
