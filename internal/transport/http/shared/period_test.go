package shared

import "testing"

func TestParsePeriod(t *testing.T) {
	got, err := ParsePeriod("2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "2026-03" {
		t.Fatalf("expected 2026-03, got %s", got)
	}
}

func TestParsePeriodRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "2026", "03-2026", "2026-13", "march"} {
		if _, err := ParsePeriod(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
