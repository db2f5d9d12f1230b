package app

import (
	"strings"
	"testing"
)

func TestStrLimit(t *testing.T) {
	if got := strLimit("short", 200, "..."); got != "short" {
		t.Errorf("expected passthrough, got %q", got)
	}

	long := strings.Repeat("a", 250)
	got := strLimit(long, 200, "...")
	if len(got) != 203 {
		t.Errorf("expected 200 chars plus ellipsis, got len %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-5:])
	}

	// Truncation must not split multibyte characters.
	korean := strings.Repeat("가", 250)
	got = strLimit(korean, 200, "...")
	runes := []rune(got)
	if len(runes) != 203 {
		t.Errorf("expected 200 runes plus ellipsis, got %d runes", len(runes))
	}
	if string(runes[:200]) != strings.Repeat("가", 200) {
		t.Error("expected intact multibyte runes after truncation")
	}
}
