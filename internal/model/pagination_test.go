package model

import "testing"

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(2, 15, 31)
	if meta.CurrentPage != 2 {
		t.Errorf("expected current_page 2, got %d", meta.CurrentPage)
	}
	if meta.PerPage != 15 {
		t.Errorf("expected per_page 15, got %d", meta.PerPage)
	}
	if meta.Total != 31 {
		t.Errorf("expected total 31, got %d", meta.Total)
	}
	if meta.LastPage != 3 {
		t.Errorf("expected last_page 3, got %d", meta.LastPage)
	}
}

func TestNewPageMetaExactMultiple(t *testing.T) {
	meta := NewPageMeta(1, 15, 30)
	if meta.LastPage != 2 {
		t.Errorf("expected last_page 2, got %d", meta.LastPage)
	}
}

func TestNewPageMetaEmpty(t *testing.T) {
	meta := NewPageMeta(0, 15, 0)
	if meta.CurrentPage != 1 {
		t.Errorf("expected current_page clamped to 1, got %d", meta.CurrentPage)
	}
	if meta.LastPage != 1 {
		t.Errorf("expected last_page 1 for empty set, got %d", meta.LastPage)
	}
}
