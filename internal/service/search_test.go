package service

import (
	"testing"

	"github.com/hrsaas/transferd/internal/model"
)

func TestSearchStateResetsPageOnFilterChange(t *testing.T) {
	s := NewSearchState()
	s.SetPage(4)

	s.SetKeyword("kim")
	if s.Page() != 0 {
		t.Errorf("keyword change kept page %d", s.Page())
	}

	s.SetPage(2)
	s.SetType(model.TypeSecondment)
	if s.Page() != 0 {
		t.Errorf("type change kept page %d", s.Page())
	}

	s.SetPage(3)
	s.SetStatus(model.StatusApproved)
	if s.Page() != 0 {
		t.Errorf("status change kept page %d", s.Page())
	}

	// Re-applying the same filter value is not a change.
	s.SetPage(5)
	s.SetKeyword("kim")
	s.SetType(model.TypeSecondment)
	s.SetStatus(model.StatusApproved)
	if s.Page() != 5 {
		t.Errorf("no-op filter writes reset page to %d", s.Page())
	}

	// Paging alone keeps the filters.
	s.SetPage(7)
	p := s.Params()
	if p.Keyword != "kim" || p.Type != model.TypeSecondment || p.Status != model.StatusApproved || p.Page != 7 {
		t.Errorf("params %+v", p)
	}
}

func TestSearchStateDefaults(t *testing.T) {
	s := NewSearchState()
	p := s.Params()
	if p.Size != defaultPageSize || p.Page != 0 || p.Keyword != "" || p.Type != "" || p.Status != "" {
		t.Errorf("defaults %+v", p)
	}

	s.SetPage(-3)
	if s.Page() != 0 {
		t.Errorf("negative page clamped to %d", s.Page())
	}

	// Resizing the window restarts from the first page.
	s.SetPage(2)
	s.SetSize(50)
	if s.Page() != 0 || s.Params().Size != 50 {
		t.Errorf("after resize: page %d size %d", s.Page(), s.Params().Size)
	}
	s.SetSize(0)
	if s.Params().Size != defaultPageSize {
		t.Errorf("zero size not defaulted: %d", s.Params().Size)
	}
}
