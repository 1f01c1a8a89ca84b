package service

import (
	"github.com/hrsaas/transferd/internal/model"
	"github.com/hrsaas/transferd/internal/store"
)

// SearchState tracks a client's list filters across requests. Changing any
// filter jumps back to the first page so the result window never points past
// the narrowed result set; paging alone leaves the filters as they are.
type SearchState struct {
	keyword string
	typ     model.TransferType
	status  model.TransferStatus
	page    int
	size    int
}

const defaultPageSize = 10

func NewSearchState() *SearchState {
	return &SearchState{size: defaultPageSize}
}

func (s *SearchState) SetKeyword(keyword string) {
	if keyword == s.keyword {
		return
	}
	s.keyword = keyword
	s.page = 0
}

func (s *SearchState) SetType(t model.TransferType) {
	if t == s.typ {
		return
	}
	s.typ = t
	s.page = 0
}

func (s *SearchState) SetStatus(status model.TransferStatus) {
	if status == s.status {
		return
	}
	s.status = status
	s.page = 0
}

func (s *SearchState) SetPage(page int) {
	if page < 0 {
		page = 0
	}
	s.page = page
}

func (s *SearchState) SetSize(size int) {
	if size <= 0 {
		size = defaultPageSize
	}
	if size == s.size {
		return
	}
	s.size = size
	s.page = 0
}

func (s *SearchState) Page() int { return s.page }

// Params materializes the current state as list query parameters.
func (s *SearchState) Params() store.ListParams {
	return store.ListParams{
		Keyword: s.keyword,
		Type:    s.typ,
		Status:  s.status,
		Page:    s.page,
		Size:    s.size,
	}
}
