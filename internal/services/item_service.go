package services

import (
	"stockroom/internal/domain"
	"stockroom/internal/repos"
)

type ItemService struct {
	Items *repos.ItemRepo
}

func NewItemService(items *repos.ItemRepo) *ItemService {
	return &ItemService{Items: items}
}

// ListResult is one page of items plus the metadata handlers echo back.
type ListResult struct {
	Items      []domain.Item
	Page       int
	PerPage    int
	TotalItems int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// List clamps pagination before hitting the store: page below 1 becomes 1,
// per_page at or below 0 falls back to the default 10, anything above 100
// is capped at 100.
func (s *ItemService) List(page, perPage int, category, search, sortBy, sortOrder string) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage

	items, total, err := s.Items.List(repos.ListFilter{
		Category:  category,
		Search:    search,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Limit:     perPage,
		Offset:    offset,
	})
	if err != nil {
		return ListResult{}, err
	}

	totalPages := (total + perPage - 1) / perPage
	return ListResult{
		Items:      items,
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

func (s *ItemService) Get(id int64) (domain.Item, error) {
	return s.Items.Get(id)
}

func (s *ItemService) Create(c domain.ItemChange) (domain.Item, error) {
	return s.Items.Create(c)
}

func (s *ItemService) Update(id int64, c domain.ItemChange) (domain.Item, error) {
	return s.Items.Update(id, c)
}

func (s *ItemService) Delete(id int64) error {
	return s.Items.Delete(id)
}

func (s *ItemService) Categories() ([]string, error) {
	return s.Items.Categories()
}

func (s *ItemService) Ping() error {
	return s.Items.Ping()
}
