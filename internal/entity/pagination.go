package entity

type PaginationInput struct {
	Limit  int
	Offset int
}

func NewPaginationInput(limit int, offset int) *PaginationInput {
	return &PaginationInput{
		Limit:  limit,
		Offset: offset,
	}
}

// NewPagePaginationInput converts a 1-based page number into an offset.
func NewPagePaginationInput(page int, limit int) *PaginationInput {
	if page < 1 {
		page = 1
	}

	return NewPaginationInput(limit, (page-1)*limit)
}

type PaginationOutputModel struct {
	CurrentPage  int  `json:"currentPage"`
	TotalPages   int  `json:"totalPages"`
	TotalItems   int  `json:"totalItems"`
	ItemsPerPage int  `json:"itemsPerPage"`
	HasNextPage  bool `json:"hasNextPage"`
	HasPrevPage  bool `json:"hasPrevPage"`
}

func NewPaginationOutputModel(pg *PaginationInput, totalItems int) PaginationOutputModel {
	totalPages := 0
	if pg.Limit > 0 {
		totalPages = (totalItems + pg.Limit - 1) / pg.Limit
	}
	currentPage := 1
	if pg.Limit > 0 {
		currentPage = pg.Offset/pg.Limit + 1
	}

	return PaginationOutputModel{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalItems:   totalItems,
		ItemsPerPage: pg.Limit,
		HasNextPage:  currentPage < totalPages,
		HasPrevPage:  currentPage > 1,
	}
}
