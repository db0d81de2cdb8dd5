package model

// Page is the pagination envelope for list responses.
type Page[T any] struct {
	Content       []T   `json:"content"`
	CurrentPage   int   `json:"currentPage"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	PageSize      int   `json:"pageSize"`
}

// NewPage assembles a page from a slice and the total row count.
func NewPage[T any](content []T, pageNumber, pageSize int, total int64) Page[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Content:       content,
		CurrentPage:   pageNumber,
		TotalPages:    totalPages,
		TotalElements: total,
		PageSize:      pageSize,
	}
}
