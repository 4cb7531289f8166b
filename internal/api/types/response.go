// internal/api/types/response.go
package types

// PaginatedResponse defines a generic structure for paginated API responses.
// T represents the type of data contained in the 'Data' slice.
type PaginatedResponse[T any] struct {
	Data       []T   `json:"data"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	TotalCount int64 `json:"total_count"`
}

// NewPaginatedResponse maps items through view and wraps them with paging info.
func NewPaginatedResponse[S, T any](items []S, view func(S) T, limit, offset int, total int64) PaginatedResponse[T] {
	data := make([]T, 0, len(items))
	for _, item := range items {
		data = append(data, view(item))
	}
	return PaginatedResponse[T]{Data: data, Limit: limit, Offset: offset, TotalCount: total}
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
