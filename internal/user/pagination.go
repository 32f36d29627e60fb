package user

// PaginationParams selects a page. Page numbers start at 1.
type PaginationParams struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// PaginationResponse is one page of items plus the total item count.
type PaginationResponse[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"total_items"`
}

// Paginate slices all into the page [(page-1)*size, min(page*size, len(all))).
//
// Out-of-range pages, page numbers below 1, and non-positive page sizes yield
// an empty Items slice; TotalItems is always len(all). Items is never nil.
func Paginate[T any](all []T, params PaginationParams) PaginationResponse[T] {
	total := len(all)
	resp := PaginationResponse[T]{Items: []T{}, TotalItems: total}

	if params.Page < 1 || params.PageSize < 1 {
		return resp
	}

	// Guard against overflow for absurd page numbers.
	if params.Page-1 > total/params.PageSize {
		return resp
	}

	start := (params.Page - 1) * params.PageSize
	end := total
	if params.PageSize < total-start {
		end = start + params.PageSize
	}
	if start >= end {
		return resp
	}

	resp.Items = append(resp.Items, all[start:end]...)
	return resp
}
