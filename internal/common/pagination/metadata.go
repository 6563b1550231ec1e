package pagination

// Metadata is what the templates need to render a pager.
type Metadata struct {
	Total      int64
	Page       int
	Limit      int
	TotalPages int
	HasPrev    bool
	HasNext    bool
}

// NewMetadata builds the metadata of params for a listing of total items.
// A page past the end keeps its number and reports no next page.
func NewMetadata(params Params, total int64) Metadata {
	totalPages := CalculateTotalPages(total, params.Limit)
	return Metadata{
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
		HasPrev:    params.Page > 1,
		HasNext:    params.Page < totalPages,
	}
}

// PrevPage is the page before the current one, never below 1.
func (m Metadata) PrevPage() int {
	if m.Page <= 1 {
		return 1
	}
	return m.Page - 1
}

// NextPage is the page after the current one.
func (m Metadata) NextPage() int {
	return m.Page + 1
}

// Pages lists every page number from 1 to TotalPages.
func (m Metadata) Pages() []int {
	pages := make([]int, m.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}
