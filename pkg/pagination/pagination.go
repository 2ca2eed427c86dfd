package pagination

// Page-based pagination. Product listings are filtered and sorted in memory
// (the category filter runs through the taxonomy, which SQL cannot evaluate),
// so pages are windows over the already-filtered slice.

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any page can request.
	MaxLimit = 100
)

// Params holds pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page of a windowed result set.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to at least 1.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Normalize returns params with limit and page clamped to valid ranges.
func (p Params) Normalize() Params {
	return Params{
		Page:  NormalizePage(p.Page),
		Limit: NormalizeLimit(p.Limit),
	}
}

// Offset converts the normalized page/limit into a slice offset.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Window slices [offset, offset+limit) out of total and returns the bounds.
// An out-of-range page yields an empty window rather than an error.
func Window(params Params, total int) (start, end int, meta Meta) {
	n := params.Normalize()
	meta = Meta{
		Page:       n.Page,
		Limit:      n.Limit,
		TotalItems: total,
		TotalPages: (total + n.Limit - 1) / n.Limit,
	}
	start = n.Offset()
	if start >= total {
		return total, total, meta
	}
	end = start + n.Limit
	if end > total {
		end = total
	}
	return start, end, meta
}
