package pagination

// Page-number pagination matching the upstream catalog contract: pages start
// at 1 and responses carry the last page number so clients can stop paging.

const (
	// DefaultPageSize is the standard page size when a size is not provided.
	DefaultPageSize = 24
	// MaxPageSize caps how many rows any page can request.
	MaxPageSize = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page int
	Size int
}

// NormalizePage clamps the requested page to a minimum of 1.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// NormalizeSize enforces the configured default and maximum page sizes.
func NormalizeSize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// LastPage computes the final page number for a total row count.
// An empty collection still has one (empty) page.
func LastPage(total, size int) int {
	size = NormalizeSize(size)
	if total <= 0 {
		return 1
	}
	last := total / size
	if total%size != 0 {
		last++
	}
	return last
}

// Bounds returns the half-open [start, end) slice window for a page.
func Bounds(total int, p Params) (start, end int) {
	page := NormalizePage(p.Page)
	size := NormalizeSize(p.Size)
	start = (page - 1) * size
	if start > total {
		start = total
	}
	end = start + size
	if end > total {
		end = total
	}
	return start, end
}
