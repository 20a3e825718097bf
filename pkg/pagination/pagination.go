package pagination

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many entries any listing can request.
	MaxLimit = 100
)

// Params holds listing inputs from controllers.
type Params struct {
	Limit  int
	Offset int
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

// NormalizeOffset floors negative offsets to zero.
func NormalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// Window clips [offset, offset+limit) to a collection of the given length
// and returns the slice bounds.
func Window(length int, p Params) (start, end int) {
	start = NormalizeOffset(p.Offset)
	if start > length {
		start = length
	}
	end = start + NormalizeLimit(p.Limit)
	if end > length {
		end = length
	}
	return start, end
}
