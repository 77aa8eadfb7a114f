package postgres

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pageLimit(size int) int {
	switch {
	case size <= 0:
		return defaultPageSize
	case size > maxPageSize:
		return maxPageSize
	default:
		return size
	}
}

func pageOffset(page, size int) int {
	if page <= 1 {
		return 0
	}

	return (page - 1) * pageLimit(size)
}
