package util

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ClampLimit falls back to DefaultPageSize when size is out of range.
func ClampLimit(size int) int {
	if size <= 0 || size > MaxPageSize {
		return DefaultPageSize
	}
	return size
}

func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
