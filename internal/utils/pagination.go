// Package utils provides small helpers shared by the HTTP layer, mainly
// parsing and bounding of list-endpoint query parameters.
package utils

import "strconv"

// AtoiDefault converts s to an int using strconv.Atoi. If the string is
// empty or cannot be parsed as an integer, it returns def instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// ClampPage parses a page query value. Empty, malformed, or non-positive
// input yields page 1.
func ClampPage(s string) int {
	p := AtoiDefault(s, 1)
	if p < 1 {
		return 1
	}
	return p
}

// ClampPageSize parses a page_size query value and bounds the result to
// [1, max]. Empty or malformed input yields def.
func ClampPageSize(s string, def, max int) int {
	n := AtoiDefault(s, def)
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// TotalPages returns how many pages of size pageSize cover total rows.
func TotalPages(total int64, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
