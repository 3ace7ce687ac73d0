package domain

import (
	"math"
	"strconv"
	"strings"
)

// MaxPageSize bounds the number of posts a single listing returns.
const MaxPageSize = 100

// PageQuery is the raw page/size pair as received from a client.
type PageQuery struct {
	Page string
	Size string
}

// PageRequest is a validated, zero-based page.
type PageRequest struct {
	Page int
	Size int
}

func NewPageQuery(page, size int) PageQuery {
	return PageQuery{Page: strconv.Itoa(page), Size: strconv.Itoa(size)}
}

// Parse validates the raw values: page must be an integer >= 0, size an
// integer in (0, MaxPageSize], and page*size must fit in an int.
func (q PageQuery) Parse() (PageRequest, error) {
	rawPage := strings.TrimSpace(q.Page)
	if rawPage == "" {
		return PageRequest{}, NewValidationError(EntityPost, "page", "", "Post page is empty")
	}
	page, err := strconv.Atoi(rawPage)
	if err != nil {
		return PageRequest{}, NewValidationError(EntityPost, "page", rawPage, "Page must be a number")
	}
	if page < 0 {
		return PageRequest{}, NewValidationError(EntityPost, "page", rawPage, "Page cannot be negative")
	}

	rawSize := strings.TrimSpace(q.Size)
	size, err := strconv.Atoi(rawSize)
	if rawSize == "" || err != nil {
		return PageRequest{}, NewValidationError(EntityPost, "size", rawSize, "Post size must be a number")
	}
	if size <= 0 {
		return PageRequest{}, NewValidationError(EntityPost, "size", rawSize, "Size must be greater than 0")
	}
	if size > MaxPageSize {
		return PageRequest{}, NewValidationError(EntityPost, "size", rawSize, "Size is too large")
	}
	if page > math.MaxInt/size {
		return PageRequest{}, NewValidationError(EntityPost, "page", rawPage, "Page is too large")
	}
	return PageRequest{Page: page, Size: size}, nil
}

func (r PageRequest) Offset() int { return r.Page * r.Size }

// EndPage returns the last valid zero-based page index for total items.
func EndPage(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total - 1) / int64(size))
}
