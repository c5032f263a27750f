package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

// Page is an offset/limit window parsed from the query string.
type Page struct {
	Offset int
	Limit  int
}

// ListResponse is the envelope for paginated list endpoints.
type ListResponse[T any] struct {
	Data   []T `json:"data"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// NewListResponse builds a ListResponse, rendering a nil slice as an empty JSON array.
func NewListResponse[T any](items []T, page Page) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Data: items, Offset: page.Offset, Limit: page.Limit}
}

// ParsePagination parses the offset and limit query parameters.
// Defaults are offset=0 and limit=50; limit cannot exceed 100.
func ParsePagination(c *gin.Context) (Page, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return Page{}, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 || limit > maxPageLimit {
		return Page{}, fmt.Errorf("invalid limit parameter: must be between 1 and %d", maxPageLimit)
	}

	return Page{Offset: offset, Limit: limit}, nil
}
