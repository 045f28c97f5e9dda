package common

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
)

const defaultPageSize = 6

// Page is the envelope returned by every paginated list endpoint.
type Page struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// PageParams reads the page number and page size from the request.
// The "limit" query param overrides the configured page size.
func PageParams(c *gin.Context) (page int, limit int) {
	page = 1
	if p, err := strconv.Atoi(c.Query("page")); err == nil && p > 0 {
		page = p
	}

	limit = defaultPageSize
	if env := os.Getenv("PAGE_SIZE"); env != "" {
		if s, err := strconv.Atoi(env); err == nil && s > 0 {
			limit = s
		}
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	return page, limit
}

// NewPage builds the pagination envelope with absolute next/previous links.
func NewPage(c *gin.Context, count int64, page, limit int, results interface{}) Page {
	p := Page{Count: count, Results: results}

	if int64(page*limit) < count {
		url := pageURL(c, page+1)
		p.Next = &url
	}
	if page > 1 {
		url := pageURL(c, page-1)
		p.Previous = &url
	}

	return p
}

func pageURL(c *gin.Context, page int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, u.RequestURI())
}
