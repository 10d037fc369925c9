package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
)

// PaginationParams holds the page window of a list request. A zero value
// means no pagination.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset is the number of rows skipped before the page starts.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Enabled reports whether the params describe a page window.
func (p PaginationParams) Enabled() bool {
	return p.Page > 0 && p.PageSize > 0
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// GetPaginationParams reads page and page_size from the query string.
// Without a page parameter the full list is returned; an out-of-range
// page_size falls back to the default.
func GetPaginationParams(c *gin.Context) PaginationParams {
	if c.Query("page") == "" {
		return PaginationParams{}
	}

	page, _ := strconv.Atoi(c.Query("page"))
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil {
		pageSize = constants.DefaultPageSize
	}

	if page < 1 {
		page = 1
	}
	if pageSize < constants.MinPageSize || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
	}
}

// NewPaginationResponse builds the metadata for a page of total rows. An
// unpaginated list is reported as a single page.
func NewPaginationResponse(params PaginationParams, total int64) PaginationResponse {
	if !params.Enabled() {
		return PaginationResponse{Page: 1, PageSize: int(total), Total: total, TotalPages: 1}
	}

	totalPages := int(total) / params.PageSize
	if int(total)%params.PageSize > 0 {
		totalPages++
	}
	return PaginationResponse{
		Page:       params.Page,
		PageSize:   params.PageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
