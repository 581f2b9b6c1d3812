package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/headway-clinic/checkin-api/internal/constants"
)

// PaginationParams holds the pagination parameters for search endpoints.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	offset := (page - 1) * limit

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: offset,
	}
}

// Paginate slices an already-filtered result set. Name matching happens in
// memory, so the usual SQL OFFSET/LIMIT cannot be pushed down.
func Paginate[T any](items []T, params PaginationParams) ([]T, PaginationResponse) {
	meta := PaginationResponse{
		Page:  params.Page,
		Limit: params.Limit,
		Total: int64(len(items)),
	}
	if params.Offset >= len(items) {
		return []T{}, meta
	}
	end := params.Offset + params.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[params.Offset:end], meta
}
