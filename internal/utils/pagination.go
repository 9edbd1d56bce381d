package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/constants"
	"github.com/taskdeck/taskdeck/internal/models"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page  int
	Limit int
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// GetPaginationParams extracts and validates pagination parameters from the
// request. The second return is false when the request asked for no
// pagination at all.
func GetPaginationParams(c *gin.Context) (PaginationParams, bool) {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return PaginationParams{}, false
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPage {
		page = constants.MinPage
	}
	if limit < 1 || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{Page: page, Limit: limit}, true
}

// PaginateTasks slices one page out of the full task list. The remote API
// always returns complete lists, so paging happens here.
func PaginateTasks(tasks []models.Task, params PaginationParams) ([]models.Task, PaginationResponse) {
	meta := PaginationResponse{
		Page:  params.Page,
		Limit: params.Limit,
		Total: len(tasks),
	}

	start := (params.Page - 1) * params.Limit
	if start >= len(tasks) {
		return []models.Task{}, meta
	}

	end := start + params.Limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[start:end], meta
}
