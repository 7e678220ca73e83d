package store

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// Sort fields accepted by task listings.
const (
	SortByCreatedAt = "created_at"
	SortByPriority  = "priority"
	SortByDueDate   = "due_date"
)

// Sort directions accepted by task listings.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// Pagination bounds for task listings.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// TaskListQuery describes a paginated, sorted, optionally filtered task
// listing request. The zero value is not valid; use Normalize to apply
// defaults and Validate before touching any store or cache.
type TaskListQuery struct {
	// Optional filter predicates. All empty means the request is unfiltered.
	Search      string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	LabelIDs    []uuid.UUID
	OverdueOnly bool

	// Pagination and ordering.
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Normalize fills in defaults for unset pagination and sort parameters.
func (q *TaskListQuery) Normalize() {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.SortBy == "" {
		q.SortBy = SortByCreatedAt
	}
	if q.SortOrder == "" {
		q.SortOrder = SortOrderDesc
	}
}

// Validate checks pagination, sorting and filter values. All failures wrap
// domain.ErrValidation so callers can classify them without string matching.
func (q *TaskListQuery) Validate() error {
	if q.Page < 1 {
		return fmt.Errorf("%w: page must be >= 1", domain.ErrValidation)
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return fmt.Errorf("%w: page size must be between 1 and %d", domain.ErrValidation, MaxPageSize)
	}

	switch q.SortBy {
	case SortByCreatedAt, SortByPriority, SortByDueDate:
	default:
		return fmt.Errorf("%w: unknown sort field %q", domain.ErrValidation, q.SortBy)
	}

	switch q.SortOrder {
	case SortOrderAsc, SortOrderDesc:
	default:
		return fmt.Errorf("%w: unknown sort order %q", domain.ErrValidation, q.SortOrder)
	}

	if q.Status != "" && !q.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, q.Status)
	}
	if q.Priority != "" && !q.Priority.IsValid() {
		return fmt.Errorf("%w: unknown priority %q", domain.ErrValidation, q.Priority)
	}

	return nil
}

// HasFilters reports whether any optional filter predicate is active.
// Requests with filters are never cached.
func (q *TaskListQuery) HasFilters() bool {
	return q.Search != "" ||
		q.Status != "" ||
		q.Priority != "" ||
		len(q.LabelIDs) > 0 ||
		q.OverdueOnly
}

// Offset returns the row offset implied by the page and page size.
func (q *TaskListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
