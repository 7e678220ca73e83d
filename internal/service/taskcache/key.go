package taskcache

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/store"
)

// Key returns the deterministic cache key for an owner's listing request.
// Two requests with identical owner, pagination and sort parameters map to
// the same key; any parameter difference yields a different key. Filter
// predicates are absent because filtered requests are never cached.
func Key(ownerID uuid.UUID, q store.TaskListQuery) string {
	return fmt.Sprintf("tasks:user:%s:page:%d:size:%d:sort:%s:%s",
		ownerID, q.Page, q.PageSize, q.SortBy, q.SortOrder)
}

// OwnerPrefix returns the key prefix shared by every cached listing of the
// given owner. Invalidation deletes exactly this prefix, so one owner's
// invalidation can never touch another owner's entries.
func OwnerPrefix(ownerID uuid.UUID) string {
	return fmt.Sprintf("tasks:user:%s:", ownerID)
}
