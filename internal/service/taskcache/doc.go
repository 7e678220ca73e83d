// Package taskcache implements the read-through cache for task listings.
//
// Only unfiltered listing requests (pagination and sort only) are cached;
// anything with a search/status/priority/label/overdue predicate always goes
// straight to the store. Cached entries hold just the ordered task IDs and
// the total count, and are rehydrated against the store on every hit. The
// cache backend is best-effort throughout: every backend failure degrades to
// a direct store query and never surfaces to the caller.
package taskcache
