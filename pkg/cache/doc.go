/*
Package cache holds the in-memory mirror of the remote entity
collections.

Five collections are cached: customers, projects, activities, recent
time entries and tasks. Each carries a freshness timestamp. Filter
methods are pure projections; a parent id of 0 means "no filter" and
returns the full collection.

The mutation contract:

  - Replace* swaps a whole collection (or a scoped parent's rows)
  - Upsert* applies one server-confirmed record, full replacement by id,
    never a field merge
  - Delete* removes by id
  - Clear empties everything on disconnect

Only server-confirmed objects are written. A failed refresh leaves the
previous contents intact (stale but available).
*/
package cache
