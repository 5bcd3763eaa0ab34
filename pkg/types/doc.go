/*
Package types defines the core data structures used throughout Tracklet.

This package contains the fundamental types that represent the tracking
domain model: the customer/project/activity catalog, time entries, tasks,
connection profiles, and the paginated envelope used by the remote API.
These types are used by all other packages for caching, API communication,
and session management.

# Core Types

Catalog:
  - Customer: billing customer, the root of the catalog hierarchy
  - Project: belongs to exactly one customer
  - Activity: belongs to one project, or is global (Project == 0)

Tracking:
  - TimeEntry: a tracked span of time; open while End is nil
  - Task: longer-lived work item with status, priority and accumulated
    actual duration

Connection:
  - Profile: one configured server connection (base URL + credentials)
  - AuthType: token header vs. HTTP Basic, mutually exclusive per profile
  - User, VersionInfo, ServerConfig: connect-time probe payloads

All types are JSON-serializable and shaped to match the remote API's wire
format, so the same structs serve as both cache records and request/response
bodies.
*/
package types
