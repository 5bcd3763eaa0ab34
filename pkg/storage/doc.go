/*
Package storage persists Tracklet's durable documents in a local BoltDB
database.

Four independently keyed JSON documents are stored, one per bucket:

  - session: the session manager's snapshot (bindings, profile)
  - timer: the timer's counter snapshot
  - history: derived aggregate totals
  - settings: the application settings document

Writes to different documents are not transactional with each other;
each caller owns exactly one document and tolerates partial-write
interleaving across keys.
*/
package storage
