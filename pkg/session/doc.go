/*
Package session orchestrates the timer, the gateway and the cache.

The manager owns the session state: the connection profile, and the
optional current time entry and current task bindings. User intents
(start/stop tracking, start/stop a task) become the combination of
timer transitions, gateway calls and cache updates needed to keep local
and remote state coherent.

Key rules:

  - Local preconditions are checked against the cache before any remote
    call; failures are ValidationErrors, never retried automatically.
  - A failed stop leaves the timer running so elapsed time is not lost;
    retry is the caller re-invoking the intent.
  - A second start/stop for the same binding while one is in flight is
    an idempotent no-op.
  - Session state is persisted on every bind/unbind transition; after a
    restart the timer is always forced back to idle.
*/
package session
