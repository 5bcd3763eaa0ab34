/*
Package timer implements the tracking timer as a pure state machine:

	idle -> running -> {paused, stopped}
	paused -> {running, stopped}
	stopped -> idle (via Reset)

Transitions attempted from an illegal source state return false and
leave the state unchanged. The tracked total sums running segments only;
paused intervals are excluded. A periodic ticker re-derives the
display-facing elapsed value while running and publishes it as an event,
without mutating the machine.

The timer has no notion of what is being timed; binding an entry or task
to it is the session manager's job.
*/
package timer
