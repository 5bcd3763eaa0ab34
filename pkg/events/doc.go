/*
Package events provides a channel-based broker for state-change
notifications.

The timer, session manager and cache publish events here instead of
assuming any reactive change detection; the UI boundary subscribes and
re-reads the relevant read-only projection when an event arrives. Slow
subscribers are skipped rather than blocking publishers.
*/
package events
