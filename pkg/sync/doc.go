/*
Package sync reconciles the local entity cache against the remote
server.

Refreshes replace a collection wholesale, or splice in a scoped
parent's rows without touching siblings. Write-through mutations apply
only server-confirmed objects. A failed refresh leaves the previous
cache contents intact and returns the error; whether staleness blocks
an action is the session manager's call, not this package's.
*/
package sync
