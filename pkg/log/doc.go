/*
Package log provides structured logging for Tracklet built on zerolog.

Call Init once at startup, then obtain child loggers with WithComponent
and friends. Console output is the default; JSON output is available for
machine consumption.
*/
package log
