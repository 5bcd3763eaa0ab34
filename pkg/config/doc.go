/*
Package config loads and validates Tracklet's YAML configuration:
connection profiles (base URL plus token or legacy credentials) and
application settings.

ValidateProfile performs the structural completeness check required
before the gateway opens a connection; it returns a typed
ConfigurationError so callers can distinguish "fix your config" from
network failures.
*/
package config
