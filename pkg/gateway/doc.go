/*
Package gateway wraps request/response exchange with the remote
time-tracking server.

Connect runs three probes in order (version, config, identity); a
failure at any stage aborts the connect and reports which stage failed.
Every subsequent call carries exactly one authentication header: a
bearer token or HTTP Basic credentials, depending on the profile.

Response handling: 2xx with a body decodes into the typed result, 204 or
an empty body is an empty success, non-2xx maps to APIError with the
HTTP status as code (0 is reserved for transport failures). A JSON parse
failure on an error body still produces a best-effort APIError.

The gateway never retries; retry policy belongs to the caller.
*/
package gateway
