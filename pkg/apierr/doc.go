/*
Package apierr defines the error taxonomy shared by the gateway, the
cache synchronizer and the session manager.

Four error kinds cover every failure mode:

  - ConfigurationError: incomplete auth profile, needs user correction
  - ConnectionError: a connect-time probe failed, retryable via connect
  - APIError: non-2xx response (code 0 = transport failure)
  - ValidationError: local precondition failure, never auto-retried

Lower layers never swallow errors; they wrap and return one of these so
the session manager can branch on the kind with errors.As.
*/
package apierr
