// Package restclient talks to the REST server an experiment exposes on
// localhost.
//
// Requests carry an X-Request-ID header so a single expctl invocation can be
// traced through the server's own logs. Transport failures are returned as
// errors; callers decide whether a non-200 response is fatal with
// IsResponseOK.
package restclient
