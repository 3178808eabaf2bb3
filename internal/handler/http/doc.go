// Package http implements the HTTP surface served by every worker unit.
//
// It wires the request pipeline (trace id, access logging, the worker pool,
// response compression) and the routes the supervisor owns itself: the
// health check, the version endpoint and the static asset directory. Every
// other request is handed to the opaque application, by default a reverse
// proxy to the configured upstream.
package http
