// Package apiclient is the single entry point for talking to the Course Graph
// backend. It prefixes every path with the backend base URL, sets
// Content-Type: application/json, and copies the locally stored token into
// the Authorization header exactly as stored.
//
// Calls return a *Deferred; the request is only sent when the result is
// awaited or subscribed to:
//
//	resp, err := client.Get("/courses").Await(ctx)
package apiclient
