// Package rpc connects rota pages and clients to the shift backend.
//
// The set of remote procedures is closed: every procedure is a method on
// Backend. Clients (HTTPClient, WSClient) implement Backend by sending a
// JSON envelope to the server; the server side decodes the envelope with a
// Dispatcher and invokes its own Backend.
//
// # Wire format
//
// Request:
//
//	{"id": "3f2a...", "fn": "login", "args": ["alice", "secret"]}
//
// Reply, exactly one of result or error:
//
//	{"id": "3f2a...", "result": {"ok": true, "token": "..."}}
//	{"id": "3f2a...", "error": "rate limit exceeded"}
//
// Application-level rejections (bad credentials, stale token) are results
// with ok=false. Only transport and backend failures use error.
package rpc
