// Package server serves rota over HTTP: the rendered pages and the RPC
// endpoints they call, backed by a Directory of users and session tokens.
//
// # Endpoints
//
//   - GET /?page=<id> - Rendered page (login when page is absent, 404 if unknown)
//   - POST /rpc - One JSON call per request, see package rpc
//   - GET /rpc/ws - WebSocket carrying the same calls
//   - GET /healthz - Liveness probe
//
// # Authentication
//
// Users come from the config file with argon2id password hashes; register
// adds users in memory. A successful login returns a random 256-bit token
// that expires after server.token_ttl. Login attempts are rate limited per
// client IP, and every call passes a global token bucket.
package server
