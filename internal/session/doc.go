// Package session implements the client side of a rota session.
//
// A Bridge lives for one loaded page. It starts from the token cached in a
// Store, confirms it with the backend on Boot, stores a fresh token after
// Login, and hands control to the next page through a Navigator. Navigation
// ends the Bridge: a new page gets a new Bridge.
//
// The token moves through three states:
//
//	absent --login ok--> stored --validate not ok--> absent
//	absent <--cached on disk/localStorage-- stored
//
// The Store is the only state shared between Bridge instances.
package session
