// Package backendapi is the HTTP client for the background-check backend
// API. The front end holds no business rules of its own: authentication,
// persistence, payment verification and order state all live behind this
// client.
//
// Unauthenticated operations hang off Client. Authenticated calls go through
// a Session, which binds a Client to one caller's token pair and handles the
// 401-refresh-replay cycle transparently:
//
//	sess := backendapi.NewSession(client, pair, listener)
//	me, err := sess.Me(ctx)
//
// A Session performs at most one refresh per logical call. When the refresh
// token itself is rejected the Session returns ErrSessionExpired and the
// caller is expected to clear the session cookies and send the user back to
// the login page.
package backendapi
