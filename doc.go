// Package gatekeeper provides a stateless, token-based authentication and
// authorization layer for HTTP APIs: signed bearer tokens issued at login,
// verified on every request, with the caller identity and authority set
// reconstructed from claims instead of server-side sessions.
//
// Token codec:
//   - TokenService issues and verifies compact HMAC-SHA-512 signed tokens
//     carrying issuer, audience, subject, timing claims, and a custom
//     authorities array. Signature and issuer checks (Verify) are kept
//     separate from expiry (IsExpired) so callers can distinguish forged
//     tokens from stale ones; IsValid combines both.
//
// Login throttling:
//   - LoginAttemptTracker is a bounded in-memory failure counter with a
//     sliding TTL per username. Hooks fired on authentication success and
//     failure keep it current; identity verification consults it to lock
//     accounts after repeated failures.
//
// Request pipeline:
//   - middleware/tokenware intercepts each request, validates any bearer
//     token, and installs a Principal into the request context. It never
//     rejects a request itself: downstream Guard handlers produce the
//     uniform JSON error bodies via Responder when an anonymous or
//     under-privileged caller hits a protected route.
package gatekeeper
