// Package server exposes the shift tracker over a JSON HTTP API for the mini app front end.
//
// # Router
//
// [API.Router] builds a chi router with request ids, panic recovery, a per-request deadline
// and structured request logging. Everything under /api passes through the identity middleware.
//
// # Identity
//
// When a bot token is configured every /api request must carry
//
//	Authorization: tma <initData>
//
// where initData is the signed launch payload the messaging host hands to the mini app.
// Without a bot token all requests act as the placeholder user. In both cases the role comes
// from the local store, so toggling the role in the CLI changes what the API allows.
//
// # Routes
//
//	GET  /healthz
//	GET  /api/me
//	GET  /api/stats               operator stats; studio totals for admins
//	GET  /api/shifts              completed shifts, newest first
//	POST /api/shifts              {"platforms": ["Chaturbate", ...]}
//	GET  /api/shifts/active
//	POST /api/shifts/active/end   {"tokens": {"Chaturbate": "300"}}
//	GET  /api/tasks?day=N
//	GET  /api/schedule
//	GET  /api/guides
//	GET  /api/report              admin only; report text and share link
//
// # Errors
//
// Failures use a single envelope, {"error": {"code": "...", "message": "..."}}. Lifecycle
// refusals map to 400 or 409; unexpected failures are logged and reported as 500.
package server
