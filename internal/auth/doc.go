// Package auth provides authentication and authorization for the HTTP API.
//
// It covers user registration and credential verification (bcrypt), the
// signed access/refresh token pair issued at login (HS256 JWT), server-side
// sessions (scs over SQLite), and the Gin middleware that resolves the
// requester's identity and role for downstream handlers.
//
// Authentication order for protected routes: Bearer access token first,
// then session cookie. Role checks always read the user's profile role.
package auth
