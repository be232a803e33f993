// Copyright (c) 2026 Maria. All rights reserved.

// Authentication and authorization middleware.
//
// The server carries two parallel identity mechanisms:
//
//   - Browser sessions: an opaque cookie resolved against Redis on every
//     request ([Sessions]). Used by the server-rendered pages and the admin
//     back office. Guarded by [RequireUser] and [RequireAdmin], which redirect
//     to the login page rather than answering with a JSON error.
//   - API bearer tokens: stateless JWTs on the /api/v1 surface
//     ([Authenticate] + [RequireAuth]).
//
// Both mechanisms may be active on the same request; handlers read whichever
// identity their surface uses via ctxutil.

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
	"github.com/lelipitri23-dev/Maria/internal/platform/ctxutil"
	"github.com/lelipitri23-dev/Maria/internal/platform/respond"
	"github.com/lelipitri23-dev/Maria/internal/platform/sec"
	"github.com/lelipitri23-dev/Maria/internal/platform/session"
)

// TokenVerifier defines the interface needed to verify bearer tokens.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// SessionLoader resolves a session cookie value to a live session record.
// Satisfied by [*session.Store]; mocked in tests.
type SessionLoader interface {
	Get(ctx context.Context, id string) (*session.Session, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, parse and verify the JWT via [TokenVerifier].
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithAuthUser(request.Context(), claims)))
		})
	}
}

// RequireAuth blocks API requests that do not carry a valid bearer token.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// Sessions resolves the browser session cookie into a [*session.Session] and
// injects it into the request context.
//
// # Flow
//  1. No cookie: proceed anonymous.
//  2. Cookie present but the record is gone (expired or logged out): clear
//     the stale cookie and proceed anonymous.
//  3. Store outage: proceed anonymous rather than failing the whole page.
func Sessions(store SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sessionID := session.FromRequest(request)
			if sessionID == "" {
				next.ServeHTTP(writer, request)
				return
			}

			record, err := store.Get(request.Context(), sessionID)
			if err != nil {
				if errors.Is(err, session.ErrNotFound) {
					session.ClearCookie(writer)
				} else {
					ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
						"session_lookup_failed", "error", err.Error())
				}
				next.ServeHTTP(writer, request)
				return
			}

			next.ServeHTTP(writer, request.WithContext(ctxutil.WithSession(request.Context(), record)))
		})
	}
}

// RequireUser redirects anonymous visitors to the login page.
//
// Used on browser-facing routes (bookmarks page, account actions); API routes
// use [RequireAuth] instead.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetSession(request.Context()) == nil {
			redirectToLogin(writer, request)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin guards the admin back office.
//
// # Flow
//  1. Anonymous: redirect to the login page.
//  2. Logged in but not an operator: HTTP 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		record := ctxutil.GetSession(request.Context())
		if record == nil {
			redirectToLogin(writer, request)
			return
		}
		if !record.IsAdmin {
			respond.Error(writer, request, apperr.Forbidden("Operator access required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RefererGate rejects requests whose Referer header does not point back at the
// site itself. It protects a handful of feed endpoints from trivial scraping.
//
// This is a speed bump, not a security boundary: the header is client-supplied.
func RefererGate(siteURL string) func(http.Handler) http.Handler {
	siteHost := hostOf(siteURL)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			referer := request.Header.Get(constants.HeaderReferer)
			if referer == "" || hostOf(referer) != siteHost {
				writeError(writer, http.StatusForbidden, "FORBIDDEN", "Direct access not allowed")
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// redirectToLogin sends the browser to the login page, carrying the original
// path so the login handler can bounce the user back after authentication.
func redirectToLogin(writer http.ResponseWriter, request *http.Request) {
	target := "/login"
	if request.URL.Path != "" && request.URL.Path != "/login" {
		target += "?next=" + url.QueryEscape(request.URL.RequestURI())
	}
	http.Redirect(writer, request, target, http.StatusFound)
}

// hostOf extracts the lowercase host (without port semantics changes) from a URL string.
func hostOf(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Host)
}
