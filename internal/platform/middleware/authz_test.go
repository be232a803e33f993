// Copyright (c) 2026 Maria. All rights reserved.

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lelipitri23-dev/Maria/internal/platform/constants"
	"github.com/lelipitri23-dev/Maria/internal/platform/ctxutil"
	"github.com/lelipitri23-dev/Maria/internal/platform/middleware"
	"github.com/lelipitri23-dev/Maria/internal/platform/session"
)

type fakeSessionStore struct {
	records map[string]*session.Session
	err     error
}

func (store *fakeSessionStore) Get(_ context.Context, id string) (*session.Session, error) {
	if store.err != nil {
		return nil, store.err
	}
	if record, found := store.records[id]; found {
		return record, nil
	}
	return nil, session.ErrNotFound
}

// capture records the session the inner handler observed.
func capture(observed **session.Session) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*observed = ctxutil.GetSession(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func withSessionCookie(request *http.Request, id string) *http.Request {
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: id})
	return request
}

func TestSessions_ResolvesCookie(t *testing.T) {
	store := &fakeSessionStore{records: map[string]*session.Session{
		"live-id": {ID: "live-id", UserID: "user-1", Username: "rin"},
	}}

	var observed *session.Session
	handler := middleware.Sessions(store)(capture(&observed))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, withSessionCookie(httptest.NewRequest("GET", "/", nil), "live-id"))

	require.NotNil(t, observed)
	assert.Equal(t, "user-1", observed.UserID)
}

func TestSessions_StaleCookieIsCleared(t *testing.T) {
	store := &fakeSessionStore{records: map[string]*session.Session{}}

	var observed *session.Session
	handler := middleware.Sessions(store)(capture(&observed))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, withSessionCookie(httptest.NewRequest("GET", "/", nil), "expired-id"))

	assert.Nil(t, observed)
	assert.Equal(t, http.StatusOK, recorder.Code)

	// The stale cookie gets expired on the client.
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

// A store outage degrades to anonymous browsing instead of failing the page.
func TestSessions_StoreOutageProceedsAnonymous(t *testing.T) {
	store := &fakeSessionStore{err: errors.New("connection refused")}

	var observed *session.Session
	handler := middleware.Sessions(store)(capture(&observed))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, withSessionCookie(httptest.NewRequest("GET", "/", nil), "some-id"))

	assert.Nil(t, observed)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireAdmin(next)

	t.Run("anonymous redirects to login", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/admin/stats", nil))

		assert.Equal(t, http.StatusFound, recorder.Code)
		assert.Contains(t, recorder.Header().Get("Location"), "/login?next=")
	})

	t.Run("member gets 403", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/admin/stats", nil)
		request = request.WithContext(ctxutil.WithSession(request.Context(),
			&session.Session{ID: "s", UserID: "user-1", Username: "rin"}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("operator passes", func(t *testing.T) {
		request := httptest.NewRequest("GET", "/admin/stats", nil)
		request = request.WithContext(ctxutil.WithSession(request.Context(),
			&session.Session{ID: "s", UserID: "user-2", Username: "admin", IsAdmin: true}))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestRefererGate(t *testing.T) {
	next := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.RefererGate("https://maria.app")(next)

	testCases := []struct {
		name     string
		referer  string
		expected int
	}{
		{"same origin allowed", "https://maria.app/anime/demo-anime", http.StatusOK},
		{"absent referer rejected", "", http.StatusForbidden},
		{"foreign origin rejected", "https://scraper.example.com/", http.StatusForbidden},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/v1/popular", nil)
			if testCase.referer != "" {
				request.Header.Set(constants.HeaderReferer, testCase.referer)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			assert.Equal(t, testCase.expected, recorder.Code)
		})
	}
}
