// Copyright (c) 2026 Maria. All rights reserved.

package auth

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	requestutil "github.com/lelipitri23-dev/Maria/internal/platform/request"
	"github.com/lelipitri23-dev/Maria/internal/platform/respond"
	"github.com/lelipitri23-dev/Maria/internal/platform/session"
)

// Handler exposes the browser form flows and the JSON login endpoint.
type Handler struct {
	service      *Service
	secureCookie bool
}

// NewHandler creates the auth handler. secureCookie should be true whenever
// the site is served over HTTPS.
func NewHandler(service *Service, secureCookie bool) *Handler {
	return &Handler{service: service, secureCookie: secureCookie}
}

// RegisterBrowserRoutes mounts the form-post flows. Failures redirect back
// to the form with the message in the query string; there is no JSON body
// on this surface.
func (handler *Handler) RegisterBrowserRoutes(router chi.Router) {
	router.Post("/register", handler.registerForm)
	router.Post("/login", handler.loginForm)
	router.Post("/logout", handler.logout)
	router.Get("/logout", handler.logout)
}

// RegisterAPIRoutes mounts the bearer-token login for mobile clients.
func (handler *Handler) RegisterAPIRoutes(router chi.Router) {
	router.Post("/auth/register", handler.registerAPI)
	router.Post("/auth/login", handler.loginAPI)
}

// # Browser Flows

func (handler *Handler) registerForm(writer http.ResponseWriter, request *http.Request) {
	input := RegisterInput{
		Username: request.PostFormValue(FieldUsername),
		Password: request.PostFormValue(FieldPassword),
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		redirectWithError(writer, request, "/register", err)
		return
	}

	handler.openSession(writer, request, user, "/")
}

func (handler *Handler) loginForm(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.service.Login(request.Context(),
		request.PostFormValue(FieldUsername), request.PostFormValue(FieldPassword))
	if err != nil {
		redirectWithError(writer, request, "/login", err)
		return
	}

	destination := request.PostFormValue("next")
	if destination == "" || destination[0] != '/' {
		destination = "/"
	}
	handler.openSession(writer, request, user, destination)
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if id := session.FromRequest(request); id != "" {
		_ = handler.service.EndSession(request.Context(), id)
	}
	session.ClearCookie(writer)
	http.Redirect(writer, request, "/", http.StatusFound)
}

// openSession persists the session, sets the cookie, and redirects. A
// session-store failure after successful authentication is surfaced the
// same way as a login failure.
func (handler *Handler) openSession(writer http.ResponseWriter, request *http.Request, user *User, destination string) {
	record, err := handler.service.StartSession(request.Context(), user)
	if err != nil {
		redirectWithError(writer, request, "/login", apperr.ServiceUnavailable("Could not open a session, try again"))
		return
	}

	session.SetCookie(writer, record, handler.secureCookie)
	http.Redirect(writer, request, destination, http.StatusFound)
}

func redirectWithError(writer http.ResponseWriter, request *http.Request, formPath string, err error) {
	message := "Something went wrong"
	if appError := apperr.As(err); appError != nil {
		message = appError.Message
	}
	http.Redirect(writer, request, formPath+"?error="+url.QueryEscape(message), http.StatusFound)
}

// # API Flow

type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (handler *Handler) registerAPI(writer http.ResponseWriter, request *http.Request) {
	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

func (handler *Handler) loginAPI(writer http.ResponseWriter, request *http.Request) {
	var payload credentialsPayload
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	apiSession, err := handler.service.LoginAPI(request.Context(), payload.Username, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, apiSession)
}
