// Copyright (c) 2026 Maria. All rights reserved.

package api

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/lelipitri23-dev/Maria/internal/platform/request"
)

// Legacy URL shapes from the old site generation. Search engines still
// hold them, so each gets a permanent redirect to its canonical route.

var legacyEpisodePattern = regexp.MustCompile(`^(.+)-episode-([0-9]+)-subtitle-indonesia$`)

// RegisterLegacyRedirects mounts 301 redirects for the old URL scheme.
func RegisterLegacyRedirects(router chi.Router) {
	router.Get("/page/{page}", func(writer http.ResponseWriter, request *http.Request) {
		redirect(writer, request, "/home?page="+requestutil.Param(request, "page"))
	})

	router.Get("/anime-list/page/{page}", func(writer http.ResponseWriter, request *http.Request) {
		redirect(writer, request, "/anime-list?page="+requestutil.Param(request, "page"))
	})

	// Paged taxonomy listings: the slug survives, the page moves to the query.
	for _, prefix := range []string{"/genres", "/status", "/type", "/studio", "/year"} {
		prefix := prefix
		router.Get(prefix+"/{slug}/page/{page}", func(writer http.ResponseWriter, request *http.Request) {
			redirect(writer, request,
				prefix+"/"+requestutil.Param(request, "slug")+"?page="+requestutil.Param(request, "page"))
		})
	}

	router.Get("/nonton/{slug}/{number}", func(writer http.ResponseWriter, request *http.Request) {
		redirect(writer, request,
			"/anime/"+requestutil.Param(request, "slug")+"/"+requestutil.Param(request, "number"))
	})

	// "<slug>-episode-<n>-subtitle-indonesia" watch URLs.
	router.Get(`/{legacy:.+-episode-[0-9]+-subtitle-indonesia}`, func(writer http.ResponseWriter, request *http.Request) {
		matches := legacyEpisodePattern.FindStringSubmatch(requestutil.Param(request, "legacy"))
		if matches == nil {
			http.NotFound(writer, request)
			return
		}
		redirect(writer, request, "/anime/"+matches[1]+"/"+matches[2])
	})
}

func redirect(writer http.ResponseWriter, request *http.Request, target string) {
	http.Redirect(writer, request, target, http.StatusMovedPermanently)
}
