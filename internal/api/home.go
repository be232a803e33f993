// Copyright (c) 2026 Maria. All rights reserved.

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lelipitri23-dev/Maria/internal/core/anime"
	"github.com/lelipitri23-dev/Maria/internal/core/episode"
	"github.com/lelipitri23-dev/Maria/internal/platform/respond"
	"github.com/lelipitri23-dev/Maria/pkg/pagination"
)

// latestSeriesLimit caps the "new series" strip on the home feed.
const latestSeriesLimit = 10

// FeedHandler serves the composite feeds that cut across anime and
// episodes: the home page document and the gated discovery feeds.
type FeedHandler struct {
	anime    *anime.Service
	episodes *episode.Service
}

func NewFeedHandler(animeService *anime.Service, episodeService *episode.Service) *FeedHandler {
	return &FeedHandler{anime: animeService, episodes: episodeService}
}

// Home combines the paginated latest-episode feed with a strip of the
// newest series. The episode feed drives the pagination metadata.
func (handler *FeedHandler) Home(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	episodes, meta, err := handler.episodes.Latest(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	series, _, err := handler.anime.List(request.Context(), anime.Filter{Order: anime.OrderLatest},
		pagination.Params{Page: 1, Limit: latestSeriesLimit})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		"data": map[string]any{
			"episodes": episodes,
			"series":   series,
		},
		"meta": meta,
	})
}

// Popular lists the catalogue by view count.
func (handler *FeedHandler) Popular(writer http.ResponseWriter, request *http.Request) {
	handler.listing(writer, request, anime.Filter{Order: anime.OrderPopular})
}

// CurrentYear lists this year's releases.
func (handler *FeedHandler) CurrentYear(writer http.ResponseWriter, request *http.Request) {
	year := strconv.Itoa(time.Now().Year())
	handler.listing(writer, request, anime.Filter{ReleasedYear: year, Order: anime.OrderLatest})
}

// Uncensored lists the uncensored genre feed.
func (handler *FeedHandler) Uncensored(writer http.ResponseWriter, request *http.Request) {
	handler.listing(writer, request, anime.Filter{Genre: "Uncensored"})
}

func (handler *FeedHandler) listing(writer http.ResponseWriter, request *http.Request, filter anime.Filter) {
	entries, meta, err := handler.anime.List(request.Context(), filter, pagination.FromAPIRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, entries, meta)
}
