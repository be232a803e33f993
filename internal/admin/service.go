// Copyright (c) 2026 Maria. All rights reserved.

/*
Package admin implements the back-office operations that cut across the
core domains: dashboard statistics, whole-database backup and restore, and
remote mirror ingestion via the third-party video host.
*/
package admin

import (
	"context"
	"encoding/json"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/lelipitri23-dev/Maria/internal/core/episode"
	"github.com/lelipitri23-dev/Maria/internal/platform/apperr"
	"github.com/lelipitri23-dev/Maria/pkg/pointer"
)

// defaultMirrorNames and defaultMirrorQualities are the hosts the bulk
// removal strips when the caller names none.
var (
	defaultMirrorNames     = []string{"Mirror", "Viplay", "EarnVids"}
	defaultMirrorQualities = []string{"480p"}
)

// remoteMirrorName labels mirrors created by remote ingestion.
const remoteMirrorName = "Mirror"

// Counter is any domain service that can report its record total.
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// EpisodeCatalog is the slice of the episode service the admin surface
// drives for mirror maintenance.
type EpisodeCatalog interface {
	AppendMirror(ctx context.Context, id string, mirror episode.Mirror, download *episode.DownloadGroup) (*episode.Episode, error)
	ClearMirrors(ctx context.Context, names, qualities []string) (int64, error)
}

// Stats is the dashboard totals document.
type Stats struct {
	Anime    int `json:"anime"`
	Episodes int `json:"episodes"`
	Accounts int `json:"accounts"`
	Reports  int `json:"reports"`
}

// Service implements the back-office cross-domain operations.
type Service struct {
	animeCount   Counter
	episodeCount Counter
	accountCount Counter
	reportCount  Counter
	episodes     EpisodeCatalog
	dood         *DoodClient
	backup       *BackupStore
}

func NewService(animeCount, episodeCount, accountCount, reportCount Counter, episodes EpisodeCatalog, dood *DoodClient, backup *BackupStore) *Service {
	return &Service{
		animeCount:   animeCount,
		episodeCount: episodeCount,
		accountCount: accountCount,
		reportCount:  reportCount,
		episodes:     episodes,
		dood:         dood,
		backup:       backup,
	}
}

// Stats gathers the per-collection totals concurrently.
func (service *Service) Stats(context context.Context) (*Stats, error) {
	stats := &Stats{}
	group, groupCtx := errgroup.WithContext(context)

	group.Go(func() (err error) { stats.Anime, err = service.animeCount.Count(groupCtx); return })
	group.Go(func() (err error) { stats.Episodes, err = service.episodeCount.Count(groupCtx); return })
	group.Go(func() (err error) { stats.Accounts, err = service.accountCount.Count(groupCtx); return })
	group.Go(func() (err error) { stats.Reports, err = service.reportCount.Count(groupCtx); return })

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// ExportBackup streams the full-database document to the writer.
func (service *Service) ExportBackup(context context.Context, writer io.Writer) error {
	return service.backup.ExportTo(context, writer)
}

// ImportBackup destructively replaces all data with the given document.
func (service *Service) ImportBackup(context context.Context, document map[string]json.RawMessage) error {
	if len(document) == 0 {
		return apperr.ValidationError("Backup document is empty")
	}
	return service.backup.Import(context, document)
}

/*
IngestRemoteMirror uploads the source video to the remote host by URL and
attaches the resulting embed as a streaming mirror, plus a 480p download
group pointing at the host's download page.

Parameters:
  - context: context.Context
  - episodeID: target episode
  - sourceURL: publicly reachable video URL

Returns:
  - *episode.Episode: the updated episode
  - err: validation, upstream, or storage errors
*/
func (service *Service) IngestRemoteMirror(context context.Context, episodeID, sourceURL string) (*episode.Episode, error) {
	if sourceURL == "" {
		return nil, apperr.ValidationError("Source URL is required")
	}

	remote, err := service.dood.RemoteUpload(context, sourceURL)
	if err != nil {
		return nil, err
	}

	mirror := episode.Mirror{Name: remoteMirrorName, URL: remote.EmbedURL}
	download := pointer.To(episode.DownloadGroup{
		Quality: "480p",
		Links: []episode.DownloadLink{
			{Host: remoteMirrorName, URL: remote.DownloadURL},
		},
	})
	return service.episodes.AppendMirror(context, episodeID, mirror, download)
}

// ClearMirrors strips the named mirrors and qualities from every episode,
// falling back to the known host defaults.
func (service *Service) ClearMirrors(context context.Context, names, qualities []string) (int64, error) {
	if len(names) == 0 {
		names = defaultMirrorNames
	}
	if len(qualities) == 0 {
		qualities = defaultMirrorQualities
	}
	return service.episodes.ClearMirrors(context, names, qualities)
}
