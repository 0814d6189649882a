package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/wb-go/wbf/ginext"

	"ministryhub/internal/dto"
	"ministryhub/internal/importer"
	"ministryhub/internal/metrics"
	"ministryhub/internal/model"
)

// ErrAllPhrasesFailed is returned by ImportVideos when no search phrase succeeded.
var ErrAllPhrasesFailed = errors.New("all YouTube searches failed")

// Catalog is the part of the video store the import writes through.
type Catalog interface {
	GetAllVideos(ctx context.Context) ([]model.Video, error)
	CreateVideo(ctx context.Context, v *model.Video) error
}

// ImportVideos runs the importer and inserts every proposal whose videoId is not
// already in the catalog.
func ImportVideos(ctx context.Context, catalog Catalog, imp VideoImporter, phrases []string) (*dto.SyncResponse, error) {
	res, err := imp.Propose(ctx, phrases)
	if err != nil {
		return nil, err
	}

	summary := &dto.SyncResponse{Failures: res.Failures}
	if summary.Failures == nil {
		summary.Failures = []importer.PhraseFailure{}
	}
	if len(phrases) > 0 && len(res.Failures) == len(phrases) {
		return summary, fmt.Errorf("%w: %s", ErrAllPhrasesFailed, res.Failures[0].Error)
	}

	existing, err := catalog.GetAllVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	known := make(map[string]struct{}, len(existing))
	for _, v := range existing {
		known[v.VideoID] = struct{}{}
	}

	for _, p := range res.Proposals {
		if _, ok := known[p.VideoID]; ok {
			summary.Skipped++
			metrics.ImportedVideos.WithLabelValues("skipped").Inc()
			continue
		}

		thumb, duration := p.Thumbnail, p.Duration
		video := &model.Video{
			Title:     p.Title,
			VideoID:   p.VideoID,
			Category:  p.Category,
			Thumbnail: &thumb,
			Duration:  &duration,
			Views:     p.Views,
		}
		if err := catalog.CreateVideo(ctx, video); err != nil {
			return nil, fmt.Errorf("insert video %s: %w", p.VideoID, err)
		}
		known[p.VideoID] = struct{}{}
		summary.Added++
		metrics.ImportedVideos.WithLabelValues("added").Inc()
	}
	return summary, nil
}

func (s *service) YouTubeStatus(ctx *ginext.Context) {
	resp := dto.YouTubeStatusResponse{Configured: s.importer.Configured()}
	if resp.Configured {
		resp.Message = "YouTube API is configured"
	} else {
		resp.Message = importer.ErrNotConfigured.Error()
	}
	dto.SuccessResponse(ctx, resp)
}

func (s *service) SyncYouTube(ctx *ginext.Context) {
	summary, err := ImportVideos(ctx.Request.Context(), s.repo, s.importer, s.opts.Phrases)
	switch {
	case errors.Is(err, importer.ErrNotConfigured):
		dto.NotConfiguredError(ctx, err.Error())
		return
	case errors.Is(err, ErrAllPhrasesFailed):
		s.log.Error().Err(err).Int("phrases", len(s.opts.Phrases)).Msg("YouTube sync failed")
		dto.UpstreamError(ctx, dto.YouTubeUnavailable)
		return
	case err != nil:
		s.log.Error().Err(err).Msg("failed to sync YouTube videos")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().
		Int("added", summary.Added).
		Int("skipped", summary.Skipped).
		Int("failures", len(summary.Failures)).
		Msg("YouTube sync finished")
	dto.SuccessResponse(ctx, summary)
}
