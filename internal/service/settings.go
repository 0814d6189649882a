package service

import (
	"errors"

	"github.com/wb-go/wbf/ginext"

	"ministryhub/internal/dto"
	"ministryhub/internal/model"
	"ministryhub/internal/repo"
)

// GetMinistrySettings lists all settings, or returns one when ?ministryType is set.
func (s *service) GetMinistrySettings(ctx *ginext.Context) {
	if ministryType := ctx.Query("ministryType"); ministryType != "" {
		s.writeSettings(ctx, ministryType)
		return
	}

	settings, err := s.repo.GetAllSettings(ctx.Request.Context())
	if err != nil {
		s.storeFailure(ctx, err, "failed to fetch ministry settings")
		return
	}
	dto.SuccessResponse(ctx, settings)
}

func (s *service) GetMinistrySettingsByType(ctx *ginext.Context) {
	s.writeSettings(ctx, ctx.Param("ministryType"))
}

func (s *service) writeSettings(ctx *ginext.Context, ministryType string) {
	settings, err := s.repo.GetSettings(ctx.Request.Context(), ministryType)
	if err != nil {
		if errors.Is(err, repo.ErrSettingsNotFound) {
			dto.NotFoundError(ctx, dto.SettingsNotFound)
			return
		}
		s.storeFailure(ctx, err, "failed to fetch ministry settings")
		return
	}
	dto.SuccessResponse(ctx, settings)
}

func (s *service) UpsertMinistrySettings(ctx *ginext.Context) {
	var req dto.UpsertSettingsRequest
	if !s.bind(ctx, &req) {
		return
	}

	settings, err := s.repo.UpsertSettings(ctx.Request.Context(), req.ToInput())
	if err != nil {
		s.storeFailure(ctx, err, "failed to update ministry settings")
		return
	}

	s.log.Info().
		Str("ministry", settings.MinistryType).
		Str("status", settings.Status).
		Msg("ministry settings saved")
	dto.SuccessCreatedResponse(ctx, settings)
}

func (s *service) GetPodcastSettings(ctx *ginext.Context) {
	values, err := s.repo.GetSiteSettings(ctx.Request.Context(),
		model.SettingPodcastSpotifyShowID, model.SettingPodcastRSSURL)
	if err != nil {
		s.storeFailure(ctx, err, "failed to fetch podcast settings")
		return
	}
	dto.SuccessResponse(ctx, podcastFrom(values))
}

func (s *service) UpdatePodcastSettings(ctx *ginext.Context) {
	var req dto.PodcastSettingsRequest
	if !s.bind(ctx, &req) {
		return
	}

	values := req.Values()
	if len(values) > 0 {
		if err := s.repo.UpsertSiteSettings(ctx.Request.Context(), values); err != nil {
			s.storeFailure(ctx, err, "failed to update podcast settings")
			return
		}
	}

	current, err := s.repo.GetSiteSettings(ctx.Request.Context(),
		model.SettingPodcastSpotifyShowID, model.SettingPodcastRSSURL)
	if err != nil {
		s.storeFailure(ctx, err, "failed to fetch podcast settings")
		return
	}

	s.log.Info().Int("keys", len(values)).Msg("podcast settings updated")
	dto.SuccessResponse(ctx, podcastFrom(current))
}

// podcastFrom maps stored values to the public shape; empty values read as null.
func podcastFrom(values map[string]string) model.PodcastSettings {
	var out model.PodcastSettings
	if v := values[model.SettingPodcastSpotifyShowID]; v != "" {
		out.SpotifyShowID = &v
	}
	if v := values[model.SettingPodcastRSSURL]; v != "" {
		out.RSSURL = &v
	}
	return out
}
