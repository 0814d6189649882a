package service

import (
	"errors"

	"github.com/wb-go/wbf/ginext"

	"ministryhub/internal/dto"
	"ministryhub/internal/repo"
)

func (s *service) GetVideos(ctx *ginext.Context) {
	videos, err := s.repo.GetAllVideos(ctx.Request.Context())
	if err != nil {
		s.storeFailure(ctx, err, "failed to fetch videos")
		return
	}
	dto.SuccessResponse(ctx, videos)
}

func (s *service) CreateVideo(ctx *ginext.Context) {
	var req dto.CreateVideoRequest
	if !s.bind(ctx, &req) {
		return
	}

	video := req.ToModel()
	if err := s.repo.CreateVideo(ctx.Request.Context(), video); err != nil {
		s.storeFailure(ctx, err, "failed to create video")
		return
	}

	s.log.Info().Str("video_id", video.ID).Str("youtube_id", video.VideoID).Msg("video created successfully")
	dto.SuccessCreatedResponse(ctx, video)
}

func (s *service) UpdateVideo(ctx *ginext.Context) {
	id := ctx.Param("id")

	var req dto.UpdateVideoRequest
	if !s.bind(ctx, &req) {
		return
	}

	video, err := s.repo.UpdateVideo(ctx.Request.Context(), id, req.ToPatch())
	if err != nil {
		if errors.Is(err, repo.ErrVideoNotFound) {
			dto.NotFoundError(ctx, dto.VideoNotFound)
			return
		}
		s.storeFailure(ctx, err, "failed to update video")
		return
	}

	s.log.Info().Str("video_id", id).Msg("video updated")
	dto.SuccessResponse(ctx, video)
}

func (s *service) DeleteVideo(ctx *ginext.Context) {
	id := ctx.Param("id")

	if err := s.repo.DeleteVideo(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrVideoNotFound) {
			dto.NotFoundError(ctx, dto.VideoNotFound)
			return
		}
		s.storeFailure(ctx, err, "failed to delete video")
		return
	}

	s.log.Info().Str("video_id", id).Msg("video deleted")
	dto.NoContentResponse(ctx)
}
