package service

import (
	"context"
	"errors"

	"github.com/wb-go/wbf/ginext"

	"ministryhub/internal/dto"
	"ministryhub/internal/metrics"
	"ministryhub/internal/repo"
)

func (s *service) GetRegistrations(ctx *ginext.Context) {
	var (
		regs any
		err  error
	)
	if ministryType := ctx.Query("ministryType"); ministryType != "" {
		regs, err = s.repo.GetRegistrationsByMinistry(ctx.Request.Context(), ministryType)
	} else {
		regs, err = s.repo.GetAllRegistrations(ctx.Request.Context())
	}
	if err != nil {
		s.storeFailure(ctx, err, "failed to fetch registrations")
		return
	}
	dto.SuccessResponse(ctx, regs)
}

func (s *service) CreateRegistration(ctx *ginext.Context) {
	var req dto.CreateRegistrationRequest
	if !s.bind(ctx, &req) {
		return
	}

	registration := req.ToModel()
	if err := s.repo.CreateRegistrationTx(ctx.Request.Context(), registration); err != nil {
		s.storeFailure(ctx, err, "failed to create registration")
		return
	}

	metrics.Registrations.WithLabelValues(metrics.MinistryLabel(registration.MinistryType)).Inc()
	s.log.Info().
		Str("registration_id", registration.ID).
		Str("ministry", registration.MinistryType).
		Msg("registration created successfully")

	// The registration is committed; a client disconnect must not abort the notification.
	s.notifier.RegistrationCreated(context.WithoutCancel(ctx.Request.Context()), *registration)

	dto.SuccessCreatedResponse(ctx, registration)
}

func (s *service) UpdateRegistration(ctx *ginext.Context) {
	id := ctx.Param("id")

	var req dto.UpdateRegistrationRequest
	if !s.bind(ctx, &req) {
		return
	}

	reg, err := s.repo.UpdateRegistration(ctx.Request.Context(), id, req.ToPatch())
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.NotFoundError(ctx, dto.RegistrationMissing)
			return
		}
		s.storeFailure(ctx, err, "failed to update registration")
		return
	}

	s.log.Info().Str("registration_id", id).Msg("registration corrected by admin")
	dto.SuccessResponse(ctx, reg)
}

func (s *service) DeleteRegistration(ctx *ginext.Context) {
	id := ctx.Param("id")

	if err := s.repo.DeleteRegistrationTx(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			dto.NotFoundError(ctx, dto.RegistrationMissing)
			return
		}
		s.storeFailure(ctx, err, "failed to delete registration")
		return
	}

	s.log.Info().Str("registration_id", id).Msg("registration deleted")
	dto.NoContentResponse(ctx)
}
