package service

import (
	"errors"
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"ministryhub/internal/auth"
	"ministryhub/internal/dto"
	"ministryhub/internal/repo"
)

func (s *service) Login(ctx *ginext.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.InvalidJSON)
		return
	}

	token, expiresAt, err := s.auth.Login(ctx.Request.Context(), req.Password)
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		s.log.Warn().Msg("admin login attempted but no admin password is configured")
		dto.NotConfiguredError(ctx, dto.AdminNotConfigured)
		return
	case errors.Is(err, auth.ErrInvalidPassword):
		s.log.Info().Str("ip", ctx.ClientIP()).Msg("admin login rejected")
		dto.UnauthorizedError(ctx, dto.InvalidPassword)
		return
	case err != nil:
		s.log.Error().Err(err).Msg("failed to open admin session")
		dto.InternalServerError(ctx)
		return
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(s.auth.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	s.log.Info().Time("expires_at", expiresAt).Msg("admin logged in")
	dto.SuccessResponse(ctx, dto.LoginResponse{Success: true, Message: "Logged in successfully"})
}

func (s *service) Logout(ctx *ginext.Context) {
	if token := auth.TokenFromRequest(ctx.Request); token != "" {
		if err := s.auth.Logout(ctx.Request.Context(), token); err != nil && !errors.Is(err, repo.ErrNotFound) {
			s.log.Warn().Err(err).Msg("failed to delete admin session")
		}
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	dto.SuccessResponse(ctx, dto.LoginResponse{Success: true, Message: "Logged out successfully"})
}

func (s *service) AdminCheck(ctx *ginext.Context) {
	token := auth.TokenFromRequest(ctx.Request)
	if token == "" {
		dto.SuccessResponse(ctx, dto.AdminCheckResponse{IsAuthenticated: false})
		return
	}

	_, err := s.auth.Validate(ctx.Request.Context(), token)
	if err != nil && !errors.Is(err, auth.ErrUnauthorized) {
		s.log.Error().Err(err).Msg("failed to check admin session")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, dto.AdminCheckResponse{IsAuthenticated: err == nil})
}
