package dto

import (
	"net/http"

	"github.com/wb-go/wbf/ginext"

	"ministryhub/internal/importer"
)

const (
	InternalError        = "Service is currently unavailable. Please try again later."
	InvalidJSON          = "Invalid JSON format"
	AdminRequired        = "Unauthorized - Admin login required"
	VideoNotFound        = "Video not found"
	RegistrationMissing  = "Registration not found"
	SettingsNotFound     = "Ministry settings not found"
	InvalidPassword      = "Invalid password"
	AdminNotConfigured   = "Admin access is not configured"
	YouTubeNotConfigured = "YouTube API key not configured"
	YouTubeUnavailable   = "YouTube API request failed"
)

type Response struct {
	Error string `json:"error"`
}

type LoginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type AdminCheckResponse struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

type YouTubeStatusResponse struct {
	Configured bool   `json:"configured"`
	Message    string `json:"message"`
}

type SyncResponse struct {
	Added    int                      `json:"added"`
	Skipped  int                      `json:"skipped"`
	Failures []importer.PhraseFailure `json:"failures"`
}

type SeedResponse struct {
	Message         string `json:"message"`
	Count           int    `json:"count,omitempty"`
	VideosCreated   int    `json:"videosCreated,omitempty"`
	SettingsCreated int    `json:"settingsCreated,omitempty"`
}

func ErrorResponse(c *ginext.Context, status int, desc string) {
	c.AbortWithStatusJSON(status, Response{Error: desc})
}

func BadResponseError(c *ginext.Context, desc string) {
	ErrorResponse(c, http.StatusBadRequest, desc)
}

func FieldIncorrectError(c *ginext.Context, err error) {
	BadResponseError(c, err.Error())
}

func UnauthorizedError(c *ginext.Context, desc string) {
	ErrorResponse(c, http.StatusUnauthorized, desc)
}

func NotFoundError(c *ginext.Context, desc string) {
	ErrorResponse(c, http.StatusNotFound, desc)
}

func InternalServerError(c *ginext.Context) {
	ErrorResponse(c, http.StatusInternalServerError, InternalError)
}

func NotConfiguredError(c *ginext.Context, desc string) {
	ErrorResponse(c, http.StatusServiceUnavailable, desc)
}

func UpstreamError(c *ginext.Context, desc string) {
	ErrorResponse(c, http.StatusBadGateway, desc)
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

func NoContentResponse(c *ginext.Context) {
	c.Status(http.StatusNoContent)
}
