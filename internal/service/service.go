package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"ministryhub/internal/auth"
	"ministryhub/internal/dto"
	"ministryhub/internal/importer"
	"ministryhub/internal/model"
	"ministryhub/internal/repo"
	"ministryhub/pkg/validator"
)

type Service interface {
	Login(ctx *ginext.Context)
	Logout(ctx *ginext.Context)
	AdminCheck(ctx *ginext.Context)

	GetVideos(ctx *ginext.Context)
	CreateVideo(ctx *ginext.Context)
	UpdateVideo(ctx *ginext.Context)
	DeleteVideo(ctx *ginext.Context)

	GetRegistrations(ctx *ginext.Context)
	CreateRegistration(ctx *ginext.Context)
	UpdateRegistration(ctx *ginext.Context)
	DeleteRegistration(ctx *ginext.Context)

	GetMinistrySettings(ctx *ginext.Context)
	GetMinistrySettingsByType(ctx *ginext.Context)
	UpsertMinistrySettings(ctx *ginext.Context)

	GetPodcastSettings(ctx *ginext.Context)
	UpdatePodcastSettings(ctx *ginext.Context)

	YouTubeStatus(ctx *ginext.Context)
	SyncYouTube(ctx *ginext.Context)

	Seed(ctx *ginext.Context)
}

// Notifier is told about every committed registration. It must not fail the request.
type Notifier interface {
	RegistrationCreated(ctx context.Context, reg model.Registration)
}

type VideoImporter interface {
	Configured() bool
	Propose(ctx context.Context, phrases []string) (*importer.Result, error)
}

type Authenticator interface {
	Configured() bool
	TTL() time.Duration
	Login(ctx context.Context, password string) (string, time.Time, error)
	Validate(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, token string) error
}

type Options struct {
	// Phrases are the YouTube search phrases used by sync.
	Phrases      []string
	CookieSecure bool
}

type service struct {
	repo     repo.Repository
	log      *zerolog.Logger
	notifier Notifier
	importer VideoImporter
	auth     Authenticator
	opts     Options
}

func NewService(
	repo repo.Repository,
	logger *zerolog.Logger,
	notifier Notifier,
	importer VideoImporter,
	authn Authenticator,
	opts Options,
) Service {
	return &service{
		repo:     repo,
		log:      logger,
		notifier: notifier,
		importer: importer,
		auth:     authn,
		opts:     opts,
	}
}

// bind decodes the JSON body into req and validates it, writing the 400 itself.
func (s *service) bind(ctx *ginext.Context, req any) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		s.log.Debug().Err(err).Str("path", ctx.FullPath()).Msg("failed to parse request body")
		dto.BadResponseError(ctx, dto.InvalidJSON)
		return false
	}
	if verr := validator.Validate(ctx.Request.Context(), req); verr != nil {
		dto.FieldIncorrectError(ctx, verr)
		return false
	}
	return true
}

// storeFailure answers 400 for constraint violations and a generic 500 otherwise.
func (s *service) storeFailure(ctx *ginext.Context, err error, msg string) {
	if errors.Is(err, repo.ErrConstraint) {
		dto.BadResponseError(ctx, err.Error())
		return
	}
	s.log.Error().Err(err).Msg(msg)
	dto.InternalServerError(ctx)
}
