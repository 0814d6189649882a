// Package buildCFG turns config.yaml values plus environment overrides into the
// typed configs each component is constructed with.
package buildCFG

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"ministryhub/internal/auth"
	"ministryhub/internal/importer"
	"ministryhub/internal/mailer"
	"ministryhub/internal/notify"
)

// Getter is the read side of the loaded configuration.
type Getter interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
	GetStringSlice(key string) []string
}

var ErrNoDatabase = errors.New("database.dsn (or DATABASE_URL) is required")

const (
	defaultPort           = "5000"
	defaultExchange       = "ministryhub.notifications"
	defaultQueue          = "registration_notifications"
	defaultYouTubeTimeout = 15 * time.Second
)

// DefaultQueries are the search phrases used when youtube.queries is empty.
var DefaultQueries = []string{
	"ministry sermon",
	"worship service",
	"bible teaching",
}

type ServerConfig struct {
	Port         string
	StaticDir    string
	CookieSecure bool
	// CORSOrigins may call the API with credentials. Empty allows any origin
	// without credentials.
	CORSOrigins []string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type YouTubeConfig struct {
	APIKey        string
	BaseURL       string
	Queries       []string
	MaxPerQuery   int
	Timeout       time.Duration
	CategoryRules string
}

// str returns the first non-empty environment variable, else the config key.
func str(cfg Getter, key string, envs ...string) string {
	for _, env := range envs {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(cfg.GetString(key))
}

func BuildServerConfig(cfg Getter, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:         str(cfg, "server.port", "PORT"),
		StaticDir:    str(cfg, "server.static_dir"),
		CookieSecure: cfg.GetBool("server.cookie_secure"),
		CORSOrigins:  corsOrigins(cfg, log),
	}
	if sc.Port == "" {
		log.Warn().Msgf("server.port not set, using %s", defaultPort)
		sc.Port = defaultPort
	}
	return sc
}

// corsOrigins reads CORS_ORIGINS (comma separated) or server.cors_origins and
// keeps only absolute http(s) origins.
func corsOrigins(cfg Getter, log *zerolog.Logger) []string {
	raw := cfg.GetStringSlice("server.cors_origins")
	if env := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); env != "" {
		raw = strings.Split(env, ",")
	}

	origins := make([]string, 0, len(raw))
	for _, o := range raw {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if !strings.HasPrefix(o, "http://") && !strings.HasPrefix(o, "https://") {
			log.Warn().Str("origin", o).Msg("ignoring CORS origin without http(s) scheme")
			continue
		}
		origins = append(origins, o)
	}
	return origins
}

func BuildDBConfig(cfg Getter, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	master := str(cfg, "database.dsn", "DATABASE_URL")
	if master == "" {
		return "", nil, nil, ErrNoDatabase
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: cfg.GetDuration("database.conn_max_lifetime"),
	}
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}

	slaves := cfg.GetStringSlice("database.slaves")
	log.Debug().Int("slaves", len(slaves)).Int("max_open", opts.MaxOpenConns).Msg("database config built")
	return master, slaves, opts, nil
}

func BuildAdminConfig(cfg Getter, log *zerolog.Logger) auth.Config {
	ac := auth.Config{
		Password:      str(cfg, "admin.password", "ADMIN_PASSWORD"),
		SessionSecret: str(cfg, "admin.session_secret", "SESSION_SECRET"),
		TTL:           cfg.GetDuration("admin.session_ttl"),
	}
	if ac.Password == "" {
		log.Warn().Msg("ADMIN_PASSWORD not set, admin login is disabled")
	}
	if ac.SessionSecret == "" {
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}
	return ac
}

func BuildMailConfig(cfg Getter, log *zerolog.Logger) mailer.Config {
	mc := mailer.Config{
		Host:            str(cfg, "mail.host"),
		Port:            cfg.GetInt("mail.port"),
		User:            str(cfg, "mail.user", "GMAIL_USER"),
		Password:        str(cfg, "mail.password", "GMAIL_APP_PASSWORD"),
		OperatorAddress: str(cfg, "mail.operator_address"),
	}
	if mc.User == "" || mc.Password == "" {
		log.Warn().Msg("email credentials not configured, registration notifications are disabled")
	}
	return mc
}

// BuildNotifyTransport returns smtp unless rabbitmq is requested.
func BuildNotifyTransport(cfg Getter, log *zerolog.Logger) string {
	switch t := strings.ToLower(str(cfg, "notify.transport")); t {
	case "", notify.TransportSMTP:
		return notify.TransportSMTP
	case notify.TransportRabbitMQ:
		return notify.TransportRabbitMQ
	default:
		log.Warn().Str("transport", t).Msg("unknown notify.transport, falling back to smtp")
		return notify.TransportSMTP
	}
}

func BuildRabbitConfig(cfg Getter, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      str(cfg, "rabbitmq.url", "RABBITMQ_URL"),
		Exchange: str(cfg, "rabbitmq.exchange"),
		Queue:    str(cfg, "rabbitmq.queue"),
	}
	if rc.Url == "" {
		return rc, errors.New("rabbitmq.url (or RABBITMQ_URL) is required for the rabbitmq transport")
	}
	if rc.Exchange == "" {
		rc.Exchange = defaultExchange
	}
	if rc.Queue == "" {
		rc.Queue = defaultQueue
	}
	log.Debug().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("rabbitmq config built")
	return rc, nil
}

func BuildYouTubeConfig(cfg Getter, log *zerolog.Logger) YouTubeConfig {
	yc := YouTubeConfig{
		APIKey:        str(cfg, "youtube.api_key", "YOUTUBE_API_KEY"),
		BaseURL:       str(cfg, "youtube.base_url"),
		Queries:       cfg.GetStringSlice("youtube.queries"),
		MaxPerQuery:   cfg.GetInt("youtube.max_results_per_query"),
		Timeout:       cfg.GetDuration("youtube.timeout"),
		CategoryRules: str(cfg, "youtube.category_rules"),
	}
	if len(yc.Queries) == 0 {
		yc.Queries = DefaultQueries
	}
	if yc.MaxPerQuery <= 0 {
		yc.MaxPerQuery = importer.DefaultMaxPerQuery
	}
	if yc.Timeout <= 0 {
		yc.Timeout = defaultYouTubeTimeout
	}
	if yc.APIKey == "" {
		log.Warn().Msg("YOUTUBE_API_KEY not set, YouTube sync is disabled")
	}
	return yc
}
