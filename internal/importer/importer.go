// Package importer proposes catalog entries from YouTube search results.
package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"ministryhub/internal/metrics"
	"ministryhub/internal/youtube"
)

const DefaultMaxPerQuery = 25

var ErrNotConfigured = errors.New("YouTube API key not configured. Please add YOUTUBE_API_KEY to your secrets")

// Source is the subset of the YouTube client the importer needs.
type Source interface {
	Configured() bool
	Search(ctx context.Context, query, pageToken string, maxResults int) (*youtube.SearchPage, error)
	Details(ctx context.Context, ids []string) (map[string]youtube.Details, error)
}

type Proposal struct {
	Title     string `json:"title"`
	VideoID   string `json:"videoId"`
	Category  string `json:"category"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"`
	Views     string `json:"views"`
}

type PhraseFailure struct {
	Phrase string `json:"phrase"`
	Error  string `json:"error"`
}

type Result struct {
	Proposals []Proposal
	Failures  []PhraseFailure
}

type Importer struct {
	src         Source
	categorizer *Categorizer
	maxPerQuery int
	log         *zerolog.Logger
}

func New(src Source, categorizer *Categorizer, maxPerQuery int, log *zerolog.Logger) *Importer {
	if categorizer == nil {
		categorizer = NewDefaultCategorizer()
	}
	if maxPerQuery <= 0 {
		maxPerQuery = DefaultMaxPerQuery
	}
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Importer{src: src, categorizer: categorizer, maxPerQuery: maxPerQuery, log: log}
}

func (im *Importer) Configured() bool {
	return im.src != nil && im.src.Configured()
}

// Propose searches each phrase in order and returns deduplicated, categorized
// proposals. A failing phrase is recorded in Result.Failures and contributes nothing;
// the remaining phrases still run.
func (im *Importer) Propose(ctx context.Context, phrases []string) (*Result, error) {
	if !im.Configured() {
		return nil, ErrNotConfigured
	}

	res := &Result{Proposals: make([]Proposal, 0)}
	seen := make(map[string]struct{})

	for _, phrase := range phrases {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		found, err := im.searchPhrase(ctx, phrase)
		if err != nil {
			im.log.Error().Err(err).Str("phrase", phrase).Msg("YouTube search failed")
			metrics.ImportPhrases.WithLabelValues("failed").Inc()
			res.Failures = append(res.Failures, PhraseFailure{Phrase: phrase, Error: err.Error()})
			continue
		}
		metrics.ImportPhrases.WithLabelValues("ok").Inc()

		for _, p := range found {
			if _, dup := seen[p.VideoID]; dup {
				continue
			}
			seen[p.VideoID] = struct{}{}
			p.Category = im.categorizer.Categorize(p.Title)
			res.Proposals = append(res.Proposals, p)
		}
	}

	im.log.Info().
		Int("phrases", len(phrases)).
		Int("proposals", len(res.Proposals)).
		Int("failures", len(res.Failures)).
		Msg("YouTube import proposals built")
	return res, nil
}

func (im *Importer) searchPhrase(ctx context.Context, phrase string) ([]Proposal, error) {
	var (
		out       []Proposal
		pageToken string
	)

	for len(out) < im.maxPerQuery {
		size := min(youtube.MaxPageSize, im.maxPerQuery-len(out))
		page, err := im.src.Search(ctx, phrase, pageToken, size)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", phrase, err)
		}
		if len(page.Items) == 0 {
			break
		}

		ids := make([]string, 0, len(page.Items))
		for _, it := range page.Items {
			ids = append(ids, it.ID.VideoID)
		}
		details, err := im.src.Details(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("details for %q: %w", phrase, err)
		}

		for _, it := range page.Items {
			if len(out) == im.maxPerQuery {
				break
			}
			id := it.ID.VideoID
			if id == "" {
				continue
			}
			p := Proposal{
				Title:     it.Snippet.Title,
				VideoID:   id,
				Thumbnail: it.BestThumbnail(),
				Duration:  "0:00",
				Views:     "0 views",
			}
			if p.Thumbnail == "" {
				p.Thumbnail = youtube.ThumbnailURL(id, "hqdefault")
			}
			if d, ok := details[id]; ok {
				p.Duration = d.Duration
				p.Views = d.Views
			}
			out = append(out, p)
		}

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}
