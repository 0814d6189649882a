package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ministryhub/internal/model"
	"ministryhub/internal/repo"
)

// fakeRepo is an in-memory repo.Repository with the same not-found and counter
// semantics as the Postgres one.
type fakeRepo struct {
	mu            sync.Mutex
	videos        []model.Video
	registrations []model.Registration
	settings      map[string]*model.MinistrySettings
	site          map[string]string
	sessions      map[string]time.Time
	clock         time.Time
	err           error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		settings: make(map[string]*model.MinistrySettings),
		site:     make(map[string]string),
		sessions: make(map[string]time.Time),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so newest-first order is stable.
func (f *fakeRepo) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeRepo) MigrateUp(string) error   { return nil }
func (f *fakeRepo) MigrateDown(string) error { return nil }

func (f *fakeRepo) GetAllSettings(context.Context) ([]model.MinistrySettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.MinistrySettings, 0, len(f.settings))
	for _, s := range f.settings {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MinistryType < out[j].MinistryType })
	return out, nil
}

func (f *fakeRepo) GetSettings(_ context.Context, ministryType string) (*model.MinistrySettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.settings[ministryType]
	if !ok {
		return nil, repo.ErrSettingsNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) UpsertSettings(_ context.Context, in model.SettingsInput) (*model.MinistrySettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.settings[in.MinistryType]
	if !ok {
		s = &model.MinistrySettings{ID: uuid.NewString(), MinistryType: in.MinistryType}
		f.settings[in.MinistryType] = s
	}
	s.Status = in.Status
	s.NextSessionDate = in.NextSessionDate
	s.NextSessionTime = in.NextSessionTime
	s.Location = in.Location
	s.Capacity = in.Capacity
	s.StartDate = in.StartDate
	s.EndDate = in.EndDate
	s.MeetingDays = in.MeetingDays
	s.MeetingMode = in.MeetingMode
	s.SpotifyShowID = in.SpotifyShowID
	if in.CurrentRegistrations != nil {
		s.CurrentRegistrations = *in.CurrentRegistrations
	}
	cp := *s
	return &cp, nil
}

func (f *fakeRepo) adjust(ministryType string, delta int) {
	if s, ok := f.settings[ministryType]; ok {
		s.CurrentRegistrations = max(0, s.CurrentRegistrations+delta)
	}
}

func (f *fakeRepo) IncrementRegistrations(_ context.Context, ministryType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adjust(ministryType, 1)
	return f.err
}

func (f *fakeRepo) DecrementRegistrations(_ context.Context, ministryType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adjust(ministryType, -1)
	return f.err
}

func (f *fakeRepo) CreateRegistrationTx(_ context.Context, reg *model.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	reg.ID = uuid.NewString()
	reg.CreatedAt = f.tick()
	f.registrations = append(f.registrations, *reg)
	f.adjust(reg.MinistryType, 1)
	return nil
}

func (f *fakeRepo) GetAllRegistrations(context.Context) ([]model.Registration, error) {
	return f.filterRegistrations("")
}

func (f *fakeRepo) GetRegistrationsByMinistry(_ context.Context, ministryType string) ([]model.Registration, error) {
	return f.filterRegistrations(ministryType)
}

func (f *fakeRepo) filterRegistrations(ministryType string) ([]model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Registration, 0)
	for i := len(f.registrations) - 1; i >= 0; i-- {
		r := f.registrations[i]
		if ministryType == "" || r.MinistryType == ministryType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateRegistration(_ context.Context, id string, p model.RegistrationPatch) (*model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.registrations {
		r := &f.registrations[i]
		if r.ID != id {
			continue
		}
		if p.FullName != nil {
			r.FullName = *p.FullName
		}
		if p.Email != nil {
			r.Email = *p.Email
		}
		if p.Phone != nil {
			r.Phone = *p.Phone
		}
		if p.Message != nil {
			r.Message = p.Message
		}
		cp := *r
		return &cp, nil
	}
	return nil, repo.ErrRegistrationNotFound
}

func (f *fakeRepo) DeleteRegistrationTx(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, r := range f.registrations {
		if r.ID == id {
			f.registrations = append(f.registrations[:i], f.registrations[i+1:]...)
			f.adjust(r.MinistryType, -1)
			return nil
		}
	}
	return repo.ErrRegistrationNotFound
}

func (f *fakeRepo) CreateVideo(_ context.Context, v *model.Video) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	v.ID = uuid.NewString()
	v.CreatedAt = f.tick()
	if v.Views == "" {
		v.Views = model.DefaultViews
	}
	f.videos = append(f.videos, *v)
	return nil
}

func (f *fakeRepo) GetAllVideos(context.Context) ([]model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Video, 0, len(f.videos))
	for i := len(f.videos) - 1; i >= 0; i-- {
		out = append(out, f.videos[i])
	}
	return out, nil
}

func (f *fakeRepo) UpdateVideo(_ context.Context, id string, p model.VideoPatch) (*model.Video, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.videos {
		v := &f.videos[i]
		if v.ID != id {
			continue
		}
		if p.Title != nil {
			v.Title = *p.Title
		}
		if p.VideoID != nil {
			v.VideoID = *p.VideoID
		}
		if p.Category != nil {
			v.Category = *p.Category
		}
		if p.Thumbnail != nil {
			v.Thumbnail = p.Thumbnail
		}
		if p.Duration != nil {
			v.Duration = p.Duration
		}
		if p.Views != nil {
			v.Views = *p.Views
		}
		cp := *v
		return &cp, nil
	}
	return nil, repo.ErrVideoNotFound
}

func (f *fakeRepo) DeleteVideo(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i, v := range f.videos {
		if v.ID == id {
			f.videos = append(f.videos[:i], f.videos[i+1:]...)
			return nil
		}
	}
	return repo.ErrVideoNotFound
}

func (f *fakeRepo) GetSiteSettings(_ context.Context, keys ...string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := f.site[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (f *fakeRepo) UpsertSiteSettings(_ context.Context, values map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for k, v := range values {
		f.site[k] = v
	}
	return nil
}

func (f *fakeRepo) CreateSession(_ context.Context, id string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[id] = expiresAt
	return nil
}

func (f *fakeRepo) SessionActive(_ context.Context, id string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	exp, ok := f.sessions[id]
	return ok && now.Before(exp), nil
}

func (f *fakeRepo) DeleteSession(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.sessions[id]; !ok {
		return repo.ErrSessionNotFound
	}
	delete(f.sessions, id)
	return nil
}

func (f *fakeRepo) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}
