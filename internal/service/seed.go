package service

import (
	"context"
	"fmt"

	"github.com/wb-go/wbf/ginext"

	"ministryhub/internal/dto"
	"ministryhub/internal/model"
	"ministryhub/internal/repo"
)

type seedVideo struct {
	title, category, thumbnail, duration, views string
}

// Development catalog; every entry points at the same placeholder video.
const seedVideoID = "M7lc1UVf-VE"

var seedVideos = []seedVideo{
	{"God's Abundant Mercy", "Sermon", "https://images.unsplash.com/photo-1504052434569-70ad5836ab65?q=80&w=2070&auto=format&fit=crop", "45:20", "1.2K views"},
	{"Understanding Holiness", "Teaching", "https://images.unsplash.com/photo-1438232992991-995b7058bbb3?q=80&w=2073&auto=format&fit=crop", "58:45", "2.5K views"},
	{"The Power of Prayer", "Sermon", "https://images.unsplash.com/photo-1445445290350-16a63cfaf720?q=80&w=2070&auto=format&fit=crop", "1:02:10", "3.1K views"},
	{"Walking in Divine Authority", "Teaching", "https://images.unsplash.com/photo-1490122417551-6ee9691429d0?q=80&w=2070&auto=format&fit=crop", "55:30", "1.8K views"},
	{"Breaking Free from Fear", "Sermon", "https://images.unsplash.com/photo-1515162816999-a0c47dc192f7?q=80&w=2070&auto=format&fit=crop", "48:15", "2.2K views"},
	{"The Art of Worship", "Worship", "https://images.unsplash.com/photo-1519681393784-d120267933ba?q=80&w=2070&auto=format&fit=crop", "1:10:00", "4.5K views"},
}

type seedMinistry struct {
	ministryType, status, date, time, location string
	capacity                                   int
}

var seedMinistries = []seedMinistry{
	{"deal-to-heal", model.StatusOpen, "December 15, 2024", "10:00 AM - 4:00 PM EAT", "Nairobi, Kenya", 50},
	{"master-class", model.StatusUpcoming, "January 20, 2025", "9:00 AM - 12:00 PM EAT", "Online via Zoom", 100},
	{"proskuneo", model.StatusOpen, "First Friday of Every Month", "6:00 PM - 9:00 PM EAT", "Nairobi Central", 200},
	{"understanding-dreams", model.StatusClosed, "TBA", "TBA", "TBA", 30},
}

// SeedData fills an empty catalog with sample videos and the four ministries.
// It does nothing when any video already exists.
func SeedData(ctx context.Context, store repo.Repository) (*dto.SeedResponse, error) {
	existing, err := store.GetAllVideos(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(existing) > 0 {
		return &dto.SeedResponse{Message: "Database already seeded", Count: len(existing)}, nil
	}

	for _, sv := range seedVideos {
		thumb, duration := sv.thumbnail, sv.duration
		v := &model.Video{
			Title:     sv.title,
			VideoID:   seedVideoID,
			Category:  sv.category,
			Thumbnail: &thumb,
			Duration:  &duration,
			Views:     sv.views,
		}
		if err := store.CreateVideo(ctx, v); err != nil {
			return nil, fmt.Errorf("seed video %q: %w", sv.title, err)
		}
	}

	zero := 0
	for _, sm := range seedMinistries {
		date, tm, loc, capacity := sm.date, sm.time, sm.location, sm.capacity
		in := model.SettingsInput{
			MinistryType:         sm.ministryType,
			Status:               sm.status,
			NextSessionDate:      &date,
			NextSessionTime:      &tm,
			Location:             &loc,
			Capacity:             &capacity,
			CurrentRegistrations: &zero,
		}
		if _, err := store.UpsertSettings(ctx, in); err != nil {
			return nil, fmt.Errorf("seed settings %s: %w", sm.ministryType, err)
		}
	}

	return &dto.SeedResponse{
		Message:         "Database seeded successfully",
		VideosCreated:   len(seedVideos),
		SettingsCreated: len(seedMinistries),
	}, nil
}

func (s *service) Seed(ctx *ginext.Context) {
	resp, err := SeedData(ctx.Request.Context(), s.repo)
	if err != nil {
		s.storeFailure(ctx, err, "failed to seed database")
		return
	}
	s.log.Info().Int("videos", resp.VideosCreated).Int("settings", resp.SettingsCreated).Msg(resp.Message)
	dto.SuccessResponse(ctx, resp)
}
