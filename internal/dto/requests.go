package dto

import (
	"strings"

	"ministryhub/internal/model"
	"ministryhub/internal/youtube"
)

type LoginRequest struct {
	Password string `json:"password"`
}

type CreateVideoRequest struct {
	Title     string  `json:"title" validate:"notblank,max=500"`
	VideoID   string  `json:"videoId" validate:"notblank,max=200"`
	Category  string  `json:"category" validate:"notblank,max=100"`
	Thumbnail *string `json:"thumbnail" validate:"omitempty,max=2048"`
	Duration  *string `json:"duration" validate:"omitempty,max=20"`
	Views     *string `json:"views" validate:"omitempty,max=50"`
}

// ToModel normalizes the request: URLs become bare video ids and empty optional
// fields get the catalog defaults.
func (r CreateVideoRequest) ToModel() *model.Video {
	id := youtube.ExtractVideoID(strings.TrimSpace(r.VideoID))
	v := &model.Video{
		Title:     strings.TrimSpace(r.Title),
		VideoID:   id,
		Category:  strings.TrimSpace(r.Category),
		Thumbnail: r.Thumbnail,
		Duration:  r.Duration,
		Views:     model.DefaultViews,
	}
	if v.Thumbnail == nil || *v.Thumbnail == "" {
		thumb := youtube.ThumbnailURL(id, "maxresdefault")
		v.Thumbnail = &thumb
	}
	if v.Duration == nil || *v.Duration == "" {
		d := model.DefaultDuration
		v.Duration = &d
	}
	if r.Views != nil && *r.Views != "" {
		v.Views = *r.Views
	}
	return v
}

type UpdateVideoRequest struct {
	Title     *string `json:"title" validate:"omitempty,notblank,max=500"`
	VideoID   *string `json:"videoId" validate:"omitempty,notblank,max=200"`
	Category  *string `json:"category" validate:"omitempty,notblank,max=100"`
	Thumbnail *string `json:"thumbnail" validate:"omitempty,max=2048"`
	Duration  *string `json:"duration" validate:"omitempty,max=20"`
	Views     *string `json:"views" validate:"omitempty,max=50"`
}

func (r UpdateVideoRequest) ToPatch() model.VideoPatch {
	p := model.VideoPatch{
		Title:     r.Title,
		VideoID:   r.VideoID,
		Category:  r.Category,
		Thumbnail: r.Thumbnail,
		Duration:  r.Duration,
		Views:     r.Views,
	}
	if p.VideoID != nil {
		id := youtube.ExtractVideoID(strings.TrimSpace(*p.VideoID))
		p.VideoID = &id
	}
	return p
}

type CreateRegistrationRequest struct {
	MinistryType string  `json:"ministryType" validate:"required,ministry,max=100"`
	FullName     string  `json:"fullName" validate:"notblank,max=255"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	Phone        string  `json:"phone" validate:"notblank,max=50"`
	Message      *string `json:"message" validate:"omitempty,max=5000"`
}

func (r CreateRegistrationRequest) ToModel() *model.Registration {
	reg := &model.Registration{
		MinistryType: strings.TrimSpace(r.MinistryType),
		FullName:     strings.TrimSpace(r.FullName),
		Email:        strings.TrimSpace(r.Email),
		Phone:        strings.TrimSpace(r.Phone),
	}
	if r.Message != nil && strings.TrimSpace(*r.Message) != "" {
		reg.Message = r.Message
	}
	return reg
}

type UpdateRegistrationRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,notblank,max=255"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone" validate:"omitempty,notblank,max=50"`
	Message  *string `json:"message" validate:"omitempty,max=5000"`
}

func (r UpdateRegistrationRequest) ToPatch() model.RegistrationPatch {
	return model.RegistrationPatch{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Message:  r.Message,
	}
}

type UpsertSettingsRequest struct {
	MinistryType         string  `json:"ministryType" validate:"required,ministry,max=100"`
	Status               string  `json:"status" validate:"omitempty,ministry_status"`
	NextSessionDate      *string `json:"nextSessionDate" validate:"omitempty,max=200"`
	NextSessionTime      *string `json:"nextSessionTime" validate:"omitempty,max=200"`
	Location             *string `json:"location" validate:"omitempty,max=500"`
	Capacity             *int    `json:"capacity" validate:"omitempty,gte=0"`
	CurrentRegistrations *int    `json:"currentRegistrations" validate:"omitempty,gte=0"`
	StartDate            *string `json:"startDate" validate:"omitempty,max=200"`
	EndDate              *string `json:"endDate" validate:"omitempty,max=200"`
	MeetingDays          *string `json:"meetingDays" validate:"omitempty,max=200"`
	MeetingMode          *string `json:"meetingMode" validate:"omitempty,max=100"`
	SpotifyShowID        *string `json:"spotifyShowId" validate:"omitempty,max=200"`
}

// ToInput fills the default status and stores blank optional text as null, since
// the admin form always posts every field.
func (r UpsertSettingsRequest) ToInput() model.SettingsInput {
	status := r.Status
	if status == "" {
		status = model.StatusUpcoming
	}
	return model.SettingsInput{
		MinistryType:         strings.TrimSpace(r.MinistryType),
		Status:               status,
		NextSessionDate:      nullIfBlank(r.NextSessionDate),
		NextSessionTime:      nullIfBlank(r.NextSessionTime),
		Location:             nullIfBlank(r.Location),
		Capacity:             r.Capacity,
		CurrentRegistrations: r.CurrentRegistrations,
		StartDate:            nullIfBlank(r.StartDate),
		EndDate:              nullIfBlank(r.EndDate),
		MeetingDays:          nullIfBlank(r.MeetingDays),
		MeetingMode:          nullIfBlank(r.MeetingMode),
		SpotifyShowID:        nullIfBlank(r.SpotifyShowID),
	}
}

func nullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

type PodcastSettingsRequest struct {
	SpotifyShowID *string `json:"spotifyShowId" validate:"omitempty,max=200"`
	RSSURL        *string `json:"rssUrl" validate:"omitempty,http_url,max=2048"`
}

// Values returns the site settings to write. A present but blank field is written
// as "" which clears it; an absent field is left alone.
func (r PodcastSettingsRequest) Values() map[string]string {
	values := make(map[string]string, 2)
	if r.SpotifyShowID != nil {
		values[model.SettingPodcastSpotifyShowID] = strings.TrimSpace(*r.SpotifyShowID)
	}
	if r.RSSURL != nil {
		values[model.SettingPodcastRSSURL] = strings.TrimSpace(*r.RSSURL)
	}
	return values
}
