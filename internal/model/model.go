package model

import "time"

const (
	StatusOpen     = "open"
	StatusClosed   = "closed"
	StatusUpcoming = "upcoming"

	DefaultViews    = "0 views"
	DefaultDuration = "0:00"
)

// Ministries maps the known ministry identifiers to their display names.
var Ministries = map[string]string{
	"deal-to-heal":         "Deal to Heal",
	"master-class":         "Master Class",
	"proskuneo":            "Proskuneo Worship",
	"understanding-dreams": "Understanding Dreams",
}

type Video struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	VideoID   string    `db:"video_id" json:"videoId"`
	Category  string    `db:"category" json:"category"`
	Thumbnail *string   `db:"thumbnail" json:"thumbnail"`
	Duration  *string   `db:"duration" json:"duration"`
	Views     string    `db:"views" json:"views"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// VideoPatch carries a partial video update; nil fields are left unchanged.
type VideoPatch struct {
	Title     *string
	VideoID   *string
	Category  *string
	Thumbnail *string
	Duration  *string
	Views     *string
}

type Registration struct {
	ID           string    `db:"id" json:"id"`
	MinistryType string    `db:"ministry_type" json:"ministryType"`
	FullName     string    `db:"full_name" json:"fullName"`
	Email        string    `db:"email" json:"email"`
	Phone        string    `db:"phone" json:"phone"`
	Message      *string   `db:"message" json:"message"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}

// RegistrationPatch is an admin correction of contact details.
type RegistrationPatch struct {
	FullName *string
	Email    *string
	Phone    *string
	Message  *string
}

type MinistrySettings struct {
	ID                   string  `db:"id" json:"id"`
	MinistryType         string  `db:"ministry_type" json:"ministryType"`
	Status               string  `db:"status" json:"status"`
	NextSessionDate      *string `db:"next_session_date" json:"nextSessionDate"`
	NextSessionTime      *string `db:"next_session_time" json:"nextSessionTime"`
	Location             *string `db:"location" json:"location"`
	Capacity             *int    `db:"capacity" json:"capacity"`
	CurrentRegistrations int     `db:"current_registrations" json:"currentRegistrations"`
	StartDate            *string `db:"start_date" json:"startDate"`
	EndDate              *string `db:"end_date" json:"endDate"`
	MeetingDays          *string `db:"meeting_days" json:"meetingDays"`
	MeetingMode          *string `db:"meeting_mode" json:"meetingMode"`
	SpotifyShowID        *string `db:"spotify_show_id" json:"spotifyShowId"`
}

// SettingsInput is the upsert payload for a ministry. CurrentRegistrations is only
// written when non-nil.
type SettingsInput struct {
	MinistryType         string
	Status               string
	NextSessionDate      *string
	NextSessionTime      *string
	Location             *string
	Capacity             *int
	CurrentRegistrations *int
	StartDate            *string
	EndDate              *string
	MeetingDays          *string
	MeetingMode          *string
	SpotifyShowID        *string
}

type SiteSetting struct {
	Key       string    `db:"key" json:"key"`
	Value     string    `db:"value" json:"value"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

const (
	SettingPodcastSpotifyShowID = "podcast_spotify_show_id"
	SettingPodcastRSSURL        = "podcast_rss_url"
)

type PodcastSettings struct {
	SpotifyShowID *string `json:"spotifyShowId"`
	RSSURL        *string `json:"rssUrl"`
}

type AdminSession struct {
	ID        string    `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
}
