//go:build integration

package repo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wb-go/wbf/dbpg"

	"ministryhub/internal/model"
)

const migrationsDir = "../../migrations/postgres"

var testDSN string

// TestMain starts one Postgres container for the package. Run with
// go test -tags integration ./internal/repo/...
func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "ministry",
				"POSTGRES_PASSWORD": "ministry",
				"POSTGRES_DB":       "ministry",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "skipping repository integration tests: %v\n", err)
		os.Exit(0)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "container host: %v\n", err)
		os.Exit(1)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		_ = container.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "container port: %v\n", err)
		os.Exit(1)
	}
	testDSN = fmt.Sprintf("postgres://ministry:ministry@%s:%s/ministry?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func newTestRepository(t *testing.T) *repository {
	t.Helper()

	db, err := dbpg.New(testDSN, nil, &dbpg.Options{MaxOpenConns: 5, MaxIdleConns: 2})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Master.Close() })

	log := zerolog.Nop()
	r, err := NewRepository(db, &log)
	require.NoError(t, err)
	require.NoError(t, r.MigrateUp(migrationsDir))

	_, err = db.Master.Exec(`TRUNCATE videos, registrations, ministry_settings, site_settings, admin_sessions`)
	require.NoError(t, err)

	return r.(*repository)
}

func countRows(t *testing.T, r *repository, table string) int {
	t.Helper()
	var n int
	require.NoError(t, r.db.Master.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func ptr[T any](v T) *T { return &v }

func newRegistration(ministryType string) *model.Registration {
	return &model.Registration{
		MinistryType: ministryType,
		FullName:     "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "+254700000000",
	}
}

func TestUpsertSettings_SingleRowPerMinistry(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	first, err := r.UpsertSettings(ctx, model.SettingsInput{
		MinistryType: "master-class",
		Location:     ptr("Online via Zoom"),
		Capacity:     ptr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusUpcoming, first.Status)
	assert.Equal(t, 0, first.CurrentRegistrations)

	require.NoError(t, r.IncrementRegistrations(ctx, "master-class"))

	second, err := r.UpsertSettings(ctx, model.SettingsInput{
		MinistryType: "master-class",
		Status:       model.StatusOpen,
		Capacity:     ptr(120),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.StatusOpen, second.Status)
	assert.Nil(t, second.Location)
	require.NotNil(t, second.Capacity)
	assert.Equal(t, 120, *second.Capacity)
	assert.Equal(t, 1, second.CurrentRegistrations, "nil count keeps the stored value")
	assert.Equal(t, 1, countRows(t, r, "ministry_settings"))

	third, err := r.UpsertSettings(ctx, model.SettingsInput{
		MinistryType:         "master-class",
		Status:               model.StatusClosed,
		CurrentRegistrations: ptr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, third.CurrentRegistrations)
	assert.Equal(t, 1, countRows(t, r, "ministry_settings"))
}

func TestUpsertSettings_ScheduleFieldsRoundTrip(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.UpsertSettings(ctx, model.SettingsInput{
		MinistryType:  "deal-to-heal",
		StartDate:     ptr("2026-11-02"),
		EndDate:       ptr("2027-01-25"),
		MeetingDays:   ptr("Saturdays"),
		MeetingMode:   ptr("In person"),
		SpotifyShowID: ptr("show123"),
	})
	require.NoError(t, err)

	got, err := r.GetSettings(ctx, "deal-to-heal")
	require.NoError(t, err)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2026-11-02", *got.StartDate)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, "2027-01-25", *got.EndDate)
	require.NotNil(t, got.MeetingDays)
	assert.Equal(t, "Saturdays", *got.MeetingDays)
	require.NotNil(t, got.MeetingMode)
	assert.Equal(t, "In person", *got.MeetingMode)
	require.NotNil(t, got.SpotifyShowID)
	assert.Equal(t, "show123", *got.SpotifyShowID)

	all, err := r.GetAllSettings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, *got, all[0])
}

func TestUpsertSettings_NegativeCountIsConstraint(t *testing.T) {
	r := newTestRepository(t)

	_, err := r.UpsertSettings(context.Background(), model.SettingsInput{
		MinistryType:         "proskuneo",
		CurrentRegistrations: ptr(-1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConstraint)
	assert.Equal(t, 0, countRows(t, r, "ministry_settings"))
}

func TestRegistrationCounter(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.UpsertSettings(ctx, model.SettingsInput{MinistryType: "proskuneo"})
	require.NoError(t, err)

	first := newRegistration("proskuneo")
	require.NoError(t, r.CreateRegistrationTx(ctx, first))
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	second := newRegistration("proskuneo")
	require.NoError(t, r.CreateRegistrationTx(ctx, second))

	s, err := r.GetSettings(ctx, "proskuneo")
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentRegistrations)

	require.NoError(t, r.DeleteRegistrationTx(ctx, first.ID))
	s, err = r.GetSettings(ctx, "proskuneo")
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentRegistrations)

	err = r.DeleteRegistrationTx(ctx, "missing")
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
	s, err = r.GetSettings(ctx, "proskuneo")
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentRegistrations)

	regs, err := r.GetRegistrationsByMinistry(ctx, "proskuneo")
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, second.ID, regs[0].ID)
}

func TestDecrementClampsAtZero(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	_, err := r.UpsertSettings(ctx, model.SettingsInput{MinistryType: "understanding-dreams"})
	require.NoError(t, err)

	require.NoError(t, r.DecrementRegistrations(ctx, "understanding-dreams"))
	require.NoError(t, r.DecrementRegistrations(ctx, "understanding-dreams"))

	s, err := r.GetSettings(ctx, "understanding-dreams")
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentRegistrations)

	// Admin reset below the real row count, then delete: the counter stays at 0.
	reg := newRegistration("understanding-dreams")
	require.NoError(t, r.CreateRegistrationTx(ctx, reg))
	_, err = r.UpsertSettings(ctx, model.SettingsInput{
		MinistryType:         "understanding-dreams",
		CurrentRegistrations: ptr(0),
	})
	require.NoError(t, err)
	require.NoError(t, r.DeleteRegistrationTx(ctx, reg.ID))

	s, err = r.GetSettings(ctx, "understanding-dreams")
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentRegistrations)
}

func TestRegistrationWithoutSettingsRow(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	reg := newRegistration("Deal_To_Heal")
	require.NoError(t, r.CreateRegistrationTx(ctx, reg))
	require.NoError(t, r.IncrementRegistrations(ctx, "Deal_To_Heal"))

	_, err := r.GetSettings(ctx, "Deal_To_Heal")
	assert.ErrorIs(t, err, ErrSettingsNotFound)
	assert.Equal(t, 0, countRows(t, r, "ministry_settings"))

	require.NoError(t, r.DeleteRegistrationTx(ctx, reg.ID))
	assert.Equal(t, 0, countRows(t, r, "registrations"))
}

func TestUpdateRegistration(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	reg := newRegistration("proskuneo")
	require.NoError(t, r.CreateRegistrationTx(ctx, reg))

	updated, err := r.UpdateRegistration(ctx, reg.ID, model.RegistrationPatch{Phone: ptr("+254711111111")})
	require.NoError(t, err)
	assert.Equal(t, "+254711111111", updated.Phone)
	assert.Equal(t, reg.FullName, updated.FullName)
	assert.Equal(t, reg.MinistryType, updated.MinistryType)

	_, err = r.UpdateRegistration(ctx, "missing", model.RegistrationPatch{Phone: ptr("1")})
	assert.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestVideoCatalog(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	older := &model.Video{Title: "Older", VideoID: "aaaaaaaaaaa", Category: "Sermon"}
	require.NoError(t, r.CreateVideo(ctx, older))
	assert.Equal(t, model.DefaultViews, older.Views)
	newer := &model.Video{Title: "Newer", VideoID: "bbbbbbbbbbb", Category: "Worship"}
	require.NoError(t, r.CreateVideo(ctx, newer))

	videos, err := r.GetAllVideos(ctx)
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, newer.ID, videos[0].ID)

	updated, err := r.UpdateVideo(ctx, older.ID, model.VideoPatch{Category: ptr("Teaching")})
	require.NoError(t, err)
	assert.Equal(t, "Teaching", updated.Category)
	assert.Equal(t, "Older", updated.Title)

	_, err = r.UpdateVideo(ctx, "missing", model.VideoPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrVideoNotFound)

	assert.ErrorIs(t, r.DeleteVideo(ctx, "missing"), ErrVideoNotFound)
	assert.Equal(t, 2, countRows(t, r, "videos"))

	require.NoError(t, r.DeleteVideo(ctx, older.ID))
	assert.Equal(t, 1, countRows(t, r, "videos"))

	err = r.CreateVideo(ctx, &model.Video{Title: "", VideoID: "ccccccccccc", Category: "Sermon"})
	assert.ErrorIs(t, err, ErrConstraint)
}

func TestSiteSettingsAndSessions(t *testing.T) {
	r := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, r.UpsertSiteSettings(ctx, map[string]string{
		model.SettingPodcastSpotifyShowID: "show123",
		model.SettingPodcastRSSURL:        "https://example.com/feed.xml",
	}))
	require.NoError(t, r.UpsertSiteSettings(ctx, map[string]string{model.SettingPodcastRSSURL: ""}))

	values, err := r.GetSiteSettings(ctx, model.SettingPodcastSpotifyShowID, model.SettingPodcastRSSURL)
	require.NoError(t, err)
	assert.Equal(t, "show123", values[model.SettingPodcastSpotifyShowID])
	assert.Equal(t, "", values[model.SettingPodcastRSSURL])
	assert.Equal(t, 2, countRows(t, r, "site_settings"))

	now := time.Now()
	require.NoError(t, r.CreateSession(ctx, "sess-1", now.Add(time.Hour)))
	active, err := r.SessionActive(ctx, "sess-1", now)
	require.NoError(t, err)
	assert.True(t, active)

	active, err = r.SessionActive(ctx, "sess-1", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, r.DeleteSession(ctx, "sess-1"))
	active, err = r.SessionActive(ctx, "sess-1", now)
	require.NoError(t, err)
	assert.False(t, active)
}
