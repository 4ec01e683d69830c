package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/repositories"
)

// In-memory fakes implementing the repository interfaces the import
// engine composes. Counters expose how many store round-trips happened so
// cache behavior is observable.

type fakeSwimmerRepo struct {
	swimmers    []*models.Swimmer
	findByIDCnt int
	findByName  int
}

func (f *fakeSwimmerRepo) Create(_ context.Context, s *models.Swimmer) error {
	if s.USASwimmingID != nil {
		for _, existing := range f.swimmers {
			if existing.USASwimmingID != nil && *existing.USASwimmingID == *s.USASwimmingID {
				return repositories.ErrSwimmerUSAIDConflict
			}
		}
	}
	s.ID = uuid.New()
	f.swimmers = append(f.swimmers, s)
	return nil
}

func (f *fakeSwimmerRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Swimmer, error) {
	for _, s := range f.swimmers {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, repositories.ErrSwimmerNotFound
}

func (f *fakeSwimmerRepo) Update(_ context.Context, s *models.Swimmer) error {
	for i, existing := range f.swimmers {
		if existing.ID == s.ID {
			f.swimmers[i] = s
			return nil
		}
	}
	return repositories.ErrSwimmerNotFound
}

func (f *fakeSwimmerRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeSwimmerRepo) FindByUSASwimmingID(_ context.Context, id string) (*models.Swimmer, error) {
	f.findByIDCnt++
	for _, s := range f.swimmers {
		if s.USASwimmingID != nil && *s.USASwimmingID == id {
			return s, nil
		}
	}
	return nil, repositories.ErrSwimmerNotFound
}

func (f *fakeSwimmerRepo) FindByName(_ context.Context, first, last string) ([]models.Swimmer, error) {
	f.findByName++
	var out []models.Swimmer
	for _, s := range f.swimmers {
		if strings.EqualFold(s.FirstName, first) && strings.EqualFold(s.LastName, last) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeSwimmerRepo) FindByNameAndDOB(_ context.Context, first, last string, dob time.Time) (*models.Swimmer, error) {
	for _, s := range f.swimmers {
		if strings.EqualFold(s.FirstName, first) && strings.EqualFold(s.LastName, last) && s.DateOfBirth.Equal(dob) {
			return s, nil
		}
	}
	return nil, repositories.ErrSwimmerNotFound
}

func (f *fakeSwimmerRepo) FindByUserID(_ context.Context, _ uuid.UUID) (*models.Swimmer, error) {
	return nil, repositories.ErrSwimmerNotFound
}

func (f *fakeSwimmerRepo) Search(_ context.Context, _ repositories.SwimmerFilter) ([]models.Swimmer, error) {
	return nil, nil
}

type fakeMeetRepo struct {
	meets      []*models.Meet
	findByName int
}

func (f *fakeMeetRepo) Create(_ context.Context, m *models.Meet) error {
	m.ID = uuid.New()
	f.meets = append(f.meets, m)
	return nil
}

func (f *fakeMeetRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Meet, error) {
	for _, m := range f.meets {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, repositories.ErrMeetNotFound
}

func (f *fakeMeetRepo) Update(_ context.Context, _ *models.Meet) error { return nil }
func (f *fakeMeetRepo) Delete(_ context.Context, _ uuid.UUID) error    { return nil }

func (f *fakeMeetRepo) FindByName(_ context.Context, name string) ([]models.Meet, error) {
	f.findByName++
	var out []models.Meet
	for _, m := range f.meets {
		if strings.Contains(strings.ToLower(m.Name), strings.ToLower(name)) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMeetRepo) FindByNameAndDate(_ context.Context, name string, start time.Time) (*models.Meet, error) {
	for _, m := range f.meets {
		if strings.EqualFold(m.Name, name) && m.StartDate.Equal(start) {
			return m, nil
		}
	}
	return nil, repositories.ErrMeetNotFound
}

func (f *fakeMeetRepo) ListBetween(_ context.Context, _, _ time.Time) ([]models.Meet, error) {
	return nil, nil
}

func (f *fakeMeetRepo) List(_ context.Context, _, _ int) ([]models.Meet, error) { return nil, nil }

type fakeTeamRepo struct {
	teams      []*models.Team
	createCnt  int
	findByName int
}

func (f *fakeTeamRepo) Create(_ context.Context, t *models.Team) error {
	f.createCnt++
	for _, existing := range f.teams {
		if strings.EqualFold(existing.Name, t.Name) {
			return repositories.ErrTeamNameConflict
		}
	}
	t.ID = uuid.New()
	f.teams = append(f.teams, t)
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Team, error) {
	for _, t := range f.teams {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) Update(_ context.Context, _ *models.Team) error { return nil }
func (f *fakeTeamRepo) Delete(_ context.Context, _ uuid.UUID) error    { return nil }

func (f *fakeTeamRepo) FindByName(_ context.Context, name string) (*models.Team, error) {
	f.findByName++
	for _, t := range f.teams {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) ListByType(_ context.Context, _ models.TeamType) ([]models.Team, error) {
	return nil, nil
}

func (f *fakeTeamRepo) ListByLSC(_ context.Context, _ string) ([]models.Team, error) {
	return nil, nil
}

func (f *fakeTeamRepo) List(_ context.Context, _, _ int) ([]models.Team, error) { return nil, nil }

type fakeEventRepo struct {
	events    []*models.Event
	findByKey int
}

func (f *fakeEventRepo) Create(_ context.Context, e *models.Event) error {
	for _, existing := range f.events {
		if existing.Stroke == e.Stroke && existing.Distance == e.Distance && existing.Course == e.Course {
			return repositories.ErrEventConflict
		}
	}
	e.ID = uuid.New()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, repositories.ErrEventNotFound
}

func (f *fakeEventRepo) FindByKey(_ context.Context, stroke models.Stroke, distance int, course models.Course) (*models.Event, error) {
	f.findByKey++
	for _, e := range f.events {
		if e.Stroke == stroke && e.Distance == distance && e.Course == course {
			return e, nil
		}
	}
	return nil, repositories.ErrEventNotFound
}

func (f *fakeEventRepo) ListByCourse(_ context.Context, _ models.Course) ([]models.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) List(_ context.Context) ([]models.Event, error) { return nil, nil }

type fakeSwimTimeRepo struct {
	times []*models.SwimTime
}

func (f *fakeSwimTimeRepo) Create(_ context.Context, t *models.SwimTime) error {
	for _, existing := range f.times {
		if existing.SwimmerID == t.SwimmerID && existing.EventID == t.EventID &&
			existing.MeetID == t.MeetID && existing.SwimDate.Equal(t.SwimDate) {
			return repositories.ErrSwimTimeConflict
		}
	}
	t.ID = uuid.New()
	f.times = append(f.times, t)
	return nil
}

func (f *fakeSwimTimeRepo) Update(_ context.Context, t *models.SwimTime) error {
	for i, existing := range f.times {
		if existing.ID == t.ID {
			f.times[i] = t
			return nil
		}
	}
	return repositories.ErrSwimTimeNotFound
}

func (f *fakeSwimTimeRepo) GetByID(_ context.Context, id uuid.UUID) (*models.SwimTime, error) {
	for _, t := range f.times {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, repositories.ErrSwimTimeNotFound
}

func (f *fakeSwimTimeRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeSwimTimeRepo) FindByNaturalKey(_ context.Context, swimmerID, eventID, meetID uuid.UUID, swimDate time.Time) (*models.SwimTime, error) {
	for _, t := range f.times {
		if t.SwimmerID == swimmerID && t.EventID == eventID && t.MeetID == meetID && t.SwimDate.Equal(swimDate) {
			return t, nil
		}
	}
	return nil, repositories.ErrSwimTimeNotFound
}

func (f *fakeSwimTimeRepo) ListBySwimmer(_ context.Context, _ uuid.UUID) ([]models.SwimTime, error) {
	return nil, nil
}

func (f *fakeSwimTimeRepo) ListBySwimmerAndEvent(_ context.Context, _, _ uuid.UUID) ([]models.SwimTime, error) {
	return nil, nil
}

func (f *fakeSwimTimeRepo) ListByMeet(_ context.Context, _ uuid.UUID) ([]models.SwimTime, error) {
	return nil, nil
}

type importFixture struct {
	swimmers *fakeSwimmerRepo
	meets    *fakeMeetRepo
	teams    *fakeTeamRepo
	events   *fakeEventRepo
	times    *fakeSwimTimeRepo
	service  ImportService
}

func newImportFixture() *importFixture {
	f := &importFixture{
		swimmers: &fakeSwimmerRepo{},
		meets:    &fakeMeetRepo{},
		teams:    &fakeTeamRepo{},
		events:   &fakeEventRepo{},
		times:    &fakeSwimTimeRepo{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = NewImportService(f.swimmers, f.meets, f.teams, f.events, f.times, logger)
	return f
}

func (f *importFixture) addSwimmer(first, last, dob string, usaID *string) *models.Swimmer {
	s := &models.Swimmer{
		FirstName: first, LastName: last, DateOfBirth: date(dob),
		Gender: models.GenderFemale, USASwimmingID: usaID,
	}
	_ = f.swimmers.Create(context.Background(), s)
	return s
}

func (f *importFixture) addMeet(name, start string) *models.Meet {
	m := &models.Meet{
		Name: name, Location: "Pool", City: "Austin", Country: "USA",
		StartDate: date(start), Course: models.CourseSCY, Lanes: 8,
		SanctioningBody: "USA Swimming", MeetType: models.MeetTypeInvitational,
	}
	_ = f.meets.Create(context.Background(), m)
	return m
}

func baseTimeRow() TimeRow {
	return TimeRow{
		Line: 2, SwimmerFirstName: "Katie", SwimmerLastName: "Ledecky",
		Distance: 200, Stroke: models.StrokeFreestyle, Course: models.CourseSCY,
		MeetName: "Winter Classic", Time: "1:41.55", SwimDate: date("2025-12-06"),
		TeamName: "Gator Swim Club", Official: true,
	}
}

func TestImportRoster(t *testing.T) {
	ctx := context.Background()

	t.Run("new swimmers are created", func(t *testing.T) {
		f := newImportFixture()
		rows := []RosterRow{
			{Line: 2, FirstName: "Katie", LastName: "Ledecky", DateOfBirth: date("1997-03-17"), Gender: models.GenderFemale},
			{Line: 3, FirstName: "Caeleb", LastName: "Dressel", DateOfBirth: date("1996-08-16"), Gender: models.GenderMale},
		}
		result := f.service.ImportRoster(ctx, rows)
		assert.True(t, result.Success)
		assert.Equal(t, 2, result.CreatedCount)
		assert.Len(t, f.swimmers.swimmers, 2)
		require.Len(t, result.Items, 2)
		assert.Equal(t, "swimmer", result.Items[0].EntityType)
		require.NotNil(t, result.Items[0].EntityID)
		assert.Equal(t, f.swimmers.swimmers[0].ID, *result.Items[0].EntityID)
	})

	t.Run("existing federation id is reused", func(t *testing.T) {
		f := newImportFixture()
		f.addSwimmer("Katie", "Ledecky", "1997-03-17", strPtr("USA123456"))

		rows := []RosterRow{
			{Line: 2, FirstName: "Katie", LastName: "Ledecky", DateOfBirth: date("1997-03-17"), Gender: models.GenderFemale, USASwimmingID: strPtr("USA123456")},
		}
		result := f.service.ImportRoster(ctx, rows)
		assert.Equal(t, 1, result.UpdatedCount)
		assert.Equal(t, 0, result.CreatedCount)
		assert.Len(t, f.swimmers.swimmers, 1)
	})

	t.Run("name match backfills federation id", func(t *testing.T) {
		f := newImportFixture()
		existing := f.addSwimmer("Katie", "Ledecky", "1997-03-17", nil)

		rows := []RosterRow{
			{Line: 2, FirstName: "katie", LastName: "LEDECKY", DateOfBirth: date("1997-03-17"), Gender: models.GenderFemale, USASwimmingID: strPtr("USA123456")},
		}
		result := f.service.ImportRoster(ctx, rows)
		assert.Equal(t, 1, result.UpdatedCount)
		require.NotNil(t, existing.USASwimmingID)
		assert.Equal(t, "USA123456", *existing.USASwimmingID)
	})
}

func TestImportMeets(t *testing.T) {
	ctx := context.Background()
	f := newImportFixture()
	f.addMeet("Winter Classic", "2025-12-05")

	rows := []MeetRow{
		{Line: 2, Name: "Winter Classic", Location: "Pool", City: "Austin", Country: "USA",
			StartDate: date("2025-12-05"), Course: models.CourseSCY, Lanes: 8,
			SanctioningBody: "USA Swimming", MeetType: models.MeetTypeInvitational},
		{Line: 3, Name: "Spring Invite", Location: "Pool", City: "Dallas", Country: "USA",
			StartDate: date("2026-03-01"), Course: models.CourseLCM, Lanes: 10,
			SanctioningBody: "USA Swimming", MeetType: models.MeetTypeChampionship},
	}
	result := f.service.ImportMeets(ctx, rows)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.UpdatedCount)
	assert.Equal(t, 1, result.CreatedCount)
	assert.Len(t, f.meets.meets, 2)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "meet", result.Items[1].EntityType)
	require.NotNil(t, result.Items[1].EntityID)
	assert.Equal(t, f.meets.meets[1].ID, *result.Items[1].EntityID)
}

func TestImportTimes(t *testing.T) {
	ctx := context.Background()

	t.Run("creates time with auto-created team and event", func(t *testing.T) {
		f := newImportFixture()
		f.addSwimmer("Katie", "Ledecky", "1997-03-17", nil)
		f.addMeet("Winter Classic", "2025-12-05")

		row := baseTimeRow()
		row.Splits = "50:24.00;100:50.10;150:1:16.01"
		result := f.service.ImportTimes(ctx, []TimeRow{row}, models.TeamTypeClub, "USA Swimming")

		assert.True(t, result.Success)
		assert.Equal(t, 1, result.CreatedCount)
		require.Len(t, f.times.times, 1)
		assert.Equal(t, 10155, f.times.times[0].TimeCentiseconds)
		assert.Len(t, f.times.times[0].Splits, 3)
		require.Len(t, f.teams.teams, 1)
		assert.Equal(t, models.TeamTypeClub, f.teams.teams[0].TeamType)
		require.Len(t, f.events.events, 1)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "1:41.55 (created)", result.Items[0].Message)
		assert.Equal(t, "swim_time", result.Items[0].EntityType)
		require.NotNil(t, result.Items[0].EntityID)
		assert.Equal(t, f.times.times[0].ID, *result.Items[0].EntityID)
	})

	t.Run("unresolved swimmer errors without aborting the batch", func(t *testing.T) {
		f := newImportFixture()
		f.addSwimmer("Katie", "Ledecky", "1997-03-17", nil)
		f.addMeet("Winter Classic", "2025-12-05")

		unknown := baseTimeRow()
		unknown.SwimmerFirstName = "Michael"
		unknown.SwimmerLastName = "Phelps"
		known := baseTimeRow()
		known.Line = 3

		result := f.service.ImportTimes(ctx, []TimeRow{unknown, known}, models.TeamTypeClub, "USA Swimming")

		assert.False(t, result.Success)
		assert.Equal(t, 1, result.ErrorCount)
		assert.Equal(t, 1, result.CreatedCount)
		require.Len(t, f.times.times, 1, "no swim time for the unresolved row")
		assert.Equal(t, ActionError, result.Items[0].Action)
		assert.Equal(t, 2, result.Items[0].Row)
	})

	t.Run("ambiguous name match errors", func(t *testing.T) {
		f := newImportFixture()
		f.addSwimmer("Katie", "Ledecky", "1997-03-17", nil)
		f.addSwimmer("Katie", "Ledecky", "2008-05-02", nil)
		f.addMeet("Winter Classic", "2025-12-05")

		result := f.service.ImportTimes(ctx, []TimeRow{baseTimeRow()}, models.TeamTypeClub, "USA Swimming")
		assert.Equal(t, 1, result.ErrorCount)
		assert.Contains(t, result.Items[0].Message, "USA Swimming ID")
	})

	t.Run("reimport updates instead of duplicating", func(t *testing.T) {
		f := newImportFixture()
		f.addSwimmer("Katie", "Ledecky", "1997-03-17", nil)
		f.addMeet("Winter Classic", "2025-12-05")

		first := f.service.ImportTimes(ctx, []TimeRow{baseTimeRow()}, models.TeamTypeClub, "USA Swimming")
		assert.Equal(t, 1, first.CreatedCount)

		faster := baseTimeRow()
		faster.Time = "1:40.90"
		second := f.service.ImportTimes(ctx, []TimeRow{faster}, models.TeamTypeClub, "USA Swimming")
		assert.Equal(t, 1, second.UpdatedCount)
		assert.Equal(t, 0, second.CreatedCount)
		require.Len(t, f.times.times, 1)
		assert.Equal(t, 10090, f.times.times[0].TimeCentiseconds)
		assert.Equal(t, "1:40.90 (updated)", second.Items[0].Message)
	})

	t.Run("per-run caches avoid repeated lookups", func(t *testing.T) {
		f := newImportFixture()
		f.addSwimmer("Katie", "Ledecky", "1997-03-17", nil)
		f.addMeet("Winter Classic", "2025-12-05")

		rows := make([]TimeRow, 3)
		for i := range rows {
			rows[i] = baseTimeRow()
			rows[i].Line = i + 2
			rows[i].SwimDate = date("2025-12-06").AddDate(0, 0, i)
		}
		result := f.service.ImportTimes(ctx, rows, models.TeamTypeClub, "USA Swimming")

		assert.Equal(t, 3, result.CreatedCount)
		assert.Equal(t, 1, f.swimmers.findByName)
		assert.Equal(t, 1, f.meets.findByName)
		assert.Equal(t, 1, f.teams.findByName)
		assert.Equal(t, 1, f.teams.createCnt)
		assert.Equal(t, 1, f.events.findByKey)
	})

	t.Run("invalid event definition errors", func(t *testing.T) {
		f := newImportFixture()
		f.addSwimmer("Katie", "Ledecky", "1997-03-17", nil)
		f.addMeet("Winter Classic", "2025-12-05")

		row := baseTimeRow()
		row.Distance = 1650
		row.Course = models.CourseLCM
		result := f.service.ImportTimes(ctx, []TimeRow{row}, models.TeamTypeClub, "USA Swimming")
		assert.Equal(t, 1, result.ErrorCount)
		assert.Empty(t, f.times.times)
	})
}
