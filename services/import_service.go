package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/silverbeer/swimcuttimes/models"
	"github.com/silverbeer/swimcuttimes/parser"
	"github.com/silverbeer/swimcuttimes/repositories"
)

// ImportService turns validated CSV rows into persisted records. Rows are
// processed strictly in order — later rows may depend on entities created
// earlier in the batch — and every row is isolated: one row's failure is
// recorded and the batch continues.
type ImportService interface {
	ImportRoster(ctx context.Context, rows []RosterRow) *ImportResult
	ImportMeets(ctx context.Context, rows []MeetRow) *ImportResult
	ImportTimes(ctx context.Context, rows []TimeRow, defaultTeamType models.TeamType, defaultSanctioningBody string) *ImportResult
}

type importService struct {
	swimmerRepo  repositories.SwimmerRepository
	meetRepo     repositories.MeetRepository
	teamRepo     repositories.TeamRepository
	eventRepo    repositories.EventRepository
	swimTimeRepo repositories.SwimTimeRepository
	logger       *slog.Logger
}

func NewImportService(
	swimmerRepo repositories.SwimmerRepository,
	meetRepo repositories.MeetRepository,
	teamRepo repositories.TeamRepository,
	eventRepo repositories.EventRepository,
	swimTimeRepo repositories.SwimTimeRepository,
	logger *slog.Logger,
) ImportService {
	return &importService{
		swimmerRepo:  swimmerRepo,
		meetRepo:     meetRepo,
		teamRepo:     teamRepo,
		eventRepo:    eventRepo,
		swimTimeRepo: swimTimeRepo,
		logger:       logger,
	}
}

// ImportRoster finds or creates a swimmer per row. Federation ID takes
// priority over the (name, date of birth) triple; a matched record missing
// its USA Swimming ID gets it backfilled from the row.
func (s *importService) ImportRoster(ctx context.Context, rows []RosterRow) *ImportResult {
	result := NewImportResult()

	for _, row := range rows {
		action, swimmer, err := s.importRosterRow(ctx, row)
		if err != nil {
			result.AddError(row.Line, err.Error())
			continue
		}
		message := fmt.Sprintf("%s %s (%s)", row.FirstName, row.LastName, action)
		switch action {
		case ActionCreated:
			result.AddCreated(row.Line, "swimmer", swimmer.ID, message)
		default:
			result.AddUpdated(row.Line, "swimmer", swimmer.ID, message)
		}
	}

	s.logger.InfoContext(ctx, "roster import finished", slog.String("summary", result.Summary()))
	return result
}

func (s *importService) importRosterRow(ctx context.Context, row RosterRow) (ImportAction, *models.Swimmer, error) {
	if row.USASwimmingID != nil {
		swimmer, err := s.swimmerRepo.FindByUSASwimmingID(ctx, *row.USASwimmingID)
		if err == nil {
			return ActionUpdated, swimmer, nil
		}
		if !errors.Is(err, repositories.ErrSwimmerNotFound) {
			return ActionError, nil, fmt.Errorf("swimmer lookup failed: %w", err)
		}
	}

	swimmer, err := s.swimmerRepo.FindByNameAndDOB(ctx, row.FirstName, row.LastName, row.DateOfBirth)
	if err == nil {
		if row.USASwimmingID != nil && swimmer.USASwimmingID == nil {
			swimmer.USASwimmingID = row.USASwimmingID
			if err := s.swimmerRepo.Update(ctx, swimmer); err != nil {
				return ActionError, nil, fmt.Errorf("failed to backfill USA Swimming ID: %w", err)
			}
		}
		return ActionUpdated, swimmer, nil
	}
	if !errors.Is(err, repositories.ErrSwimmerNotFound) {
		return ActionError, nil, fmt.Errorf("swimmer lookup failed: %w", err)
	}

	created := &models.Swimmer{
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		DateOfBirth:   row.DateOfBirth,
		Gender:        row.Gender,
		USASwimmingID: row.USASwimmingID,
	}
	if err := s.swimmerRepo.Create(ctx, created); err != nil {
		return ActionError, nil, fmt.Errorf("failed to create swimmer: %w", err)
	}
	return ActionCreated, created, nil
}

// ImportMeets finds or creates a meet per row by (name, start date).
func (s *importService) ImportMeets(ctx context.Context, rows []MeetRow) *ImportResult {
	result := NewImportResult()

	for _, row := range rows {
		message := fmt.Sprintf("%s (%s)", row.Name, row.StartDate.Format("2006-01-02"))

		existing, err := s.meetRepo.FindByNameAndDate(ctx, row.Name, row.StartDate)
		if err == nil {
			result.AddUpdated(row.Line, "meet", existing.ID, message+" (updated)")
			continue
		}
		if !errors.Is(err, repositories.ErrMeetNotFound) {
			result.AddError(row.Line, fmt.Sprintf("meet lookup failed: %v", err))
			continue
		}

		meet := &models.Meet{
			Name:            row.Name,
			Location:        row.Location,
			City:            row.City,
			State:           row.State,
			Country:         row.Country,
			StartDate:       row.StartDate,
			EndDate:         row.EndDate,
			Course:          row.Course,
			Lanes:           row.Lanes,
			Indoor:          row.Indoor,
			SanctioningBody: row.SanctioningBody,
			MeetType:        row.MeetType,
		}
		if err := s.meetRepo.Create(ctx, meet); err != nil {
			result.AddError(row.Line, fmt.Sprintf("failed to create meet: %v", err))
			continue
		}
		result.AddCreated(row.Line, "meet", meet.ID, message+" (created)")
	}

	s.logger.InfoContext(ctx, "meet import finished", slog.String("summary", result.Summary()))
	return result
}

// importCaches hold per-run resolution results keyed by natural key. A
// fresh set is built for every ImportTimes call; they are not shared
// across invocations and are not safe for concurrent use.
type importCaches struct {
	swimmers map[string]*models.Swimmer
	meets    map[string]*models.Meet
	teams    map[string]*models.Team
	events   map[eventKey]*models.Event
}

type eventKey struct {
	distance int
	stroke   models.Stroke
	course   models.Course
}

func newImportCaches() *importCaches {
	return &importCaches{
		swimmers: make(map[string]*models.Swimmer),
		meets:    make(map[string]*models.Meet),
		teams:    make(map[string]*models.Team),
		events:   make(map[eventKey]*models.Event),
	}
}

// ImportTimes resolves each row's swimmer, meet, team, and event, then
// upserts the swim time by its (swimmer, event, meet, date) natural key.
// Team resolution auto-creates with the supplied defaults and never fails
// a row; swimmer and meet resolution failures skip the row with an error.
func (s *importService) ImportTimes(ctx context.Context, rows []TimeRow, defaultTeamType models.TeamType, defaultSanctioningBody string) *ImportResult {
	result := NewImportResult()
	caches := newImportCaches()

	for _, row := range rows {
		s.importTimeRow(ctx, caches, row, defaultTeamType, defaultSanctioningBody, result)
	}

	s.logger.InfoContext(ctx, "times import finished", slog.String("summary", result.Summary()))
	return result
}

func (s *importService) importTimeRow(
	ctx context.Context,
	caches *importCaches,
	row TimeRow,
	defaultTeamType models.TeamType,
	defaultSanctioningBody string,
	result *ImportResult,
) {
	swimmer, err := s.resolveSwimmer(ctx, caches, row)
	if err != nil {
		result.AddError(row.Line, err.Error())
		return
	}

	meet, err := s.resolveMeet(ctx, caches, row.MeetName)
	if err != nil {
		result.AddError(row.Line, err.Error())
		return
	}

	team, err := s.resolveTeam(ctx, caches, row.TeamName, defaultTeamType, defaultSanctioningBody)
	if err != nil {
		result.AddError(row.Line, err.Error())
		return
	}

	event, err := s.resolveEvent(ctx, caches, row.Distance, row.Stroke, row.Course)
	if err != nil {
		result.AddError(row.Line, err.Error())
		return
	}

	centiseconds, err := parser.ParseTimeString(row.Time)
	if err != nil {
		result.AddError(row.Line, fmt.Sprintf("time: %v", err))
		return
	}

	splits, err := parser.ParseSplitsString(row.Splits, row.Distance, centiseconds)
	if err != nil {
		result.AddError(row.Line, fmt.Sprintf("splits: %v", err))
		return
	}

	formatted := parser.FormatCentiseconds(centiseconds)

	existing, err := s.swimTimeRepo.FindByNaturalKey(ctx, swimmer.ID, event.ID, meet.ID, row.SwimDate)
	switch {
	case err == nil:
		existing.TeamID = team.ID
		existing.TimeCentiseconds = centiseconds
		existing.Round = row.Round
		existing.Lane = row.Lane
		existing.Place = row.Place
		existing.Official = row.Official
		existing.DQ = row.DQ
		existing.DQReason = row.DQReason
		existing.Splits = splits
		if err := s.swimTimeRepo.Update(ctx, existing); err != nil {
			result.AddError(row.Line, fmt.Sprintf("failed to update swim time: %v", err))
			return
		}
		result.AddUpdated(row.Line, "swim_time", existing.ID, formatted+" (updated)")

	case errors.Is(err, repositories.ErrSwimTimeNotFound):
		swimTime := &models.SwimTime{
			SwimmerID:        swimmer.ID,
			EventID:          event.ID,
			MeetID:           meet.ID,
			TeamID:           team.ID,
			TimeCentiseconds: centiseconds,
			SwimDate:         row.SwimDate,
			Round:            row.Round,
			Lane:             row.Lane,
			Place:            row.Place,
			Official:         row.Official,
			DQ:               row.DQ,
			DQReason:         row.DQReason,
			Splits:           splits,
		}
		if err := s.swimTimeRepo.Create(ctx, swimTime); err != nil {
			// A concurrent import may have landed the same natural key
			// between the lookup and the insert.
			result.AddError(row.Line, fmt.Sprintf("failed to create swim time: %v", err))
			return
		}
		result.AddCreated(row.Line, "swim_time", swimTime.ID, formatted+" (created)")

	default:
		result.AddError(row.Line, fmt.Sprintf("swim time lookup failed: %v", err))
	}
}

func (s *importService) resolveSwimmer(ctx context.Context, caches *importCaches, row TimeRow) (*models.Swimmer, error) {
	hasName := row.SwimmerFirstName != "" && row.SwimmerLastName != ""

	if row.USASwimmingID != nil {
		key := "id:" + *row.USASwimmingID
		if swimmer, ok := caches.swimmers[key]; ok {
			return swimmer, nil
		}
		swimmer, err := s.swimmerRepo.FindByUSASwimmingID(ctx, *row.USASwimmingID)
		if err == nil {
			caches.swimmers[key] = swimmer
			return swimmer, nil
		}
		if !errors.Is(err, repositories.ErrSwimmerNotFound) {
			return nil, fmt.Errorf("swimmer lookup failed: %w", err)
		}
		if !hasName {
			return nil, fmt.Errorf("no swimmer with USA Swimming ID %s", *row.USASwimmingID)
		}
	}

	if !hasName {
		return nil, errors.New("row has no swimmer identifier")
	}

	key := "name:" + nameKey(row.SwimmerFirstName, row.SwimmerLastName)
	if swimmer, ok := caches.swimmers[key]; ok {
		return swimmer, nil
	}

	matches, err := s.swimmerRepo.FindByName(ctx, row.SwimmerFirstName, row.SwimmerLastName)
	if err != nil {
		return nil, fmt.Errorf("swimmer lookup failed: %w", err)
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no swimmer named %s %s", row.SwimmerFirstName, row.SwimmerLastName)
	case 1:
		swimmer := &matches[0]
		caches.swimmers[key] = swimmer
		return swimmer, nil
	default:
		return nil, fmt.Errorf("%d swimmers named %s %s, row needs a USA Swimming ID", len(matches), row.SwimmerFirstName, row.SwimmerLastName)
	}
}

func (s *importService) resolveMeet(ctx context.Context, caches *importCaches, name string) (*models.Meet, error) {
	key := strings.ToLower(name)
	if meet, ok := caches.meets[key]; ok {
		return meet, nil
	}

	matches, err := s.meetRepo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, repositories.ErrMeetNotFound) {
		return nil, fmt.Errorf("meet lookup failed: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no meet named %q", name)
	}

	// Prefer the exact case-insensitive match over partial ones.
	meet := &matches[0]
	for i := range matches {
		if strings.EqualFold(matches[i].Name, name) {
			meet = &matches[i]
			break
		}
	}
	caches.meets[key] = meet
	return meet, nil
}

func (s *importService) resolveTeam(ctx context.Context, caches *importCaches, name string, defaultType models.TeamType, defaultSanctioningBody string) (*models.Team, error) {
	key := strings.ToLower(name)
	if team, ok := caches.teams[key]; ok {
		return team, nil
	}

	team, err := s.teamRepo.FindByName(ctx, name)
	if err == nil {
		caches.teams[key] = team
		return team, nil
	}
	if !errors.Is(err, repositories.ErrTeamNotFound) {
		return nil, fmt.Errorf("team lookup failed: %w", err)
	}

	team = &models.Team{
		Name:            name,
		TeamType:        defaultType,
		SanctioningBody: defaultSanctioningBody,
	}
	err = s.teamRepo.Create(ctx, team)
	if errors.Is(err, repositories.ErrTeamNameConflict) {
		// Lost a create race against a concurrent import; the team exists now.
		team, err = s.teamRepo.FindByName(ctx, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create team %q: %w", name, err)
	}
	caches.teams[key] = team
	return team, nil
}

func (s *importService) resolveEvent(ctx context.Context, caches *importCaches, distance int, stroke models.Stroke, course models.Course) (*models.Event, error) {
	key := eventKey{distance: distance, stroke: stroke, course: course}
	if event, ok := caches.events[key]; ok {
		return event, nil
	}

	event, err := s.eventRepo.FindByKey(ctx, stroke, distance, course)
	if err == nil {
		caches.events[key] = event
		return event, nil
	}
	if !errors.Is(err, repositories.ErrEventNotFound) {
		return nil, fmt.Errorf("event lookup failed: %w", err)
	}

	event = &models.Event{Stroke: stroke, Distance: distance, Course: course}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	err = s.eventRepo.Create(ctx, event)
	if errors.Is(err, repositories.ErrEventConflict) {
		event, err = s.eventRepo.FindByKey(ctx, stroke, distance, course)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	caches.events[key] = event
	return event, nil
}
