package services

import "errors"

// Errors shared across services and the HTTP mapping layer.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Authentication
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrEmailTaken         = errors.New("email address is already in use")

	// Business rules
	ErrSwimmerNameRequired    = errors.New("swimmer first and last name are required")
	ErrTeamNameRequired       = errors.New("team name is required")
	ErrMeetNameRequired       = errors.New("meet name is required")
	ErrMeetInvalidDateRange   = errors.New("meet end date must not be before start date")
	ErrMeetInvalidLanes       = errors.New("meet lane count must be 6, 8, or 10")
	ErrInvalidEventDefinition = errors.New("invalid event definition")
	ErrInvalidGender          = errors.New("gender must be M or F")
	ErrBirthDateInFuture      = errors.New("date of birth cannot be in the future")
	ErrTimeNotPositive        = errors.New("time must be positive")
	ErrInvalidLane            = errors.New("lane must be between 1 and 10")
	ErrStandardYearRequired   = errors.New("time standard effective year is required")
	ErrSuitBrandRequired      = errors.New("suit brand and model name are required")
	ErrSuitInvalidLifespan    = errors.New("suit expected race counts must be positive")
	ErrSuitAlreadyRetired     = errors.New("suit is already retired")

	// Conflicts surfaced from repositories
	ErrSwimmerUSAIDConflict = errors.New("a swimmer with that USA Swimming ID already exists")
	ErrTeamNameConflict     = errors.New("team name is already in use")
	ErrMeetConflict         = errors.New("a meet with that name and start date already exists")
	ErrEventConflict        = errors.New("that event already exists")
	ErrSwimTimeConflict     = errors.New("a time for that swimmer, event, meet, and date already exists")
	ErrStandardConflict     = errors.New("that time standard already exists")
	ErrSuitModelConflict    = errors.New("that suit model already exists")
	ErrAlreadyFollowing     = errors.New("already following that swimmer")

	// Entity lookups
	ErrSwimmerNotFound      = errors.New("swimmer not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrMeetNotFound         = errors.New("meet not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrSwimTimeNotFound     = errors.New("swim time not found")
	ErrTimeStandardNotFound = errors.New("time standard not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrSuitModelNotFound    = errors.New("suit model not found")
	ErrSwimmerSuitNotFound  = errors.New("swimmer suit not found")
	ErrFollowNotFound       = errors.New("follow not found")

	// Authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")
)
