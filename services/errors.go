package services

import "errors"

// Shared service-layer errors, mapped to HTTP statuses in handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrSportNotFound       = errors.New("sport not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrCompetitionNotFound = errors.New("competition not found")

	ErrInvalidSyncWindow = errors.New("sync window end must not be before start")
)
