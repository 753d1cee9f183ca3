package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")

	ErrPersistenceRead  = errors.New("failed to read persisted state")
	ErrPersistenceWrite = errors.New("failed to write persisted state")
)

var (
	ErrHabitNameEmpty         = fmt.Errorf("%w: habit name cannot be empty", ErrInvalidArgument)
	ErrHabitNameTooLong       = fmt.Errorf("%w: habit name is too long (max %d chars)", ErrInvalidArgument, MaxNameLen)
	ErrInvalidTargetFrequency = fmt.Errorf("%w: target frequency must be between %d and %d", ErrInvalidArgument, MinTargetFrequency, MaxTargetFrequency)

	ErrHabitNotFound = fmt.Errorf("habit %w", ErrNotFound)
)
