package repository

import "errors"

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task update or delete matches no row
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotificationNotFound is returned when a notification status change matches no row
	ErrNotificationNotFound = errors.New("notification not found")
)
