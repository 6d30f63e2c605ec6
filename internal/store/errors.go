package store

import "errors"

// Errors wrapped around failures of actions whose outcome a user is shown.
var (
	ErrLoadDepts      = errors.New("failed to load departments")
	ErrLoadJobs       = errors.New("failed to load jobs")
	ErrRegisterOffice = errors.New("office registration failed")
	ErrCreateRoom     = errors.New("room creation failed")
	ErrEditRoom       = errors.New("failed to edit room")
	ErrDeleteRoom     = errors.New("failed to delete room")
	ErrToggleTodo     = errors.New("failed to update todo")
)
