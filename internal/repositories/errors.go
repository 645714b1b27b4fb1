package repositories

import "errors"

// Sentinel errors returned by repository implementations. Callers match with
// errors.Is; the GORM implementations translate driver errors into these.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)
