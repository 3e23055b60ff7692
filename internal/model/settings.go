package model

import "time"

// Setting is a key-value override stored in the database.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
