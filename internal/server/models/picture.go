package models

import "time"

// ProfilePicture is the single binary asset a user may have. Empty Data is
// treated the same as an absent row.
type ProfilePicture struct {
	UserID      int64
	Data        []byte
	ContentType string
	UpdatedAt   time.Time
}
