package models

import "time"

// Question is a forum question. OwnerUUID is set from the acting session's
// subject at creation and never reassigned.
type Question struct {
	ID        string
	UUID      string
	OwnerUUID string
	Content   string
	CreatedAt time.Time
}
