package models

import "time"

// Answer is a reply to a question. OwnerUUID is immutable after creation.
type Answer struct {
	ID           string
	UUID         string
	QuestionUUID string
	OwnerUUID    string
	Content      string
	CreatedAt    time.Time
}
