package models

import (
	"time"
)

type Message struct {
	ID     int64
	Body   string
	SentAt time.Time
	ReadAt *time.Time // nil if message not read yet

	// Only one of them is set depending on direction the message was queried
	FromUser *UserContact
	ToUser   *UserContact
}
