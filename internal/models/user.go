package models

import (
	"time"
)

type User struct {
	Username       string
	HashedPassword string // empty unless explicitly requested
	FirstName      string
	LastName       string
	Phone          string
	JoinAt         time.Time
	LastLoginAt    time.Time
}

// Basic user info returned on listing
type UserSummary struct {
	Username  string
	FirstName string
	LastName  string
}

// User info embedded into messages
type UserContact struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}
