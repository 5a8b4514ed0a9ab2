package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type CreateUserInput struct {
	Name         string
	Email        string
	PasswordHash string
}

// Display attributes of an identity, the only user data the marketplace
// shows next to gigs and bids.
type UserSummary struct {
	Id    uuid.UUID
	Name  string
	Email string
}

type UserSummaryOutput struct {
	Id    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthOutputModel struct {
	User  UserSummaryOutput `json:"user"`
	Token string            `json:"token"`
}
