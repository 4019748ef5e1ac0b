// Package models holds the persisted account types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is one registered account. Password holds the argon2id encoded hash
// once stored; it never leaves the server.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}
