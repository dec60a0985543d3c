package models

import (
	"time"

	"github.com/google/uuid"
)

type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	Address   *string   `json:"address" db:"address"`
	Notes     *string   `json:"notes" db:"notes"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerTaskCount pairs a customer with how many tasks reference it.
type CustomerTaskCount struct {
	Customer  Customer `json:"customer"`
	TaskCount int64    `json:"task_count"`
}
