package models

import "time"

// AppUser is an operator account. Password holds the bcrypt hash once stored.
type AppUser struct {
	ID        int64     `json:"id" db:"id" bson:"id"`
	Name      string    `json:"name" db:"name" bson:"name"`
	Email     string    `json:"email" db:"email" bson:"email"`
	Role      string    `json:"role" db:"role" bson:"role"`
	Password  string    `json:"password,omitempty" db:"password_hash" bson:"password_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at" bson:"created_at"`
}
