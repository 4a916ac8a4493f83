// Package models holds the server-side entity types mapped to the durable
// schema.
package models

import "time"

// User is a row of the usuarios table. PasswordHash is a PHC-encoded
// Argon2id string; the plaintext password never reaches this layer.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
