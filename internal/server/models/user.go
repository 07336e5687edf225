// Package models contains the persisted shapes shared by the repositories and
// the in-memory services.
package models

// User is a roster entry as stored durably. Runtime state (activity, mailbox)
// lives in the social registry.
type User struct {
	UserName string `json:"username"`
}
