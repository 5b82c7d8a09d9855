// Package model defines the data structures used throughout the application.
package model

// User is a registered author. ID is assigned by the store on insert and never
// changes; Email is unique across all users.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch is a partial update. A nil field means "leave unchanged".
type UserPatch struct {
	Name  *string
	Email *string
}

// IsEmpty reports whether the patch carries no deltas at all.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil
}

// UserFilter narrows a user listing. Empty fields match everything;
// non-empty fields are substring matches.
type UserFilter struct {
	Name  string
	Email string
}
