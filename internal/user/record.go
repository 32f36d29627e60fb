// Package user defines the profile records kept per owner and the
// pagination types used when listing them.
package user

// Record is one profile entry stored under its owner's identity.
// A nil ProfilePicture means no picture was provided.
type Record struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	ProfilePicture []byte `json:"profile_pic"`
}

// Username returns the record's name.
func (r *Record) Username() string {
	return r.Name
}

// SetUsername replaces the record's name.
func (r *Record) SetUsername(name string) {
	r.Name = name
}
