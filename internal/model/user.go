package model

import (
	"bytes"

	"github.com/deppfellow/usercheck/internal/validation"
)

// User is a user record as returned by users.get.
type User struct {
	ID        int    `json:"id" mapstructure:"id" validate:"gte=0"`
	FirstName string `json:"first_name" mapstructure:"first_name" validate:"required"`
	LastName  string `json:"last_name" mapstructure:"last_name" validate:"required"`
}

func (u *User) Validate() error {
	return validation.Struct(u)
}

// NewUser builds a User from a mapping.
func NewUser(input map[string]any) (User, error) {
	var u User
	if err := validation.Decode(input, &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// NewUsers builds one User per record, in order.
//
// The first invalid record fails the whole list; its index prefixes the
// reported field paths. An empty input yields an empty, non-nil slice.
func NewUsers(records []map[string]any) ([]User, error) {
	users := make([]User, 0, len(records))
	for i, record := range records {
		u, err := NewUser(record)
		if err != nil {
			return nil, validation.AtIndex(err, i)
		}
		users = append(users, u)
	}
	return users, nil
}

// ParseUser builds a User from a JSON object.
func ParseUser(data []byte) (User, error) {
	input, err := validation.DecodeJSONObject(bytes.NewReader(data))
	if err != nil {
		return User{}, err
	}
	return NewUser(input)
}

// ParseUsers builds Users from a JSON array of objects.
func ParseUsers(data []byte) ([]User, error) {
	records, err := validation.DecodeJSONArray(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return NewUsers(records)
}

// ValidateUsersRequest is the body of a bulk user validation call.
//
// Users holds raw JSON values; Records checks that each one is an object.
type ValidateUsersRequest struct {
	Users []any `json:"users" mapstructure:"users" validate:"max=1000"`
}

func (r *ValidateUsersRequest) Validate() error {
	return validation.Struct(r)
}

// Records returns the users of the request as objects, failing on the first
// element that is not one.
func (r *ValidateUsersRequest) Records() ([]map[string]any, error) {
	return validation.Objects(r.Users)
}
