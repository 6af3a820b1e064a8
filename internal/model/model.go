// Package model holds the records exchanged with clients and the upstream
// users API: the access-token request and the user record.
//
// Records are built from loosely typed mappings (decoded JSON) through the
// New* constructors, which fail with an error matching errs.ErrInvalidValue
// when a field is missing or has the wrong type.
package model

// MaxUsersPerRequest caps how many user records or ids a single request may carry.
const MaxUsersPerRequest = 1000
