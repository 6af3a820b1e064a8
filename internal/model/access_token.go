package model

import (
	"bytes"

	"github.com/deppfellow/usercheck/internal/validation"
)

// AccessTokenRequest carries the token a caller presents to the users API.
//
// Only presence and type are checked; the token itself is opaque.
type AccessTokenRequest struct {
	AccessToken string `json:"access_token" mapstructure:"access_token" validate:"required"`
}

func (r *AccessTokenRequest) Validate() error {
	return validation.Struct(r)
}

// NewAccessTokenRequest builds an AccessTokenRequest from a mapping.
func NewAccessTokenRequest(input map[string]any) (AccessTokenRequest, error) {
	var req AccessTokenRequest
	if err := validation.Decode(input, &req); err != nil {
		return AccessTokenRequest{}, err
	}
	return req, nil
}

// ParseAccessTokenRequest builds an AccessTokenRequest from a JSON object.
func ParseAccessTokenRequest(data []byte) (AccessTokenRequest, error) {
	input, err := validation.DecodeJSONObject(bytes.NewReader(data))
	if err != nil {
		return AccessTokenRequest{}, err
	}
	return NewAccessTokenRequest(input)
}
