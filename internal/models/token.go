package models

import (
	"bytes"
	"strconv"
	"time"
)

type AccessToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (t AccessToken) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

type TokenResponse struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   Seconds `json:"expires_in"`
}

// Seconds decodes a duration in seconds sent either as a JSON number or a numeric string.
type Seconds int64

func (s *Seconds) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*s = 0
		return nil
	}

	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}

	*s = Seconds(v)
	return nil
}

func (s Seconds) Duration() time.Duration {
	return time.Duration(s) * time.Second
}
