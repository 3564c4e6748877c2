package services

import (
	"errors"
	"fmt"
)

// Класи помилок підсистеми Spotify
var (
	ErrConfiguration       = errors.New("server configuration error")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrNotConnected        = errors.New("spotify not connected")
	ErrUpstreamAuth        = errors.New("spotify rejected credentials")
	ErrUpstreamUnavailable = errors.New("spotify unavailable")
	ErrStore               = errors.New("token store error")
	ErrFetchFailed         = errors.New("spotify fetch failed")
)

// ErrRecordMissing повертається сховищем токенів, коли запису для користувача немає
var ErrRecordMissing = errors.New("token record not found")

// Кроки, на яких може статися помилка
const (
	StepValidate      = "validate"
	StepExchange      = "exchange"
	StepRefresh       = "refresh"
	StepRefreshLock   = "refresh_lock"
	StepStoreRead     = "store_read"
	StepStoreWrite    = "store_write"
	StepClientToken   = "client_credentials"
	StepFetch         = "fetch"
	StepAuthorizeURL  = "authorize_url"
	StepCompatibility = "compatibility"
)

// StepError описує, на якому кроці і з яким класом сталася помилка
type StepError struct {
	Step string
	Kind error
	Err  error
}

func (e *StepError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Step, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Step, e.Kind, e.Err)
}

// Unwrap дозволяє errors.Is працювати як з класом, так і з причиною
func (e *StepError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func stepError(step string, kind, err error) error {
	return &StepError{Step: step, Kind: kind, Err: err}
}

// FailedStep повертає назву кроку, на якому сталася помилка, або порожній рядок
func FailedStep(err error) string {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}
