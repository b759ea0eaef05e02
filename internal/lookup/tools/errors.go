package tools

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDomain is returned when the argument has no extractable TLD
	// or is not a syntactically valid domain name.
	ErrInvalidDomain = errors.New("invalid domain format")

	// ErrInvalidPort is returned for ports outside 1..65535.
	ErrInvalidPort = errors.New("invalid port")

	// ErrNoRDAPServer means the bootstrap registry has no usable entry for a TLD.
	ErrNoRDAPServer = errors.New("no RDAP server found")

	// ErrNoWHOISServer means the root referral named no WHOIS server for a TLD.
	ErrNoWHOISServer = errors.New("no WHOIS server found")
)

// TimeoutError reports that a bounded network step ran out of time.
type TimeoutError struct {
	Op     string
	Target string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timeout for %s", e.Op, e.Target)
}

// HTTPStatusError is returned for non-2xx HTTP responses.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// IsTimeout reports whether err is, or wraps, a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
