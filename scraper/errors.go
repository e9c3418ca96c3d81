package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrEmptyAddress is returned when Fetch is called without an address.
var ErrEmptyAddress = errors.New("address is empty")

// FetchError reports a failure to retrieve the target page.
type FetchError struct {
	URL        string
	StatusCode int
	Kind       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt could succeed.
func (e *FetchError) Retryable() bool {
	switch e.Kind {
	case "timeout", "connection", "rate_limited", "server":
		return true
	default:
		return false
	}
}

// ErrTimeout is a page fetch that outlived Config.Timeout or the caller's context.
type ErrTimeout struct {
	Err error
}

func (e ErrTimeout) Error() string { return fmt.Sprintf("timeout: %v", e.Err) }

func (e ErrTimeout) Unwrap() error { return e.Err }

// ErrConnection is a catalogue host that could not be dialled or dropped the connection.
type ErrConnection struct {
	Err error
}

func (e ErrConnection) Error() string { return fmt.Sprintf("connection: %v", e.Err) }

func (e ErrConnection) Unwrap() error { return e.Err }

// ErrForbidden is a catalogue page answered with 403.
type ErrForbidden struct {
	Err error
}

func (e ErrForbidden) Error() string { return fmt.Sprintf("forbidden: %v", e.Err) }

func (e ErrForbidden) Unwrap() error { return e.Err }

// ErrNotFound is a catalogue page answered with 404, usually a mistyped category address.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string { return fmt.Sprintf("not_found: %v", e.Err) }

func (e ErrNotFound) Unwrap() error { return e.Err }

// ErrRateLimited is a 429 from the catalogue host. Retryable.
type ErrRateLimited struct {
	Err error
}

func (e ErrRateLimited) Error() string { return fmt.Sprintf("rate_limited: %v", e.Err) }

func (e ErrRateLimited) Unwrap() error { return e.Err }

// ErrServer is a 5xx from the catalogue host. Retryable.
type ErrServer struct {
	Err error
}

func (e ErrServer) Error() string { return fmt.Sprintf("server: %v", e.Err) }

func (e ErrServer) Unwrap() error { return e.Err }

// ErrStatus covers any other non-success status.
type ErrStatus struct {
	Err error
}

func (e ErrStatus) Error() string { return fmt.Sprintf("status: %v", e.Err) }

func (e ErrStatus) Unwrap() error { return e.Err }

// ErrDecode is a response whose content encoding could not be undone.
type ErrDecode struct {
	Encoding string
	Err      error
}

func (e ErrDecode) Error() string { return fmt.Sprintf("decode %s body: %v", e.Encoding, e.Err) }

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrBodyTooLarge is a page body longer than Config.MaxBodySize.
// The page is rejected rather than parsed truncated.
type ErrBodyTooLarge struct {
	Limit int
}

func (e ErrBodyTooLarge) Error() string {
	return fmt.Sprintf("body exceeds %d bytes", e.Limit)
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var timeout ErrTimeout
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var conn ErrConnection
	if errors.As(err, &conn) {
		return "connection"
	}
	var forbidden ErrForbidden
	if errors.As(err, &forbidden) {
		return "forbidden"
	}
	var notFound ErrNotFound
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var rateLimited ErrRateLimited
	if errors.As(err, &rateLimited) {
		return "rate_limited"
	}
	var server ErrServer
	if errors.As(err, &server) {
		return "server"
	}
	var status ErrStatus
	if errors.As(err, &status) {
		return "status"
	}
	var decode ErrDecode
	if errors.As(err, &decode) {
		return "decode"
	}
	var tooLarge ErrBodyTooLarge
	if errors.As(err, &tooLarge) {
		return "too_large"
	}
	if errors.Is(err, ErrEmptyAddress) {
		return "invalid_request"
	}
	return "other"
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	// Failures after a successful status are not status errors.
	var decode ErrDecode
	if errors.As(err, &decode) {
		return decode
	}
	var tooLarge ErrBodyTooLarge
	if errors.As(err, &tooLarge) {
		return tooLarge
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode >= http.StatusBadRequest || (statusCode != 0 && err != nil) {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch {
		case statusCode == http.StatusForbidden:
			return ErrForbidden{Err: wrapped}
		case statusCode == http.StatusNotFound:
			return ErrNotFound{Err: wrapped}
		case statusCode == http.StatusTooManyRequests:
			return ErrRateLimited{Err: wrapped}
		case statusCode >= http.StatusInternalServerError:
			return ErrServer{Err: wrapped}
		default:
			return ErrStatus{Err: wrapped}
		}
	}

	return err
}
