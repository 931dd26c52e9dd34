package obs

import (
	"fmt"

	"github.com/go-errors/errors"
)

// ConnectionFailure kinds. The next call reconnects.
var (
	ErrConnectionFailed       = errors.New("OBS connection failed")
	ErrConnectionLost         = errors.New("OBS connection lost")
	ErrAuthenticationRequired = errors.New("OBS requires a password")
	ErrAuthenticationFailed   = errors.New("OBS rejected the password")
	ErrUnexpectedMessage      = errors.New("unexpected message from OBS")
	ErrClosed                 = errors.New("OBS client closed")
)

// ProtocolFailure kinds. The connection stays up.
var (
	ErrRequestFailed       = errors.New("OBS request failed")
	ErrMissingResponseData = errors.New("OBS response is missing responseData")
	ErrInvalidRequest      = errors.New("invalid OBS request data")
	ErrTimeout             = errors.New("timed out waiting for OBS")
)

// RequestError is returned when OBS answers with requestStatus.result false.
type RequestError struct {
	RequestType string
	Code        int
	Comment     string
}

func (e *RequestError) Error() string {
	if e.Comment == "" {
		return fmt.Sprintf("%s failed with code %d", e.RequestType, e.Code)
	}
	return fmt.Sprintf("%s failed with code %d: %s", e.RequestType, e.Code, e.Comment)
}

func (e *RequestError) Unwrap() error {
	return ErrRequestFailed
}
