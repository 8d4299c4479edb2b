package capture

import (
	"errors"
	"fmt"
)

// UpstreamError is any failure talking to the ledger. No receipt exists and
// nothing may be persisted for the payload.
type UpstreamError struct {
	StatusCode int // zero for transport failures
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("capture api status %d: %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("capture api: %s: %v", e.Message, e.Err)
	}
	return "capture api: " + e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstream reports whether err came from the ledger.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
