package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrStatus is wrapped by outcomes carrying a non-2xx response.
	ErrStatus = errors.New("unexpected response status")
	// ErrNotJSON is wrapped by outcomes whose 2xx body is not a JSON object or array.
	ErrNotJSON = errors.New("response body is not a JSON object or array")
	// ErrUnavailable is wrapped by outcomes rejected by the circuit breaker.
	ErrUnavailable = errors.New("backend temporarily unavailable")
)

// FailureClass classifies why a call did not produce a usable payload.
type FailureClass int

const (
	FailureNone        FailureClass = iota
	FailureNetwork                  // Unreachable, timed out or cancelled
	FailureStatus                   // Non-2xx response
	FailureDecode                   // 2xx with a body that is not a JSON object/array
	FailureUnavailable              // Circuit breaker open
)

func (c FailureClass) String() string {
	switch c {
	case FailureNone:
		return "none"
	case FailureNetwork:
		return "network"
	case FailureStatus:
		return "status"
	case FailureDecode:
		return "decode"
	case FailureUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("FailureClass(%d)", int(c))
	}
}

// Outcome is the result of one transport call. Transport methods never
// return a bare error; callers branch on OK.
type Outcome struct {
	Payload   json.RawMessage // Response body; set only when OK
	Class     FailureClass
	Status    int    // HTTP status, 0 when no response was received
	Detail    string // Backend supplied "detail" message on non-2xx, if any
	Err       error
	RequestID string
}

// OK reports whether the call produced a usable JSON payload.
func (o Outcome) OK() bool { return o.Class == FailureNone }

// Message returns a short human readable reason for a failed outcome.
func (o Outcome) Message() string {
	switch o.Class {
	case FailureNone:
		return ""
	case FailureStatus:
		if o.Detail != "" {
			return fmt.Sprintf("HTTP %d: %s", o.Status, o.Detail)
		}
		return fmt.Sprintf("HTTP %d", o.Status)
	case FailureUnavailable:
		return "服务暂不可用"
	case FailureDecode:
		return "响应格式错误"
	default:
		return "网络错误"
	}
}

// Decode unmarshals a successful outcome's payload into T.
// It returns false for failed outcomes and for payloads that do not fit T.
func Decode[T any](o Outcome) (T, bool) {
	var v T
	if !o.OK() {
		return v, false
	}
	if err := json.Unmarshal(o.Payload, &v); err != nil {
		return v, false
	}
	return v, true
}

func failed(class FailureClass, status int, err error) Outcome {
	return Outcome{Class: class, Status: status, Err: err}
}
