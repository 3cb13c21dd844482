package gateway

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Request describes one in-flight gateway call.
type Request struct {
	Method string
	URL    string
	// Body is sent as JSON when non-nil.
	Body any
	// Form is sent as application/x-www-form-urlencoded when non-nil. Takes precedence over Body.
	Form url.Values
	// Out receives the decoded payload when the response carries one.
	Out    any
	Header http.Header
}

// Response is the outcome of a successful call.
type Response struct {
	Status    int
	RequestID string
	// Payload is nil when the response has no JSON body (including 204).
	Payload json.RawMessage
}

// errorBody is the API error shape: {"detail": {"error_code": "...", "message": "..."}}.
// detail may also be a plain string.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

type errorDetail struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func parseErrorBody(payload json.RawMessage) (code, message string) {
	if len(payload) == 0 {
		return "", ""
	}
	var body errorBody
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", ""
	}
	message = body.Message
	if len(body.Detail) == 0 {
		return "", message
	}
	var detail errorDetail
	if err := json.Unmarshal(body.Detail, &detail); err == nil {
		if detail.Message != "" {
			message = detail.Message
		}
		return detail.ErrorCode, message
	}
	var text string
	if err := json.Unmarshal(body.Detail, &text); err == nil && text != "" {
		message = text
	}
	return "", message
}
