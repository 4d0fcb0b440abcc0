package market

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// Op identifies a backend operation.
type Op string

// Backend operations.
const (
	OpSignup            Op = "signup"
	OpLogin             Op = "login"
	OpListModels        Op = "list_models"
	OpListMyModels      Op = "list_my_models"
	OpGetModel          Op = "get_model"
	OpUploadModel       Op = "upload_model"
	OpListPendingModels Op = "list_pending_models"
	OpListAdminModels   Op = "list_admin_models"
	OpUpdateModelStatus Op = "update_model_status"
)

var fallbackMessages = map[Op]string{
	OpSignup:            "Signup failed. Please try again.",
	OpLogin:             "Login failed. Please check your credentials.",
	OpListModels:        "Failed to fetch models.",
	OpListMyModels:      "Failed to fetch user models.",
	OpGetModel:          "Failed to fetch model details.",
	OpUploadModel:       "Failed to upload model.",
	OpListPendingModels: "Failed to fetch pending models.",
	OpListAdminModels:   "Failed to fetch admin models.",
	OpUpdateModelStatus: "Failed to update model status.",
}

// FallbackMessage returns the message used when nothing better is known about a failure.
func (op Op) FallbackMessage() string {
	if msg, ok := fallbackMessages[op]; ok {
		return msg
	}
	return "Request failed."
}

// ErrMalformedResponse is the cause recorded when a successful response body is not JSON.
var ErrMalformedResponse = errors.New("market: response body is not json")

// Error is the single normalized failure returned by every Client operation.
// Status is the HTTP status code, or 0 when no response arrived.
type Error struct {
	Op      Op
	Status  int
	Message string
	Err     error
}

// Error returns the human-readable message.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap exposes the underlying transport or decode error for logging.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// newError picks the message for a failed call.
// Priority: server message, joined server errors (upload only), transport error text, fallback.
func newError(op Op, status int, body []byte, cause error) *Error {
	message := ""
	if len(body) > 0 && gjson.ValidBytes(body) {
		parsed := gjson.ParseBytes(body)
		message = strings.TrimSpace(parsed.Get("message").String())
		if message == "" && op == OpUploadModel {
			message = joinErrors(parsed.Get("errors"))
		}
	}
	if message == "" && cause != nil {
		message = strings.TrimSpace(cause.Error())
	}
	if message == "" {
		message = op.FallbackMessage()
	}
	return &Error{Op: op, Status: status, Message: message, Err: cause}
}

func joinErrors(list gjson.Result) string {
	if !list.IsArray() {
		return ""
	}
	parts := make([]string, 0, len(list.Array()))
	for _, item := range list.Array() {
		text := item.String()
		if item.IsObject() {
			text = item.Get("msg").String()
			if text == "" {
				text = item.Get("message").String()
			}
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, ", ")
}
