package http

import (
	"encoding/json"
	"net/http"
)

const (
	codeMethodNotAllowed   = "method_not_allowed"
	codeNotFound           = "not_found"
	codeInvalidRequestBody = "invalid_request_body"
	codeOrganizerRequired  = "organizer_required"
	codeInvalidDateRange   = "invalid_date_range"
	codeInvalidDate        = "invalid_date"
	codeInvalidEventID     = "invalid_event_id"
	codeEventNotFound      = "event_not_found"
	codeEventForbidden     = "event_forbidden"
	codeTitleRequired      = "title_required"
	codeInvalidCapacity    = "invalid_capacity"
	codeInvalidPrice       = "invalid_price"
	codeInvalidSchedule    = "invalid_schedule"
	codeInvalidStatus      = "invalid_status"
	codeInvalidTransition  = "invalid_transition"
	codeEventNotEditable   = "event_not_editable"
	codeExportFailed       = "export_failed"
	codeInternalError      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{
		Error: msg,
		Code:  code,
	})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}
