package models

import "strings"

// Response is the bridge's answer to one Request. Nothing is thrown across
// the boundary: failures come back with Success false and Error set.
type Response struct {
	Success bool `json:"success" yaml:"success"`

	Tables []TableInfo `json:"tables,omitzero" yaml:"tables,omitempty"`
	Page   *PageInfo   `json:"page,omitempty" yaml:"page,omitempty"`

	Data   [][]string   `json:"data,omitzero" yaml:"data,omitempty"`
	Faults []TableFault `json:"faults,omitempty" yaml:"faults,omitempty"`

	Removed int `json:"removed,omitempty" yaml:"removed,omitempty"`

	Error            string   `json:"error,omitempty" yaml:"error,omitempty"`
	ErrorType        string   `json:"errorType,omitempty" yaml:"error_type,omitempty"`
	SuggestedActions []string `json:"suggestedActions,omitempty" yaml:"suggested_actions,omitempty"`
}

// TableFault reports a table that contributed no rows because extracting it
// failed.
type TableFault struct {
	Table int    `json:"table" yaml:"table"`
	Error string `json:"error" yaml:"error"`
}

// NewErrorResponse creates a failed response.
func NewErrorResponse(errType, message string, suggested ...string) Response {
	return Response{
		Success:          false,
		Error:            message,
		ErrorType:        errType,
		SuggestedActions: suggested,
	}
}

// NewUnknownActionResponse creates a response for unknown actions.
func NewUnknownActionResponse(action, suggestion string) Response {
	msg := "Action '" + action + "' not recognized"
	if suggestion != "" {
		msg += ". Did you mean '" + suggestion + "'?"
	}
	return NewErrorResponse("unknown_action", msg,
		"Valid actions: "+strings.Join(AllActions(), ", "))
}
