// Package bridge is the message channel between the three jobfill
// contexts: coordinator, page inspectors and UI surfaces. Peers never
// share memory; everything crosses the bridge as a tagged message with
// at most one response per request.
package bridge

import (
	"encoding/json"
	"fmt"
)

// Kind is the discriminant tag of a message. The receiving side
// dispatches on it and must answer exactly once.
type Kind string

const (
	KindGetUserProfile    Kind = "GET_USER_PROFILE"
	KindUpdateUserProfile Kind = "UPDATE_USER_PROFILE"
	KindGetSiteConfig     Kind = "GET_SITE_CONFIG"
	KindUpdateSiteConfig  Kind = "UPDATE_SITE_CONFIG"
	KindAutofillForm      Kind = "AUTOFILL_FORM"
	KindDetectForms       Kind = "DETECT_FORMS"
	KindGetFormData       Kind = "GET_FORM_DATA"

	// Notifications: fire-and-forget, no response.
	KindFormsDetected   Kind = "FORMS_DETECTED"
	KindJobSiteDetected Kind = "JOB_SITE_DETECTED"
)

// Notification reports whether k is fire-and-forget.
func (k Kind) Notification() bool {
	return k == KindFormsDetected || k == KindJobSiteDetected
}

// Message is one unit on the bridge. Payload is kind-specific JSON.
type Message struct {
	ID      string          `json:"id"`
	Kind    Kind            `json:"kind"`
	Sender  string          `json:"sender"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodePayload unmarshals the payload into v.
func (m Message) DecodePayload(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("bridge: %s: empty payload", m.Kind)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("bridge: %s: decode payload: %w", m.Kind, err)
	}
	return nil
}

// Response is the single answer to a request: success with a payload,
// or failure with a message.
type Response struct {
	Success bool            `json:"success"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`

	dropped bool
}

// Drop marks a message as unhandled. The bus sends no response, so an
// unaddressed sender only ever sees its own timeout. Dispatchers return
// it from the default arm after logging the unrecognized kind.
func Drop() Response {
	return Response{dropped: true}
}

// OK builds a success response. A nil payload is allowed.
func OK(payload any) Response {
	if payload == nil {
		return Response{Success: true}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Failure(fmt.Sprintf("encode response: %v", err))
	}
	return Response{Success: true, Payload: raw}
}

// Failure builds a failure response carrying msg.
func Failure(msg string) Response {
	return Response{Success: false, Error: msg}
}

// Failuref builds a failure response with a formatted message.
func Failuref(format string, args ...any) Response {
	return Failure(fmt.Sprintf(format, args...))
}

// Decode unmarshals a success payload into v. Failure responses decode
// to an error carrying the failure message.
func (r Response) Decode(v any) error {
	if !r.Success {
		return fmt.Errorf("bridge: request failed: %s", r.Error)
	}
	if v == nil || len(r.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("bridge: decode response: %w", err)
	}
	return nil
}
