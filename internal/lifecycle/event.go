// Package lifecycle implements the generic custom-resource handler
// contract: one lifecycle event in, exactly one terminal response out.
// Concrete handlers plug in behind the Handler interface; the Dispatch
// wrapper owns validation ordering and failure conversion.
package lifecycle

import (
	"encoding/json"
	"fmt"
)

// RequestType identifies the lifecycle event being delivered.
type RequestType string

const (
	RequestCreate RequestType = "Create"
	RequestUpdate RequestType = "Update"
	RequestDelete RequestType = "Delete"
)

// Event is one lifecycle invocation as delivered by the orchestration
// layer. PhysicalResourceID is empty on Create; the handler chooses it
// and must keep it stable across Update and Delete.
type Event struct {
	RequestType           RequestType    `json:"RequestType"`
	RequestID             string         `json:"RequestId"`
	ResponseURL           string         `json:"ResponseURL,omitempty"`
	StackID               string         `json:"StackId"`
	LogicalResourceID     string         `json:"LogicalResourceId"`
	PhysicalResourceID    string         `json:"PhysicalResourceId,omitempty"`
	ResourceProperties    map[string]any `json:"ResourceProperties"`
	OldResourceProperties map[string]any `json:"OldResourceProperties,omitempty"`
}

// ParseEvent decodes and structurally validates an event payload.
func ParseEvent(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("failed to decode lifecycle event: %w", err)
	}
	switch event.RequestType {
	case RequestCreate, RequestUpdate, RequestDelete:
	default:
		return Event{}, fmt.Errorf("unknown request type %q", event.RequestType)
	}
	if event.RequestType != RequestCreate && event.PhysicalResourceID == "" {
		return Event{}, fmt.Errorf("%s event is missing PhysicalResourceId", event.RequestType)
	}
	return event, nil
}

// Status is the terminal outcome of an invocation.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Response is the single terminal result of an invocation.
type Response struct {
	Status             Status            `json:"Status"`
	Reason             string            `json:"Reason,omitempty"`
	PhysicalResourceID string            `json:"PhysicalResourceId"`
	StackID            string            `json:"StackId"`
	RequestID          string            `json:"RequestId"`
	LogicalResourceID  string            `json:"LogicalResourceId"`
	Data               map[string]string `json:"Data,omitempty"`
}
