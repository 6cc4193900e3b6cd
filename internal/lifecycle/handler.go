package lifecycle

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
)

// Handler is the contract a concrete custom-resource handler implements.
//
// The Do methods may be invoked more than once with the same physical id
// when the orchestration layer retries on infrastructure timeouts;
// implementations are responsible for their own idempotency bookkeeping.
type Handler interface {
	// ValidateInput structurally validates the property bag. Dispatch
	// calls it before anything else; a failure here must happen before
	// any external call.
	ValidateInput(props map[string]any) error

	// PhysicalID chooses the physical resource id for a Create event.
	// It must be deterministic so retried Creates agree on identity.
	PhysicalID(event Event) string

	DoCreate(ctx context.Context, physicalID string, props map[string]any) (map[string]string, error)
	DoUpdate(ctx context.Context, physicalID string, props map[string]any) (map[string]string, error)
	DoDelete(ctx context.Context, physicalID string, props map[string]any) (map[string]string, error)
}

// Dispatch runs one lifecycle event through a handler and always returns
// exactly one terminal response. Validation failures, handler errors,
// and panics all become a StatusFailed response with a reason; nothing
// escapes to the caller.
func Dispatch(ctx context.Context, h Handler, event Event, log logr.Logger) Response {
	resp := Response{
		Status:             StatusSuccess,
		PhysicalResourceID: event.PhysicalResourceID,
		StackID:            event.StackID,
		RequestID:          event.RequestID,
		LogicalResourceID:  event.LogicalResourceID,
	}
	if event.RequestType == RequestCreate {
		resp.PhysicalResourceID = h.PhysicalID(event)
	}

	log = log.WithValues(
		"requestType", string(event.RequestType),
		"physicalId", resp.PhysicalResourceID,
	)
	log.Info("handling lifecycle event")

	data, err := run(ctx, h, event, resp.PhysicalResourceID)
	if err != nil {
		log.Error(err, "lifecycle event failed")
		resp.Status = StatusFailed
		resp.Reason = err.Error()
		return resp
	}

	log.Info("lifecycle event succeeded")
	resp.Data = data
	return resp
}

// run executes validation and the dispatch proper, converting panics
// into errors so a handler that dies after partially completing work
// still yields a terminal response.
func run(ctx context.Context, h Handler, event Event, physicalID string) (data map[string]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	if err := h.ValidateInput(event.ResourceProperties); err != nil {
		return nil, fmt.Errorf("invalid resource properties: %w", err)
	}

	switch event.RequestType {
	case RequestCreate:
		return h.DoCreate(ctx, physicalID, event.ResourceProperties)
	case RequestUpdate:
		return h.DoUpdate(ctx, physicalID, event.ResourceProperties)
	case RequestDelete:
		return h.DoDelete(ctx, physicalID, event.ResourceProperties)
	default:
		return nil, fmt.Errorf("unknown request type %q", event.RequestType)
	}
}
