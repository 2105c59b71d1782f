package ports

import "context"

const (
	// EventBuildStarted is emitted when a settled edit passes the gate and compiles.
	EventBuildStarted = "build.started"
	// EventBuildPublished is emitted when a new artifact reaches the output surface.
	EventBuildPublished = "build.published"
	// EventBuildUnchanged is emitted when a build reproduced the visible artifact.
	EventBuildUnchanged = "build.unchanged"
	// EventBuildGated is emitted when blocking diagnostics skipped a build.
	EventBuildGated = "build.gated"
	// EventBuildFailed is emitted when compile, load or transform failed.
	EventBuildFailed = "build.failed"
	// EventBuildStale is emitted when a superseded build finished and was discarded.
	EventBuildStale = "build.stale"
)

// DomainEvent is a significant occurrence inside the pipeline. The payload is
// usually a map of structured fields.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to subscribers. Publish is synchronous and
// implementations must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler.
type Subscription interface {
	Unsubscribe()
}

// Event is the default DomainEvent implementation.
type Event struct {
	Type   string
	Fields map[string]interface{}
}

// EventType implements DomainEvent.
func (e Event) EventType() string { return e.Type }

// Payload implements DomainEvent.
func (e Event) Payload() interface{} { return e.Fields }
