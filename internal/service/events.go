package service

// EventType defines the type of event
type EventType string

const (
	EventDiagnostic    EventType = "diagnostic"
	EventSubnetBuilt   EventType = "subnet_built"
	EventSubnetWritten EventType = "subnet_written"
	EventRunCompleted  EventType = "run_completed"
)

// Event represents something that happened during a conversion
type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

// SubnetStats is the payload of EventSubnetBuilt
type SubnetStats struct {
	Subnet        string
	Nodes         int
	Adjacencies   int
	DirectedLinks int
}

// RunSummary is the payload of EventRunCompleted
type RunSummary struct {
	RunID         string
	Subnets       int
	PhysicalLinks int
	Diagnostics   int
}

// Handler receives published events
type Handler func(Event)

// EventBus fans events out to subscribers. Conversions run on a single
// goroutine, so handlers are called synchronously in subscription order.
type EventBus struct {
	subscribers []Handler
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make([]Handler, 0),
	}
}

// Subscribe adds a handler to receive events
func (eb *EventBus) Subscribe(h Handler) {
	eb.subscribers = append(eb.subscribers, h)
}

// Publish sends an event to all subscribers
func (eb *EventBus) Publish(event Event) {
	if eb == nil {
		return
	}
	for _, h := range eb.subscribers {
		h(event)
	}
}
