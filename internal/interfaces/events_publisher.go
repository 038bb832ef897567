package interfaces

// EventPublisher pushes ledger change events to an external broker.
type EventPublisher interface {
	Publish(topic string, event any) error
}
