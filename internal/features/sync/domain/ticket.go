package domain

// TicketAction identifies which marketplace operation a ticket proves.
type TicketAction string

const (
	// TicketActionAcknowledgeSuccess proves a successful-import acknowledgement.
	TicketActionAcknowledgeSuccess TicketAction = "acknowledge_success"
	// TicketActionAcknowledgeFailure proves a failed-import acknowledgement.
	TicketActionAcknowledgeFailure TicketAction = "acknowledge_failure"
	// TicketActionCancel proves a cancellation notification.
	TicketActionCancel TicketAction = "cancel"
	// TicketActionShip proves a shipment notification.
	TicketActionShip TicketAction = "ship"
)

// TicketStatus is the handling state of a persisted ticket.
type TicketStatus string

const (
	// TicketStatusHandled marks a ticket whose operation was fully processed.
	TicketStatusHandled TicketStatus = "handled"
)

// Ticket is the durable proof that a marketplace operation was communicated
// for an order. Its existence is what flips the order out of the matching
// notifiable set.
type Ticket struct {
	// ID is the local ticket identifier.
	ID int64
	// TicketID is the marketplace-issued ticket identifier.
	TicketID string
	// OrderID is the owning order.
	OrderID int64
	// Action is the operation the ticket proves.
	Action TicketAction
	// Status is the handling state.
	Status TicketStatus
}

// LogType is the severity of an order log entry.
type LogType string

const (
	LogTypeDebug LogType = "debug"
	LogTypeInfo  LogType = "info"
	LogTypeError LogType = "error"
)

// LogEntry is an append-only diagnostic record attached to an order.
type LogEntry struct {
	// OrderID is the owning order.
	OrderID int64
	// Type is the severity.
	Type LogType
	// Message is the log message.
	Message string
	// Details is an optional free-form payload.
	Details string
}
