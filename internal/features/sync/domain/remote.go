package domain

import "time"

// Filter keys understood by the marketplace order listing API. These must
// match the remote protocol exactly.
const (
	FilterAcknowledgement = "acknowledgment"
	FilterChannelID       = "channelId"
	FilterReference       = "reference"
	FilterSince           = "since"
	FilterStatus          = "status"
)

// Acknowledgement filter values.
const (
	Acknowledged   = "acknowledged"
	Unacknowledged = "unacknowledged"
)

// Acknowledgement statuses sent on acknowledge operations.
const (
	AckStatusSuccess = "success"
	AckStatusFailure = "error"
)

// ListFilters is an immutable specification of a marketplace order listing
// call. Zero-valued fields do not filter.
type ListFilters struct {
	// Acknowledgement is Acknowledged or Unacknowledged.
	Acknowledgement string
	// ChannelID restricts to one marketplace channel.
	ChannelID int64
	// Reference restricts to one order reference.
	Reference string
	// Since keeps orders created at or after the date.
	Since time.Time
	// Statuses keeps orders in the given statuses.
	Statuses []Status
}

// RemoteOrder is an order as the marketplace API returns it. It is never
// persisted locally by this core.
type RemoteOrder struct {
	// Reference is the marketplace order reference.
	Reference string
	// ChannelID is the marketplace channel identifier.
	ChannelID int64
	// ChannelName is the marketplace channel display name.
	ChannelName string
	// Status is the marketplace order status.
	Status Status
	// Acknowledged reports whether the order fate was already communicated.
	Acknowledged bool
	// CreatedAt is the marketplace-side creation time.
	CreatedAt time.Time
}

// RemoteTicket is the marketplace-issued receipt returned by an operation.
type RemoteTicket struct {
	// ID is the marketplace ticket identifier.
	ID string
}

// OperationResult is the marketplace response to an executed operation.
type OperationResult struct {
	// Tickets holds zero or more receipts for the operation.
	Tickets []RemoteTicket
}

// OperationType identifies a marketplace order operation.
type OperationType string

const (
	OperationAcknowledge   OperationType = "acknowledge"
	OperationUnacknowledge OperationType = "unacknowledge"
	OperationCancel        OperationType = "cancel"
	OperationShip          OperationType = "ship"
)

// Operation is a single order operation to execute against the marketplace.
// Build one with the constructors below; only the fields meaningful for the
// operation type are set.
type Operation struct {
	Type           OperationType
	Reference      string
	ChannelName    string
	StoreReference string
	AckStatus      string
	CarrierTitle   string
	TrackingNumber string
	TrackingURL    string
}

// AcknowledgeOperation reports an order import result to the marketplace.
func AcknowledgeOperation(reference, channelName, storeReference, ackStatus string) Operation {
	return Operation{
		Type:           OperationAcknowledge,
		Reference:      reference,
		ChannelName:    channelName,
		StoreReference: storeReference,
		AckStatus:      ackStatus,
	}
}

// UnacknowledgeOperation reverts a previous acknowledgement.
func UnacknowledgeOperation(reference, channelName string) Operation {
	return Operation{
		Type:        OperationUnacknowledge,
		Reference:   reference,
		ChannelName: channelName,
	}
}

// CancelOperation reports an order cancellation to the marketplace.
func CancelOperation(reference, channelName string) Operation {
	return Operation{
		Type:        OperationCancel,
		Reference:   reference,
		ChannelName: channelName,
	}
}

// ShipOperation reports an order shipment with its tracking details.
func ShipOperation(reference, channelName, carrierTitle, trackingNumber, trackingURL string) Operation {
	return Operation{
		Type:           OperationShip,
		Reference:      reference,
		ChannelName:    channelName,
		CarrierTitle:   carrierTitle,
		TrackingNumber: trackingNumber,
		TrackingURL:    trackingURL,
	}
}
