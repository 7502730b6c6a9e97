package domain

import "time"

// Status represents the state the marketplace reports for an order.
type Status string

const (
	// StatusWaitingStoreAcceptance indicates the order awaits merchant acceptance.
	StatusWaitingStoreAcceptance Status = "waiting_store_acceptance"
	// StatusWaitingShipment indicates the order is paid and waits for shipment.
	StatusWaitingShipment Status = "waiting_shipment"
	// StatusShipped indicates the order has been shipped.
	StatusShipped Status = "shipped"
	// StatusRefused indicates the merchant refused the order.
	StatusRefused Status = "refused"
	// StatusCancelled indicates the order was cancelled.
	StatusCancelled Status = "cancelled"
	// StatusRefunded indicates the order was refunded.
	StatusRefunded Status = "refunded"
)

// SyncingAction is what a store is configured to do locally when an order
// reaches a given marketplace status.
type SyncingAction string

const (
	// SyncingActionNone disables syncing for the status.
	SyncingActionNone SyncingAction = "none"
	// SyncingActionCancel cancels the local sales order.
	SyncingActionCancel SyncingAction = "cancel"
	// SyncingActionRefund refunds the local sales order.
	SyncingActionRefund SyncingAction = "refund"
)

// Store is a merchant account on the marketplace.
type Store struct {
	// ID is the local store identifier.
	ID int64
	// FeedID is the marketplace-side store identifier.
	FeedID int64
	// Name is the store display name.
	Name string
	// APIToken authenticates marketplace API calls for this store.
	APIToken string
	// Configuration holds per-store sync settings as key/value pairs.
	Configuration map[string]string
}

// Order is a marketplace order mirrored into the commerce backend.
// Whether an order still needs a given notification is not stored here: an
// order is notifiable for an action as long as no ticket exists for it.
type Order struct {
	// ID is the local order identifier.
	ID int64
	// StoreID is the owning store.
	StoreID int64
	// ChannelID is the marketplace channel the order came from.
	ChannelID int64
	// MarketplaceOrderNumber is the marketplace order reference.
	MarketplaceOrderNumber string
	// MarketplaceName is the marketplace/channel display name.
	MarketplaceName string
	// MarketplaceStatus is the last status reported by the marketplace.
	MarketplaceStatus Status
	// SalesOrderID links the imported commerce sales order, nil until imported.
	SalesOrderID *int64
	// SalesIncrementID is the human-facing sales order number, empty until imported.
	SalesIncrementID string
	// IsCanceled reports whether the local sales order was cancelled.
	IsCanceled bool
	// IsShipped reports whether the local sales order has a shipment.
	IsShipped bool
	// IsFulfilled reports whether the marketplace handles fulfilment itself.
	IsFulfilled bool
	// CreatedAt is the order creation time.
	CreatedAt time.Time
}

// OrderQuery is an immutable specification of an order-collection lookup.
// Zero-valued fields do not filter.
type OrderQuery struct {
	// StoreID restricts to one store.
	StoreID int64
	// NonImported keeps orders without a linked sales order.
	NonImported bool
	// Importable keeps orders whose status and remaining import tries allow import.
	Importable bool
	// Imported keeps orders with a linked sales order.
	Imported bool
	// Statuses keeps orders whose marketplace status is in the set.
	Statuses []Status
	// CreatedFrom keeps orders created at or after the date.
	CreatedFrom time.Time
	// NotifiableImport keeps imported orders with no acknowledgement ticket yet.
	NotifiableImport bool
	// NotifiableCancellation keeps cancelled orders with no cancel ticket yet.
	NotifiableCancellation bool
	// NotifiableShipment keeps shipped orders with no ship ticket yet.
	NotifiableShipment bool
	// Fulfilled filters on marketplace-side fulfilment when non-nil.
	Fulfilled *bool
	// Page and PageSize paginate the result when PageSize is positive.
	Page     int
	PageSize int
}
