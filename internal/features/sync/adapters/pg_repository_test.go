package adapters

import (
	"testing"
	"time"

	"feed-syncer/internal/features/sync/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildOrderQuery_NoFilters verifies the bare query shape.
func TestBuildOrderQuery_NoFilters(t *testing.T) {
	sql, args := buildOrderQuery(domain.OrderQuery{})

	assert.NotContains(t, sql, "WHERE")
	assert.Contains(t, sql, "FROM marketplace_order o")
	assert.Contains(t, sql, "ORDER BY o.id")
	assert.NotContains(t, sql, "LIMIT")
	assert.Empty(t, args)
}

// TestBuildOrderQuery_Importable verifies the importable predicate.
func TestBuildOrderQuery_Importable(t *testing.T) {
	sql, args := buildOrderQuery(domain.OrderQuery{StoreID: 3, Importable: true})

	assert.Contains(t, sql, "o.store_id = $1")
	assert.Contains(t, sql, "o.marketplace_status IN ($2, $3)")
	assert.Contains(t, sql, "o.sales_order_id IS NULL")
	assert.Contains(t, sql, "o.import_remaining_tries > 0")
	assert.Equal(t, []any{int64(3), "waiting_shipment", "shipped"}, args)
}

// TestBuildOrderQuery_NotifiableImport verifies that import notifiability is
// expressed as the absence of either acknowledgement ticket.
func TestBuildOrderQuery_NotifiableImport(t *testing.T) {
	sql, args := buildOrderQuery(domain.OrderQuery{NotifiableImport: true})

	assert.Contains(t, sql, "o.sales_order_id IS NOT NULL")
	assert.Contains(t, sql, "NOT EXISTS (SELECT 1 FROM marketplace_order_ticket t WHERE t.order_id = o.id AND t.action IN ($1, $2))")
	assert.Equal(t, []any{"acknowledge_success", "acknowledge_failure"}, args)
}

// TestBuildOrderQuery_NotifiableCancellation verifies the cancellation predicate.
func TestBuildOrderQuery_NotifiableCancellation(t *testing.T) {
	sql, args := buildOrderQuery(domain.OrderQuery{NotifiableCancellation: true})

	assert.Contains(t, sql, "o.is_canceled")
	assert.Contains(t, sql, "t.action IN ($1)")
	assert.Equal(t, []any{"cancel"}, args)
}

// TestBuildOrderQuery_NotifiableShipment verifies the shipment predicate
// combined with the fulfilment filter.
func TestBuildOrderQuery_NotifiableShipment(t *testing.T) {
	notFulfilled := false
	sql, args := buildOrderQuery(domain.OrderQuery{NotifiableShipment: true, Fulfilled: &notFulfilled})

	assert.Contains(t, sql, "o.is_shipped")
	assert.Contains(t, sql, "NOT o.is_fulfilled")
	assert.Contains(t, sql, "t.action IN ($1)")
	assert.Equal(t, []any{"ship"}, args)
}

// TestBuildOrderQuery_StatusesAndSince verifies status set and date filters.
func TestBuildOrderQuery_StatusesAndSince(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sql, args := buildOrderQuery(domain.OrderQuery{
		Statuses:    []domain.Status{domain.StatusRefused, domain.StatusCancelled},
		CreatedFrom: since,
	})

	assert.Contains(t, sql, "o.marketplace_status = ANY($1)")
	assert.Contains(t, sql, "o.created_at >= $2")
	require.Len(t, args, 2)
	assert.Equal(t, []string{"refused", "cancelled"}, args[0])
	assert.Equal(t, since, args[1])
}

// TestBuildOrderQuery_Pagination verifies LIMIT/OFFSET placement.
func TestBuildOrderQuery_Pagination(t *testing.T) {
	sql, args := buildOrderQuery(domain.OrderQuery{Page: 3, PageSize: 50})
	assert.Contains(t, sql, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{50, 100}, args)

	sql, args = buildOrderQuery(domain.OrderQuery{Page: 1, PageSize: 50})
	assert.Contains(t, sql, "LIMIT $1")
	assert.NotContains(t, sql, "OFFSET")
	assert.Equal(t, []any{50}, args)
}

// TestTrackRelevance verifies the carrier-quality scoring used to pick the
// track reported to the marketplace.
func TestTrackRelevance(t *testing.T) {
	assert.Equal(t, 1, trackRelevance(domain.ShipmentTrack{CarrierCode: "ups"}))
	assert.Equal(t, 1, trackRelevance(domain.ShipmentTrack{CarrierCode: "ups", TrackingNumber: "  "}))
	assert.Equal(t, 5, trackRelevance(domain.ShipmentTrack{CarrierCode: "custom", TrackingNumber: "1Z"}))
	assert.Equal(t, 5, trackRelevance(domain.ShipmentTrack{CarrierCode: "", TrackingNumber: "1Z"}))
	assert.Equal(t, 10, trackRelevance(domain.ShipmentTrack{CarrierCode: "ups", TrackingNumber: "1Z"}))
	assert.Equal(t, 10, trackRelevance(domain.ShipmentTrack{CarrierCode: " UPS ", TrackingNumber: "1Z"}))
}
