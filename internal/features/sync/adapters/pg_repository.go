package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"feed-syncer/internal/features/sync/domain"
	"feed-syncer/internal/features/sync/ports"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgOrderRepository reads the local marketplace-order mirror from PostgreSQL.
type PgOrderRepository struct {
	db *pgxpool.Pool
}

// NewPgOrderRepository creates a new instance of PgOrderRepository.
func NewPgOrderRepository(dbp *pgxpool.Pool) *PgOrderRepository {
	return &PgOrderRepository{db: dbp}
}

// Query returns the orders matching the query specification, ordered by id.
func (p *PgOrderRepository) Query(ctx context.Context, q domain.OrderQuery) ([]*domain.Order, error) {
	sql, args := buildOrderQuery(q)

	rows, err := p.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order := &domain.Order{}
		err := rows.Scan(
			&order.ID,
			&order.StoreID,
			&order.ChannelID,
			&order.MarketplaceOrderNumber,
			&order.MarketplaceName,
			&order.MarketplaceStatus,
			&order.SalesOrderID,
			&order.SalesIncrementID,
			&order.IsCanceled,
			&order.IsShipped,
			&order.IsFulfilled,
			&order.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	return orders, nil
}

// buildOrderQuery translates an order query specification into SQL.
// Notifiability is derived from the absence of a handled ticket for the
// corresponding action, never from a stored flag.
func buildOrderQuery(q domain.OrderQuery) (string, []any) {
	var sb strings.Builder
	var args []any

	sb.WriteString(`SELECT o.id, o.store_id, o.channel_id, o.marketplace_order_number,
o.marketplace_name, o.marketplace_status, o.sales_order_id,
COALESCE(s.increment_id, ''), o.is_canceled, o.is_shipped, o.is_fulfilled, o.created_at
FROM marketplace_order o
LEFT JOIN sales_order s ON s.id = o.sales_order_id`)

	var conds []string
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.StoreID != 0 {
		conds = append(conds, "o.store_id = "+arg(q.StoreID))
	}
	if q.NonImported {
		conds = append(conds, "o.sales_order_id IS NULL")
	}
	if q.Imported {
		conds = append(conds, "o.sales_order_id IS NOT NULL")
	}
	if q.Importable {
		conds = append(conds,
			fmt.Sprintf("o.marketplace_status IN (%s, %s)",
				arg(string(domain.StatusWaitingShipment)), arg(string(domain.StatusShipped))),
			"o.sales_order_id IS NULL",
			"o.import_remaining_tries > 0")
	}
	if len(q.Statuses) > 0 {
		statuses := make([]string, 0, len(q.Statuses))
		for _, status := range q.Statuses {
			statuses = append(statuses, string(status))
		}
		conds = append(conds, "o.marketplace_status = ANY("+arg(statuses)+")")
	}
	if !q.CreatedFrom.IsZero() {
		conds = append(conds, "o.created_at >= "+arg(q.CreatedFrom))
	}
	if q.NotifiableImport {
		conds = append(conds,
			"o.sales_order_id IS NOT NULL",
			noTicketCond(arg(string(domain.TicketActionAcknowledgeSuccess)), arg(string(domain.TicketActionAcknowledgeFailure))))
	}
	if q.NotifiableCancellation {
		conds = append(conds,
			"o.sales_order_id IS NOT NULL",
			"o.is_canceled",
			noTicketCond(arg(string(domain.TicketActionCancel))))
	}
	if q.NotifiableShipment {
		conds = append(conds,
			"o.sales_order_id IS NOT NULL",
			"o.is_shipped",
			noTicketCond(arg(string(domain.TicketActionShip))))
	}
	if q.Fulfilled != nil {
		if *q.Fulfilled {
			conds = append(conds, "o.is_fulfilled")
		} else {
			conds = append(conds, "NOT o.is_fulfilled")
		}
	}

	if len(conds) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	sb.WriteString("\nORDER BY o.id")

	if q.PageSize > 0 {
		sb.WriteString(" LIMIT " + arg(q.PageSize))
		if q.Page > 1 {
			sb.WriteString(" OFFSET " + arg((q.Page-1)*q.PageSize))
		}
	}

	return sb.String(), args
}

// noTicketCond builds the NOT EXISTS clause excluding orders that already
// hold a ticket for any of the given action placeholders.
func noTicketCond(actionPlaceholders ...string) string {
	return fmt.Sprintf(
		"NOT EXISTS (SELECT 1 FROM marketplace_order_ticket t WHERE t.order_id = o.id AND t.action IN (%s))",
		strings.Join(actionPlaceholders, ", "))
}

// PgTicketRepository persists marketplace tickets in PostgreSQL.
type PgTicketRepository struct {
	db *pgxpool.Pool
}

// NewPgTicketRepository creates a new instance of PgTicketRepository.
func NewPgTicketRepository(dbp *pgxpool.Pool) *PgTicketRepository {
	return &PgTicketRepository{db: dbp}
}

// Save persists a ticket, failing with ErrCouldNotSave on storage errors.
func (p *PgTicketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	err := p.db.QueryRow(ctx,
		`INSERT INTO marketplace_order_ticket (ticket_id, order_id, action, status)
VALUES ($1, $2, $3, $4) RETURNING id`,
		ticket.TicketID, ticket.OrderID, string(ticket.Action), string(ticket.Status),
	).Scan(&ticket.ID)
	if err != nil {
		return fmt.Errorf("%w: ticket for order %d: %v", ports.ErrCouldNotSave, ticket.OrderID, err)
	}
	return nil
}

// PgLogRepository persists order log entries in PostgreSQL.
type PgLogRepository struct {
	db *pgxpool.Pool
}

// NewPgLogRepository creates a new instance of PgLogRepository.
func NewPgLogRepository(dbp *pgxpool.Pool) *PgLogRepository {
	return &PgLogRepository{db: dbp}
}

// Save persists a log entry, failing with ErrCouldNotSave on storage errors.
func (p *PgLogRepository) Save(ctx context.Context, entry *domain.LogEntry) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO marketplace_order_log (order_id, type, message, details)
VALUES ($1, $2, $3, $4)`,
		entry.OrderID, string(entry.Type), entry.Message, entry.Details,
	)
	if err != nil {
		return fmt.Errorf("%w: log for order %d: %v", ports.ErrCouldNotSave, entry.OrderID, err)
	}
	return nil
}

// PgStoreRepository lists the synchronized stores from PostgreSQL.
type PgStoreRepository struct {
	db *pgxpool.Pool
}

// NewPgStoreRepository creates a new instance of PgStoreRepository.
func NewPgStoreRepository(dbp *pgxpool.Pool) *PgStoreRepository {
	return &PgStoreRepository{db: dbp}
}

// ActiveStores returns every store enabled for synchronization.
func (p *PgStoreRepository) ActiveStores(ctx context.Context) ([]*domain.Store, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, feed_id, name, api_token, configuration
FROM account_store WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []*domain.Store
	for rows.Next() {
		store := &domain.Store{}
		var rawConfig []byte
		if err := rows.Scan(&store.ID, &store.FeedID, &store.Name, &store.APIToken, &rawConfig); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		if len(rawConfig) > 0 {
			if err := json.Unmarshal(rawConfig, &store.Configuration); err != nil {
				return nil, fmt.Errorf("failed to decode configuration of store %d: %w", store.ID, err)
			}
		}
		stores = append(stores, store)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stores: %w", err)
	}

	return stores, nil
}

// PgTrackCollector looks up shipment tracks recorded against sales orders.
type PgTrackCollector struct {
	db *pgxpool.Pool
}

// NewPgTrackCollector creates a new instance of PgTrackCollector.
func NewPgTrackCollector(dbp *pgxpool.Pool) *PgTrackCollector {
	return &PgTrackCollector{db: dbp}
}

// TracksForSalesOrders returns the shipment tracks of each sales order,
// keyed by sales order id, with relevance computed per track.
func (p *PgTrackCollector) TracksForSalesOrders(ctx context.Context, salesOrderIDs []int64) (map[int64][]domain.ShipmentTrack, error) {
	if len(salesOrderIDs) == 0 {
		return map[int64][]domain.ShipmentTrack{}, nil
	}

	rows, err := p.db.Query(ctx,
		`SELECT order_id, carrier_code, carrier_title, track_number, COALESCE(track_url, '')
FROM sales_shipment_track WHERE order_id = ANY($1) ORDER BY id`,
		salesOrderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query shipment tracks: %w", err)
	}
	defer rows.Close()

	tracks := make(map[int64][]domain.ShipmentTrack)
	for rows.Next() {
		var track domain.ShipmentTrack
		err := rows.Scan(&track.SalesOrderID, &track.CarrierCode, &track.CarrierTitle,
			&track.TrackingNumber, &track.TrackingURL)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment track: %w", err)
		}
		track.Relevance = trackRelevance(track)
		tracks[track.SalesOrderID] = append(tracks[track.SalesOrderID], track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shipment tracks: %w", err)
	}

	return tracks, nil
}

// trackRelevance scores how useful a track is to the marketplace. Tracks
// without a tracking number rank lowest, tracks from a recognized carrier
// rank highest.
func trackRelevance(track domain.ShipmentTrack) int {
	if strings.TrimSpace(track.TrackingNumber) == "" {
		return 1
	}
	code := strings.ToLower(strings.TrimSpace(track.CarrierCode))
	if code == "" || code == "custom" {
		return 5
	}
	return 10
}
