package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"feed-syncer/internal/core/logger"
	"feed-syncer/internal/features/sync/domain"

	"go.uber.org/zap"
)

// registerTicket persists the marketplace receipt for an order action. The
// returned error wraps the repository failure so callers can compensate and
// still surface the original cause.
func (s *SyncService) registerTicket(
	ctx context.Context,
	order *domain.Order,
	remote domain.RemoteTicket,
	action domain.TicketAction,
) error {
	ticket := &domain.Ticket{
		TicketID: strings.TrimSpace(remote.ID),
		OrderID:  order.ID,
		Action:   action,
		Status:   domain.TicketStatusHandled,
	}

	if err := s.tickets.Save(ctx, ticket); err != nil {
		return fmt.Errorf("register %s ticket for order %d: %w", action, order.ID, err)
	}

	return nil
}

// firstTicket extracts the ticket to persist from an operation result. Only
// the first receipt is kept; responses carrying more are logged so the
// single-ticket assumption stays observable.
func firstTicket(result *domain.OperationResult, reference string) (domain.RemoteTicket, bool) {
	if len(result.Tickets) == 0 {
		return domain.RemoteTicket{}, false
	}

	if dropped := len(result.Tickets) - 1; dropped > 0 {
		logger.Named("sync").Warn("Operation returned more than one ticket",
			zap.String("reference", reference),
			zap.Int("dropped", dropped),
		)
	}

	return result.Tickets[0], true
}

// notifyResult reports an order import result to the marketplace and records
// the returned ticket. When the ticket cannot be persisted, a compensating
// unacknowledge is sent so the marketplace does not believe an event was
// communicated that the local system failed to record; the persistence error
// is then surfaced unchanged.
func (s *SyncService) notifyResult(
	ctx context.Context,
	store *domain.Store,
	order *domain.Order,
	storeReference string,
	action domain.TicketAction,
) error {
	api, err := s.sessions.StoreAPI(ctx, store)
	if err != nil {
		return fmt.Errorf("resolve store %d API session: %w", store.ID, err)
	}

	reference := order.MarketplaceOrderNumber
	channelName := order.MarketplaceName

	ackStatus := domain.AckStatusFailure
	if action == domain.TicketActionAcknowledgeSuccess {
		ackStatus = domain.AckStatusSuccess
	}

	result, err := api.Execute(ctx, domain.AcknowledgeOperation(reference, channelName, storeReference, ackStatus))
	if err != nil {
		return fmt.Errorf("acknowledge order %q: %w", reference, err)
	}

	ticket, ok := firstTicket(result, reference)
	if !ok {
		// The marketplace accepted the operation without issuing a ticket.
		return nil
	}

	if err := s.registerTicket(ctx, order, ticket, action); err != nil {
		if _, uerr := api.Execute(ctx, domain.UnacknowledgeOperation(reference, channelName)); uerr != nil {
			logger.Named("sync").Error("Compensating unacknowledge failed",
				zap.String("reference", reference),
				zap.Error(uerr),
			)
		}
		return err
	}

	return nil
}

// NotifyImportSuccess acknowledges a successful import, reporting the sales
// order increment id as the store-side reference.
func (s *SyncService) NotifyImportSuccess(
	ctx context.Context,
	store *domain.Store,
	order *domain.Order,
	salesIncrementID string,
) error {
	return s.notifyResult(ctx, store, order, salesIncrementID, domain.TicketActionAcknowledgeSuccess)
}

// NotifyImportFailure acknowledges a failed import. The local order id stands
// in for the store-side reference since no sales order exists.
func (s *SyncService) NotifyImportFailure(ctx context.Context, store *domain.Store, order *domain.Order) error {
	return s.notifyResult(ctx, store, order, strconv.FormatInt(order.ID, 10), domain.TicketActionAcknowledgeFailure)
}

// NotifyCancellation reports an order cancellation. The protocol has no
// inverse for cancel, so a ticket persistence failure propagates without
// compensation; the next run re-sends and the ticket uniqueness absorbs it.
func (s *SyncService) NotifyCancellation(ctx context.Context, store *domain.Store, order *domain.Order) error {
	api, err := s.sessions.StoreAPI(ctx, store)
	if err != nil {
		return fmt.Errorf("resolve store %d API session: %w", store.ID, err)
	}

	reference := order.MarketplaceOrderNumber

	result, err := api.Execute(ctx, domain.CancelOperation(reference, order.MarketplaceName))
	if err != nil {
		return fmt.Errorf("cancel order %q: %w", reference, err)
	}

	ticket, ok := firstTicket(result, reference)
	if !ok {
		return nil
	}

	return s.registerTicket(ctx, order, ticket, domain.TicketActionCancel)
}

// NotifyShipment reports an order shipment with the given tracking record.
// Like cancellation, no compensating operation exists.
func (s *SyncService) NotifyShipment(
	ctx context.Context,
	store *domain.Store,
	order *domain.Order,
	track domain.ShipmentTrack,
) error {
	api, err := s.sessions.StoreAPI(ctx, store)
	if err != nil {
		return fmt.Errorf("resolve store %d API session: %w", store.ID, err)
	}

	reference := order.MarketplaceOrderNumber

	result, err := api.Execute(ctx, domain.ShipOperation(
		reference,
		order.MarketplaceName,
		track.CarrierTitle,
		track.TrackingNumber,
		track.TrackingURL,
	))
	if err != nil {
		return fmt.Errorf("ship order %q: %w", reference, err)
	}

	ticket, ok := firstTicket(result, reference)
	if !ok {
		return nil
	}

	return s.registerTicket(ctx, order, ticket, domain.TicketActionShip)
}

// NotifyImportUpdates acknowledges every order awaiting an import
// notification. The first failure aborts the batch; unprocessed orders stay
// notifiable and are retried on the next run.
func (s *SyncService) NotifyImportUpdates(ctx context.Context, store *domain.Store) error {
	orders, err := s.NotifiableImports(ctx, store)
	if err != nil {
		return err
	}

	for _, order := range orders {
		if err := s.NotifyImportSuccess(ctx, store, order, strings.TrimSpace(order.SalesIncrementID)); err != nil {
			return err
		}
	}

	return nil
}

// NotifyCancellationUpdates notifies every order awaiting a cancellation
// notification.
func (s *SyncService) NotifyCancellationUpdates(ctx context.Context, store *domain.Store) error {
	orders, err := s.NotifiableCancellations(ctx, store)
	if err != nil {
		return err
	}

	for _, order := range orders {
		if err := s.NotifyCancellation(ctx, store, order); err != nil {
			return err
		}
	}

	return nil
}

// NotifyShipmentUpdates notifies every order awaiting a shipment
// notification. Tracks are fetched in one bulk call for all candidates; an
// order whose sales order has no track yet is skipped silently and picked up
// again on a later run.
func (s *SyncService) NotifyShipmentUpdates(ctx context.Context, store *domain.Store) error {
	orders, err := s.NotifiableShipments(ctx, store)
	if err != nil {
		return err
	}

	if len(orders) == 0 {
		return nil
	}

	salesOrderIDs := make([]int64, 0, len(orders))
	for _, order := range orders {
		if order.SalesOrderID != nil {
			salesOrderIDs = append(salesOrderIDs, *order.SalesOrderID)
		}
	}

	tracks, err := s.tracks.TracksForSalesOrders(ctx, salesOrderIDs)
	if err != nil {
		return fmt.Errorf("collect shipment tracks: %w", err)
	}

	for _, order := range orders {
		if order.SalesOrderID == nil {
			continue
		}

		track, ok := domain.BestTrack(tracks[*order.SalesOrderID])
		if !ok {
			continue
		}

		if err := s.NotifyShipment(ctx, store, order, track); err != nil {
			return err
		}
	}

	return nil
}

// NotifyAllUpdates runs the import, cancellation and shipment notification
// phases for a store, in that order. A phase failure aborts the remaining
// phases; the next scheduled run resumes where ticket persistence stopped.
func (s *SyncService) NotifyAllUpdates(ctx context.Context, store *domain.Store) error {
	if err := s.NotifyImportUpdates(ctx, store); err != nil {
		return err
	}

	if err := s.NotifyCancellationUpdates(ctx, store); err != nil {
		return err
	}

	return s.NotifyShipmentUpdates(ctx, store)
}
