package service

import (
	"context"
	"fmt"

	"feed-syncer/internal/features/sync/domain"
)

// LogMessage appends a log entry to an order's history.
func (s *SyncService) LogMessage(
	ctx context.Context,
	order *domain.Order,
	logType domain.LogType,
	message string,
	details string,
) error {
	entry := &domain.LogEntry{
		OrderID: order.ID,
		Type:    logType,
		Message: message,
		Details: details,
	}

	if err := s.logs.Save(ctx, entry); err != nil {
		return fmt.Errorf("log message for order %d: %w", order.ID, err)
	}

	return nil
}

// LogDebug appends a debug entry to an order's history.
func (s *SyncService) LogDebug(ctx context.Context, order *domain.Order, message, details string) error {
	return s.LogMessage(ctx, order, domain.LogTypeDebug, message, details)
}

// LogInfo appends an info entry to an order's history.
func (s *SyncService) LogInfo(ctx context.Context, order *domain.Order, message, details string) error {
	return s.LogMessage(ctx, order, domain.LogTypeInfo, message, details)
}

// LogError appends an error entry to an order's history.
func (s *SyncService) LogError(ctx context.Context, order *domain.Order, message, details string) error {
	return s.LogMessage(ctx, order, domain.LogTypeError, message, details)
}
