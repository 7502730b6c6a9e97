package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"feed-syncer/internal/core/config"
	"feed-syncer/internal/core/httpclient"
	"feed-syncer/internal/core/logger"
	"feed-syncer/internal/features/sync/domain"
	"feed-syncer/internal/features/sync/ports"

	"go.uber.org/zap"
)

// MarketplaceAdapter implements the SessionProvider interface against the
// marketplace feed REST API.
type MarketplaceAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the marketplace connection details.
	config config.MarketplaceConfig
}

// NewMarketplaceAdapter creates a new instance of MarketplaceAdapter.
func NewMarketplaceAdapter(cfg config.MarketplaceConfig) (*MarketplaceAdapter, error) {
	client, err := httpclient.NewProxiedClient(time.Duration(cfg.TimeoutSeconds)*time.Second, cfg.ProxyURL)
	if err != nil {
		return nil, fmt.Errorf("marketplace http client: %w", err)
	}

	return &MarketplaceAdapter{
		client: client,
		config: cfg,
	}, nil
}

// StoreAPI resolves a store to an order API handle authenticated with the
// store token, falling back to the application-level token. The handle is
// scoped to the call, no session state survives it.
func (a *MarketplaceAdapter) StoreAPI(ctx context.Context, store *domain.Store) (ports.OrderAPI, error) {
	token := store.APIToken
	if token == "" {
		token = a.config.Token
	}
	if token == "" {
		return nil, fmt.Errorf("no API token configured for store %d", store.ID)
	}

	return &storeOrderAPI{
		adapter: a,
		feedID:  store.FeedID,
		token:   token,
	}, nil
}

// HealthCheck verifies that the marketplace API is reachable.
func (a *MarketplaceAdapter) HealthCheck(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/ping", a.config.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("health check failed to create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	return nil
}

// storeOrderAPI is the per-store order API handle.
type storeOrderAPI struct {
	adapter *MarketplaceAdapter
	feedID  int64
	token   string
}

// ListOrders fetches the marketplace orders matching the filters.
func (s *storeOrderAPI) ListOrders(ctx context.Context, filters domain.ListFilters) ([]domain.RemoteOrder, error) {
	url := fmt.Sprintf("%s/v1/stores/%d/orders", s.adapter.config.URL, s.feedID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	if filters.Acknowledgement != "" {
		q.Set(domain.FilterAcknowledgement, filters.Acknowledgement)
	}
	if filters.ChannelID != 0 {
		q.Set(domain.FilterChannelID, strconv.FormatInt(filters.ChannelID, 10))
	}
	if filters.Reference != "" {
		q.Set(domain.FilterReference, filters.Reference)
	}
	if !filters.Since.IsZero() {
		q.Set(domain.FilterSince, filters.Since.Format(time.RFC3339))
	}
	if len(filters.Statuses) > 0 {
		statuses := make([]string, 0, len(filters.Statuses))
		for _, status := range filters.Statuses {
			statuses = append(statuses, string(status))
		}
		q.Set(domain.FilterStatus, strings.Join(statuses, ","))
	}
	req.URL.RawQuery = q.Encode()

	s.authorize(req)

	resp, err := s.adapter.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marketplace API returned status: %d", resp.StatusCode)
	}

	var list apiOrderList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	orders := make([]domain.RemoteOrder, 0, len(list.Orders))
	for _, order := range list.Orders {
		orders = append(orders, mapRemoteOrder(order))
	}

	return orders, nil
}

// Execute runs a single order operation and returns the marketplace receipts.
func (s *storeOrderAPI) Execute(ctx context.Context, op domain.Operation) (*domain.OperationResult, error) {
	url := fmt.Sprintf("%s/v1/stores/%d/orders/%s", s.adapter.config.URL, s.feedID, op.Type)

	payload := apiOperationRequest{
		Orders: []apiOperationOrder{mapOperationOrder(op)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode operation: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	s.authorize(req)

	resp, err := s.adapter.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("marketplace API returned status: %d", resp.StatusCode)
	}

	var result apiTicketList
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	tickets := make([]domain.RemoteTicket, 0, len(result.Tickets))
	for _, ticket := range result.Tickets {
		tickets = append(tickets, domain.RemoteTicket{ID: ticket.ID})
	}

	return &domain.OperationResult{Tickets: tickets}, nil
}

// authorize attaches the store token to a request.
func (s *storeOrderAPI) authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+s.token)
}

// mapRemoteOrder converts a raw API order into a domain RemoteOrder.
func mapRemoteOrder(order apiOrder) domain.RemoteOrder {
	return domain.RemoteOrder{
		Reference:    order.Reference,
		ChannelID:    order.Channel.ID,
		ChannelName:  order.Channel.Name,
		Status:       domain.Status(order.Status),
		Acknowledged: order.AcknowledgedAt != "",
		CreatedAt:    time.Time(order.CreatedAt),
	}
}

// mapOperationOrder builds the wire payload of an operation, keeping only the
// fields meaningful for its type.
func mapOperationOrder(op domain.Operation) apiOperationOrder {
	order := apiOperationOrder{
		Reference:   op.Reference,
		ChannelName: op.ChannelName,
	}

	switch op.Type {
	case domain.OperationAcknowledge:
		order.StoreReference = op.StoreReference
		order.Status = op.AckStatus
	case domain.OperationShip:
		order.Carrier = op.CarrierTitle
		order.TrackingNumber = op.TrackingNumber
		order.TrackingURL = op.TrackingURL
	}

	return order
}

// internal structs for mapping

// apiOrderList is the envelope of the order listing endpoint.
type apiOrderList struct {
	// Orders holds the matching marketplace orders.
	Orders []apiOrder `json:"orders"`
}

// apiOrder represents the JSON structure of an order from the marketplace API.
type apiOrder struct {
	// Reference is the marketplace order reference.
	Reference string `json:"reference"`
	// Status is the marketplace order status.
	Status string `json:"status"`
	// AcknowledgedAt is set once the order fate was communicated.
	AcknowledgedAt string `json:"acknowledgedAt"`
	// CreatedAt is the marketplace-side creation time.
	CreatedAt apiTime `json:"createdAt"`
	// Channel identifies the sales channel the order came from.
	Channel apiChannel `json:"channel"`
}

// apiChannel identifies a marketplace sales channel.
type apiChannel struct {
	// ID is the channel identifier.
	ID int64 `json:"id"`
	// Name is the channel display name.
	Name string `json:"name"`
}

// apiOperationRequest is the body of an operation endpoint call.
type apiOperationRequest struct {
	// Orders holds the order entries the operation applies to.
	Orders []apiOperationOrder `json:"order"`
}

// apiOperationOrder is one order entry inside an operation request.
type apiOperationOrder struct {
	// Reference is the marketplace order reference.
	Reference string `json:"reference"`
	// ChannelName is the sales channel display name.
	ChannelName string `json:"channelName"`
	// StoreReference is the merchant-side order reference (acknowledge only).
	StoreReference string `json:"storeReference,omitempty"`
	// Status is the acknowledgement status (acknowledge only).
	Status string `json:"status,omitempty"`
	// Carrier is the carrier display name (ship only).
	Carrier string `json:"carrier,omitempty"`
	// TrackingNumber is the carrier tracking identifier (ship only).
	TrackingNumber string `json:"trackingNumber,omitempty"`
	// TrackingURL is the carrier tracking page (ship only).
	TrackingURL string `json:"trackingLink,omitempty"`
}

// apiTicketList is the envelope of an operation response.
type apiTicketList struct {
	// Tickets holds the receipts issued for the operation.
	Tickets []apiTicket `json:"tickets"`
}

// apiTicket is a single marketplace receipt.
type apiTicket struct {
	// ID is the marketplace ticket identifier.
	ID string `json:"id"`
}

// apiTime is a custom helper struct to handle the marketplace date format.
type apiTime time.Time

// UnmarshalJSON parses the date formats used by the marketplace API.
func (t *apiTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), "\"")
	if s == "null" || s == "" {
		*t = apiTime(time.Time{})
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		parsed, err = time.Parse("2006-01-02T15:04:05", s)
	}
	if err != nil {
		logger.Get().Warn("Failed to parse date", zap.String("date", s), zap.Error(err))
		return nil
	}
	*t = apiTime(parsed)
	return nil
}
