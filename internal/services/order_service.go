package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/vibe-commerce/api/internal/domain"
	"github.com/vibe-commerce/api/internal/platform/schedule"
	"github.com/vibe-commerce/api/internal/repositories"
)

var (
	// ErrOrderInvalidInput signals the caller provided invalid data.
	ErrOrderInvalidInput = errors.New("order: invalid input")
	// ErrOrderNotFound indicates the order could not be located.
	ErrOrderNotFound = errors.New("order: not found")
	// ErrOrderInvalidState indicates an invalid status transition was attempted.
	ErrOrderInvalidState = errors.New("order: invalid status transition")
	// ErrOrderUnavailable indicates the order backend failed.
	ErrOrderUnavailable = errors.New("order: unavailable")
)

// orderStateTransitions is the forward-only delivery ladder.
var orderStateTransitions = map[domain.OrderStatus]domain.OrderStatus{
	domain.OrderStatusProcessing:     domain.OrderStatusShipped,
	domain.OrderStatusShipped:        domain.OrderStatusOutForDelivery,
	domain.OrderStatusOutForDelivery: domain.OrderStatusDelivered,
}

// OrderServiceDeps wires the dependencies required by the order service.
type OrderServiceDeps struct {
	Orders        repositories.OrderRepository
	Runner        *schedule.Runner
	ShipmentDelay time.Duration
	Clock         func() time.Time
	Logger        func(ctx context.Context, event string, fields map[string]any)
}

type orderService struct {
	orders        repositories.OrderRepository
	runner        *schedule.Runner
	shipmentDelay time.Duration
	now           func() time.Time
	logger        func(ctx context.Context, event string, fields map[string]any)
}

// NewOrderService constructs an OrderService validating required dependencies.
func NewOrderService(deps OrderServiceDeps) (OrderService, error) {
	if deps.Orders == nil {
		return nil, errors.New("order service: order repository is required")
	}
	if deps.Runner == nil {
		return nil, errors.New("order service: schedule runner is required")
	}
	if deps.ShipmentDelay <= 0 {
		return nil, errors.New("order service: shipment delay must be positive")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &orderService{
		orders:        deps.Orders,
		runner:        deps.Runner,
		shipmentDelay: deps.ShipmentDelay,
		now: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

func (s *orderService) ListOrders(ctx context.Context, sessionID string) ([]Receipt, error) {
	sid := strings.TrimSpace(sessionID)
	if sid == "" {
		return nil, ErrOrderInvalidInput
	}
	receipts, err := s.orders.List(ctx, sid)
	if err != nil {
		return nil, s.translateRepoError(err)
	}
	if receipts == nil {
		receipts = []Receipt{}
	}
	return receipts, nil
}

func (s *orderService) GetOrder(ctx context.Context, sessionID, receiptID string) (Receipt, error) {
	sid := strings.TrimSpace(sessionID)
	rid := strings.TrimSpace(receiptID)
	if sid == "" || rid == "" {
		return Receipt{}, ErrOrderInvalidInput
	}
	receipt, err := s.orders.FindByID(ctx, sid, rid)
	if err != nil {
		return Receipt{}, s.translateRepoError(err)
	}
	return receipt, nil
}

// TrackOrder returns the current receipt and, while it is still Processing,
// arms the one-shot shipment timer. Tracking a different order for the same
// session supersedes any pending timer.
func (s *orderService) TrackOrder(ctx context.Context, sessionID, receiptID string) (Receipt, error) {
	receipt, err := s.GetOrder(ctx, sessionID, receiptID)
	if err != nil {
		return Receipt{}, err
	}

	if receipt.Status == domain.OrderStatusProcessing {
		sid := receipt.SessionID
		rid := receipt.ReceiptID
		s.runner.Schedule(sid, s.shipmentDelay, func() {
			s.fireShipment(sid, rid)
		})
		s.logger(ctx, "order.shipment_scheduled", map[string]any{
			"sessionID": sid,
			"receiptID": rid,
			"delay":     s.shipmentDelay.String(),
		})
	}
	return receipt, nil
}

func (s *orderService) AdvanceOrder(ctx context.Context, sessionID, receiptID string) (Receipt, error) {
	receipt, err := s.GetOrder(ctx, sessionID, receiptID)
	if err != nil {
		return Receipt{}, err
	}

	next, ok := orderStateTransitions[receipt.Status]
	if !ok {
		return receipt, ErrOrderInvalidState
	}

	// A manual advance out of Processing makes the pending timer stale.
	if receipt.Status == domain.OrderStatusProcessing {
		s.runner.Cancel(receipt.SessionID)
	}

	receipt.Status = next
	receipt.UpdatedAt = s.now()
	if err := s.orders.Update(ctx, receipt); err != nil {
		return Receipt{}, s.translateRepoError(err)
	}
	s.logger(ctx, "order.status_changed", map[string]any{
		"sessionID": receipt.SessionID,
		"receiptID": receipt.ReceiptID,
		"status":    string(receipt.Status),
	})
	return receipt, nil
}

// Shutdown cancels all pending shipment timers.
func (s *orderService) Shutdown() {
	s.runner.Stop()
}

// fireShipment runs on the timer goroutine. It re-reads the receipt and only
// advances it when it is still Processing, so a manual advance or a newer
// timer wins.
func (s *orderService) fireShipment(sessionID, receiptID string) {
	ctx := context.Background()
	receipt, err := s.orders.FindByID(ctx, sessionID, receiptID)
	if err != nil {
		s.logger(ctx, "order.shipment_fire_failed", map[string]any{
			"sessionID": sessionID,
			"receiptID": receiptID,
			"error":     err.Error(),
		})
		return
	}
	if receipt.Status != domain.OrderStatusProcessing {
		return
	}

	receipt.Status = domain.OrderStatusShipped
	receipt.UpdatedAt = s.now()
	if err := s.orders.Update(ctx, receipt); err != nil {
		s.logger(ctx, "order.shipment_update_failed", map[string]any{
			"sessionID": sessionID,
			"receiptID": receiptID,
			"error":     err.Error(),
		})
		return
	}
	s.logger(ctx, "order.shipped", map[string]any{
		"sessionID": sessionID,
		"receiptID": receiptID,
	})
}

func (s *orderService) translateRepoError(err error) error {
	if isRepoNotFound(err) {
		return ErrOrderNotFound
	}
	return ErrOrderUnavailable
}
