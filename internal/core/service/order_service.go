package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexcorp/hive-ai/internal/api/metrics"
	"github.com/hexcorp/hive-ai/internal/core/domain"
	"github.com/hexcorp/hive-ai/internal/core/ports"
)

const (
	minProtocolMinutes = 1
	maxProtocolMinutes = 120
)

const (
	orderTooLongMessage = "Drones are not authorized to activate a specific protocol for that length of time. The maximum is 120 minutes."
	activationMessage   = "If safe and willing to do so, Drone %s Activate.\nDrone %s will elaborate on its exact tasks before proceeding with them."
	deactivationMessage = "%s Drone %s Deactivate.\nDrone %s, good drone."
)

// OrderConfig carries the channel the order sweep reports into.
type OrderConfig struct {
	ReportingChannel string
}

// OrderService manages the protocol order lifecycle: activation on command,
// deactivation by the completion sweep.
type OrderService struct {
	repo      ports.OrderRepository
	gateway   ports.Gateway
	resolveID ports.DroneIDResolver
	dedup     NoticeDedup
	cfg       OrderConfig
	logger    zerolog.Logger
}

func NewOrderService(
	repo ports.OrderRepository,
	gateway ports.Gateway,
	resolveID ports.DroneIDResolver,
	dedup NoticeDedup,
	cfg OrderConfig,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{
		repo:      repo,
		gateway:   gateway,
		resolveID: resolveID,
		dedup:     dedup,
		cfg:       cfg,
		logger:    logger,
	}
}

// ReportOrder validates and activates a protocol order. Every validation
// failure is answered in the invoking channel and swallowed; only
// infrastructure failures surface as errors.
func (s *OrderService) ReportOrder(ctx context.Context, input ports.OrderInput) error {
	droneID, ok := s.resolveID(input.AuthorDisplayName)
	if !ok {
		// No non-drones allowed.
		s.logger.Debug().Str("display_name", input.AuthorDisplayName).Msg("order from member without drone ID ignored")
		return nil
	}

	current, err := s.repo.FindByDroneID(ctx, droneID)
	if err != nil && !errors.Is(err, domain.ErrOrderNotFound) {
		return fmt.Errorf("report order: %w", err)
	}
	if current != nil {
		return s.gateway.Send(ctx, input.Channel,
			fmt.Sprintf("HexDrone #%s is already undertaking the %s protocol.", droneID, current.Protocol))
	}

	if input.ProtocolTime < minProtocolMinutes || input.ProtocolTime > maxProtocolMinutes {
		return s.gateway.Send(ctx, input.Channel, orderTooLongMessage)
	}

	if err := s.gateway.Send(ctx, input.Channel, fmt.Sprintf(activationMessage, droneID, droneID)); err != nil {
		return fmt.Errorf("report order: acknowledge: %w", err)
	}

	order := &domain.ActiveOrder{
		ID:         newRecordID(),
		DroneID:    droneID,
		Protocol:   input.ProtocolName,
		FinishTime: time.Now().UTC().Add(time.Duration(input.ProtocolTime) * time.Minute),
	}
	if err := s.repo.Insert(ctx, order); err != nil {
		return fmt.Errorf("report order: %w", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	s.logger.Info().
		Str("drone_id", droneID).
		Str("protocol", input.ProtocolName).
		Int("minutes", input.ProtocolTime).
		Msg("protocol order activated")
	return nil
}

// SweepCompleted deactivates every order whose finish time has passed. A
// failure on one order is logged and must not stop the scan of the rest.
func (s *OrderService) SweepCompleted(ctx context.Context) error {
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("order sweep: %w", err)
	}

	now := time.Now().UTC()
	var members []domain.Member
	for _, order := range orders {
		if !order.Expired(now) {
			continue
		}
		if members == nil {
			if members, err = s.gateway.Members(ctx); err != nil {
				return fmt.Errorf("order sweep: %w", err)
			}
		}
		if err := s.completeOrder(ctx, order, members); err != nil {
			s.logger.Error().Err(err).Str("order_id", order.ID).Str("drone_id", order.DroneID).Msg("order completion failed")
		}
	}
	return nil
}

// completeOrder notifies the reporting channel and deletes the order row.
// A vanished member is logged and the row deleted anyway.
func (s *OrderService) completeOrder(ctx context.Context, order *domain.ActiveOrder, members []domain.Member) error {
	member, found := findByDroneID(members, s.resolveID, order.DroneID)
	if found {
		if err := s.notifyDeactivation(ctx, order, member); err != nil {
			return err
		}
	} else {
		s.logger.Warn().Str("drone_id", order.DroneID).Msg("drone left before order completion, cleaning up")
	}

	if err := s.repo.Delete(ctx, order.ID); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	metrics.OrdersCompletedTotal.Inc()
	return nil
}

func (s *OrderService) notifyDeactivation(ctx context.Context, order *domain.ActiveOrder, member domain.Member) error {
	isDup, err := s.dedup.IsDuplicate(ctx, "order", order.ID)
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("dedup check failed, notifying anyway")
	} else if isDup {
		s.logger.Debug().Str("order_id", order.ID).Msg("deactivation already announced, skipping notice")
		return nil
	}

	content := fmt.Sprintf(deactivationMessage, member.Mention, order.DroneID, order.DroneID)
	if err := s.gateway.Send(ctx, s.cfg.ReportingChannel, content); err != nil {
		return fmt.Errorf("deactivation notice: %w", err)
	}
	if err := s.dedup.Mark(ctx, "order", order.ID); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to set dedup key")
	}
	return nil
}

// findByDroneID locates the member whose derived drone ID matches.
func findByDroneID(members []domain.Member, resolve ports.DroneIDResolver, droneID string) (domain.Member, bool) {
	for _, m := range members {
		if id, ok := resolve(m.DisplayName); ok && id == droneID {
			return m, true
		}
	}
	return domain.Member{}, false
}
