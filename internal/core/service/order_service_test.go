package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexcorp/hive-ai/internal/core/domain"
	"github.com/hexcorp/hive-ai/internal/core/ports"
)

func newOrderSvc(repo *stubOrderRepo, gw *stubGateway, dedup *stubDedup) *OrderService {
	return NewOrderService(repo, gw, testResolveID, dedup, OrderConfig{
		ReportingChannel: "orders-reporting",
	}, zerolog.Nop())
}

func orderInput(minutes int) ports.OrderInput {
	return ports.OrderInput{
		AuthorDisplayName: "⬡-Drone #5890",
		Channel:           "hex-office",
		ProtocolName:      "obedience",
		ProtocolTime:      minutes,
	}
}

func TestOrderService_ReportOrder_Activates(t *testing.T) {
	repo := newStubOrderRepo()
	gw := &stubGateway{}

	svc := newOrderSvc(repo, gw, &stubDedup{})
	if err := svc.ReportOrder(context.Background(), orderInput(60)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.orders) != 1 {
		t.Fatalf("expected one order persisted, got %d", len(repo.orders))
	}
	order := repo.orders[0]
	if order.DroneID != "5890" || order.Protocol != "obedience" {
		t.Errorf("unexpected order: %+v", order)
	}
	want := time.Now().UTC().Add(60 * time.Minute)
	if diff := order.FinishTime.Sub(want); diff < -time.Minute || diff > time.Minute {
		t.Errorf("finish time off by %v", diff)
	}

	if len(gw.sent) != 1 || gw.sent[0].Channel != "hex-office" {
		t.Fatalf("expected one acknowledgement, got %+v", gw.sent)
	}
	if !strings.Contains(gw.sent[0].Content, "Drone 5890 Activate.") {
		t.Errorf("unexpected acknowledgement: %q", gw.sent[0].Content)
	}
}

func TestOrderService_ReportOrder_NoDroneID_Silent(t *testing.T) {
	repo := newStubOrderRepo()
	gw := &stubGateway{}

	svc := newOrderSvc(repo, gw, &stubDedup{})
	input := orderInput(30)
	input.AuthorDisplayName = "Enlightened" // no embedded ID

	if err := svc.ReportOrder(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.sent) != 0 {
		t.Errorf("expected silence, got %+v", gw.sent)
	}
	if len(repo.orders) != 0 {
		t.Errorf("expected no order persisted")
	}
}

func TestOrderService_ReportOrder_AlreadyUndertaking(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders = append(repo.orders, &domain.ActiveOrder{
		ID:         "existing",
		DroneID:    "5890",
		Protocol:   "mantra repetition",
		FinishTime: time.Now().UTC().Add(time.Hour),
	})
	gw := &stubGateway{}

	svc := newOrderSvc(repo, gw, &stubDedup{})
	if err := svc.ReportOrder(context.Background(), orderInput(30)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.orders) != 1 {
		t.Fatalf("expected no second order, got %d", len(repo.orders))
	}
	want := "HexDrone #5890 is already undertaking the mantra repetition protocol."
	if len(gw.sent) != 1 || gw.sent[0].Content != want {
		t.Errorf("unexpected reply: %+v", gw.sent)
	}
}

func TestOrderService_ReportOrder_DurationBounds(t *testing.T) {
	rejected := []int{0, 121, -5}
	accepted := []int{1, 60, 120}

	for _, minutes := range rejected {
		repo := newStubOrderRepo()
		gw := &stubGateway{}
		svc := newOrderSvc(repo, gw, &stubDedup{})

		if err := svc.ReportOrder(context.Background(), orderInput(minutes)); err != nil {
			t.Fatalf("minutes=%d: unexpected error: %v", minutes, err)
		}
		if len(repo.orders) != 0 {
			t.Errorf("minutes=%d: expected rejection, order was persisted", minutes)
		}
		if len(gw.sent) != 1 || gw.sent[0].Content != orderTooLongMessage {
			t.Errorf("minutes=%d: unexpected reply: %+v", minutes, gw.sent)
		}
	}

	for _, minutes := range accepted {
		repo := newStubOrderRepo()
		gw := &stubGateway{}
		svc := newOrderSvc(repo, gw, &stubDedup{})

		if err := svc.ReportOrder(context.Background(), orderInput(minutes)); err != nil {
			t.Fatalf("minutes=%d: unexpected error: %v", minutes, err)
		}
		if len(repo.orders) != 1 {
			t.Errorf("minutes=%d: expected order to be persisted", minutes)
		}
	}
}

func TestOrderService_SweepCompleted_NotifiesAndDeletes(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders = append(repo.orders, &domain.ActiveOrder{
		ID:         "ord1",
		DroneID:    "5890",
		Protocol:   "obedience",
		FinishTime: time.Now().UTC().Add(-time.Minute),
	})
	gw := &stubGateway{members: []domain.Member{
		{ID: "m1", DisplayName: "⬡-Drone #5890", Mention: "<@m1>", Roles: []string{"Drone"}},
	}}
	dedup := &stubDedup{}

	svc := newOrderSvc(repo, gw, dedup)
	if err := svc.SweepCompleted(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gw.sent) != 1 || gw.sent[0].Channel != "orders-reporting" {
		t.Fatalf("expected one deactivation notice, got %+v", gw.sent)
	}
	want := "<@m1> Drone 5890 Deactivate.\nDrone 5890, good drone."
	if gw.sent[0].Content != want {
		t.Errorf("unexpected notice: %q", gw.sent[0].Content)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != "ord1" {
		t.Errorf("expected row deleted, got %v", repo.deleted)
	}
	if len(dedup.marked) != 1 {
		t.Errorf("expected dedup key marked")
	}
}

func TestOrderService_SweepCompleted_MemberMissing_StillDeletes(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders = append(repo.orders, &domain.ActiveOrder{
		ID:         "ord1",
		DroneID:    "5890",
		FinishTime: time.Now().UTC().Add(-time.Minute),
	})
	gw := &stubGateway{} // no members

	svc := newOrderSvc(repo, gw, &stubDedup{})
	if err := svc.SweepCompleted(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gw.sent) != 0 {
		t.Errorf("expected no notice for vanished member, got %+v", gw.sent)
	}
	if len(repo.deleted) != 1 {
		t.Errorf("expected row deleted anyway, got %v", repo.deleted)
	}
}

func TestOrderService_SweepCompleted_NotExpired_Untouched(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders = append(repo.orders, &domain.ActiveOrder{
		ID:         "ord1",
		DroneID:    "5890",
		FinishTime: time.Now().UTC().Add(time.Hour),
	})
	gw := &stubGateway{}

	svc := newOrderSvc(repo, gw, &stubDedup{})
	if err := svc.SweepCompleted(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.deleted) != 0 || len(gw.sent) != 0 {
		t.Errorf("expected untouched order, got deleted=%v sent=%+v", repo.deleted, gw.sent)
	}
}

func TestOrderService_SweepCompleted_DuplicateNotice_SkippedButDeleted(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders = append(repo.orders, &domain.ActiveOrder{
		ID:         "ord1",
		DroneID:    "5890",
		FinishTime: time.Now().UTC().Add(-time.Minute),
	})
	gw := &stubGateway{members: []domain.Member{
		{ID: "m1", DisplayName: "⬡-Drone #5890", Mention: "<@m1>"},
	}}
	dedup := &stubDedup{dupResult: true} // notice already sent on a previous tick

	svc := newOrderSvc(repo, gw, dedup)
	if err := svc.SweepCompleted(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gw.sent) != 0 {
		t.Errorf("expected no duplicate notice, got %+v", gw.sent)
	}
	if len(repo.deleted) != 1 {
		t.Errorf("expected row deleted, got %v", repo.deleted)
	}
}

func TestOrderService_SweepCompleted_RowFailureIsolated(t *testing.T) {
	repo := newStubOrderRepo()
	repo.orders = append(repo.orders, &domain.ActiveOrder{
		ID:         "ord1",
		DroneID:    "5890",
		FinishTime: time.Now().UTC().Add(-time.Minute),
	})
	repo.orders = append(repo.orders, &domain.ActiveOrder{
		ID:         "ord2",
		DroneID:    "9813",
		FinishTime: time.Now().UTC().Add(-time.Minute),
	})
	repo.deleteErr = map[string]error{"ord1": errors.New("mongo unavailable")}
	gw := &stubGateway{members: []domain.Member{
		{ID: "m1", DisplayName: "⬡-Drone #5890", Mention: "<@m1>"},
		{ID: "m2", DisplayName: "⬡-Drone #9813", Mention: "<@m2>"},
	}}

	svc := newOrderSvc(repo, gw, &stubDedup{})
	if err := svc.SweepCompleted(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// ord1's delete failed, but ord2 must still have been processed.
	if len(repo.deleted) != 1 || repo.deleted[0] != "ord2" {
		t.Errorf("expected ord2 deleted despite ord1 failure, got %v", repo.deleted)
	}
	if len(gw.sent) != 2 {
		t.Errorf("expected both notices sent, got %d", len(gw.sent))
	}
}
