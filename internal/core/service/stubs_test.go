package service

import (
	"context"
	"regexp"

	"github.com/hexcorp/hive-ai/internal/core/domain"
)

// ---------------------------------------------------------------------------
// Shared stubs for the service tests
// ---------------------------------------------------------------------------

var testIDPattern = regexp.MustCompile(`\d{4}`)

// testResolveID mirrors the gateway-side display name parser.
func testResolveID(displayName string) (string, bool) {
	m := testIDPattern.FindString(displayName)
	if m == "" {
		return "", false
	}
	return m, true
}

type sentMessage struct {
	Channel string
	Content string
}

type roleChange struct {
	MemberID string
	Roles    []string
}

type stubGateway struct {
	members    []domain.Member
	roleNames  []string
	membersErr error
	sendErr    error

	sent    []sentMessage
	added   []roleChange
	removed []roleChange
}

func (g *stubGateway) Members(_ context.Context) ([]domain.Member, error) {
	return g.members, g.membersErr
}

func (g *stubGateway) RoleNames(_ context.Context) ([]string, error) {
	return g.roleNames, nil
}

func (g *stubGateway) Send(_ context.Context, channel, content string) error {
	if g.sendErr != nil {
		return g.sendErr
	}
	g.sent = append(g.sent, sentMessage{Channel: channel, Content: content})
	return nil
}

func (g *stubGateway) AddRoles(_ context.Context, memberID string, roleNames []string) error {
	if len(roleNames) == 0 {
		return nil
	}
	g.added = append(g.added, roleChange{MemberID: memberID, Roles: roleNames})
	return nil
}

func (g *stubGateway) RemoveRoles(_ context.Context, memberID string, roleNames []string) error {
	if len(roleNames) == 0 {
		return nil
	}
	g.removed = append(g.removed, roleChange{MemberID: memberID, Roles: roleNames})
	return nil
}

type stubOrderRepo struct {
	orders    []*domain.ActiveOrder
	deleted   []string
	insertErr error
	deleteErr map[string]error
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{}
}

func (r *stubOrderRepo) Insert(_ context.Context, order *domain.ActiveOrder) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.orders = append(r.orders, order)
	return nil
}

func (r *stubOrderRepo) FindByDroneID(_ context.Context, droneID string) (*domain.ActiveOrder, error) {
	for _, o := range r.orders {
		if o.DroneID == droneID {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *stubOrderRepo) FindAll(_ context.Context) ([]*domain.ActiveOrder, error) {
	out := make([]*domain.ActiveOrder, len(r.orders))
	copy(out, r.orders)
	return out, nil
}

func (r *stubOrderRepo) Delete(_ context.Context, id string) error {
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	r.deleted = append(r.deleted, id)
	for i, o := range r.orders {
		if o.ID == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}
	return nil
}

type stubStorageRepo struct {
	stored    []*domain.StoredDrone
	deleted   []string
	insertErr error
}

func newStubStorageRepo() *stubStorageRepo {
	return &stubStorageRepo{}
}

func (r *stubStorageRepo) Insert(_ context.Context, stored *domain.StoredDrone) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.stored = append(r.stored, stored)
	return nil
}

func (r *stubStorageRepo) FindByTargetID(_ context.Context, targetID string) (*domain.StoredDrone, error) {
	for _, s := range r.stored {
		if s.TargetID == targetID {
			return s, nil
		}
	}
	return nil, domain.ErrStoredDroneNotFound
}

func (r *stubStorageRepo) FindAll(_ context.Context) ([]*domain.StoredDrone, error) {
	out := make([]*domain.StoredDrone, len(r.stored))
	copy(out, r.stored)
	return out, nil
}

func (r *stubStorageRepo) Delete(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	for i, s := range r.stored {
		if s.ID == id {
			r.stored = append(r.stored[:i], r.stored[i+1:]...)
			break
		}
	}
	return nil
}

type stubDedup struct {
	dupResult bool
	dupErr    error
	markErr   error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, kind, id string) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, kind, id string) error {
	if d.markErr != nil {
		return d.markErr
	}
	d.marked = append(d.marked, kind+":"+id)
	return nil
}
