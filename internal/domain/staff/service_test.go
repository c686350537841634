package staff

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	mu      sync.Mutex
	members map[uuid.UUID]*Member
}

func newMockRepo() *mockRepo {
	return &mockRepo{members: make(map[uuid.UUID]*Member)}
}

func (m *mockRepo) Create(_ context.Context, member *Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	member.CreatedAt = time.Now()
	member.UpdatedAt = member.CreatedAt
	cp := *member
	m.members[member.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *member
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, member *Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[member.ID]; !ok {
		return ErrNotFound
	}
	member.UpdatedAt = time.Now()
	cp := *member
	m.members[member.ID] = &cp
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Member, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*Member, 0, len(m.members))
	for _, member := range m.members {
		cp := *member
		all = append(all, &cp)
	}
	total := len(all)
	if offset > len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

func TestCreateDefaultsToActive(t *testing.T) {
	svc := NewService(newMockRepo())

	m := &Member{Name: "Dra. Reyes", Role: "physician"}
	if err := svc.Create(context.Background(), m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Status != StatusActive {
		t.Fatalf("status = %q, want %q", m.Status, StatusActive)
	}
	if m.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name   string
		member Member
	}{
		{"missing name", Member{Role: "lab"}},
		{"missing role", Member{Name: "Ana"}},
		{"bad status", Member{Name: "Ana", Role: "lab", Status: "on-leave"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := tc.member
			if err := svc.Create(context.Background(), &m); !errors.Is(err, ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestUpdateUnknownMember(t *testing.T) {
	svc := NewService(newMockRepo())

	m := &Member{ID: uuid.New(), Name: "Ana", Role: "lab"}
	if err := svc.Update(context.Background(), m); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestEligibleForDispatch(t *testing.T) {
	cases := []struct {
		name string
		m    Member
		want bool
	}{
		{"enabled and active", Member{HomeServiceEnabled: true, Status: StatusActive}, true},
		{"enabled but inactive", Member{HomeServiceEnabled: true, Status: StatusInactive}, false},
		{"active but not enabled", Member{HomeServiceEnabled: false, Status: StatusActive}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.m.EligibleForDispatch(); got != tc.want {
				t.Fatalf("EligibleForDispatch() = %v, want %v", got, tc.want)
			}
		})
	}
}
