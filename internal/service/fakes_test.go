package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yourorg/roombook/internal/domain"
)

// In-memory repositories backing the service tests.

type memUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*domain.User{}, byEmail: map[string]*domain.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *domain.User) error {
	u.CreatedAt = time.Now()
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
}

func (m *memUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := m.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", email, domain.ErrUserNotFound)
	}
	return u, nil
}

func (m *memUserRepo) Update(_ context.Context, u *domain.User) error {
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u
	return nil
}

type memMemberRepo struct {
	byRoom map[string][]*domain.RoomMember
}

func newMemMemberRepo() *memMemberRepo {
	return &memMemberRepo{byRoom: map[string][]*domain.RoomMember{}}
}

func (m *memMemberRepo) Add(_ context.Context, member *domain.RoomMember) error {
	member.CreatedAt = time.Now()
	m.byRoom[member.RoomID] = append(m.byRoom[member.RoomID], member)
	return nil
}

func (m *memMemberRepo) GetByID(_ context.Context, roomID, memberID string) (*domain.RoomMember, error) {
	for _, member := range m.byRoom[roomID] {
		if member.ID == memberID {
			return member, nil
		}
	}
	return nil, fmt.Errorf("member %s: %w", memberID, domain.ErrNotFound)
}

func (m *memMemberRepo) Remove(_ context.Context, roomID, memberID string) error {
	list := m.byRoom[roomID]
	for i, member := range list {
		if member.ID == memberID {
			m.byRoom[roomID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("member %s: %w", memberID, domain.ErrNotFound)
}

func (m *memMemberRepo) ListByRoom(_ context.Context, roomID string) ([]*domain.RoomMember, error) {
	return m.byRoom[roomID], nil
}

type memBookingRepo struct {
	byID map[string]*domain.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{byID: map[string]*domain.Booking{}}
}

func (m *memBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	b.CreatedAt = time.Now()
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *memBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	if b, ok := m.byID[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
}

func (m *memBookingRepo) ListByRoom(_ context.Context, roomID string) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range m.byID {
		if b.RoomID == roomID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (m *memBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	if _, ok := m.byID[b.ID]; !ok {
		return fmt.Errorf("booking %s: %w", b.ID, domain.ErrNotFound)
	}
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *memBookingRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("booking %s: %w", id, domain.ErrNotFound)
	}
	delete(m.byID, id)
	return nil
}

type memRoomRepo struct {
	byID     map[string]*domain.Room
	members  *memMemberRepo
	bookings *memBookingRepo
}

func newMemRoomRepo(members *memMemberRepo, bookings *memBookingRepo) *memRoomRepo {
	return &memRoomRepo{byID: map[string]*domain.Room{}, members: members, bookings: bookings}
}

func (m *memRoomRepo) Create(_ context.Context, room *domain.Room) error {
	room.CreatedAt = time.Now()
	m.byID[room.ID] = room
	return nil
}

func (m *memRoomRepo) GetByID(_ context.Context, id string) (*domain.Room, error) {
	if r, ok := m.byID[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("room %s: %w", id, domain.ErrNotFound)
}

func (m *memRoomRepo) List(_ context.Context) ([]*domain.Room, error) {
	out := []*domain.Room{}
	for _, r := range m.byID {
		out = append(out, r)
	}
	return out, nil
}

func (m *memRoomRepo) ListForUser(ctx context.Context, userID string) ([]*domain.Room, error) {
	out := []*domain.Room{}
	for _, r := range m.byID {
		if r.CreatedBy == userID {
			out = append(out, r)
			continue
		}
		for _, member := range m.members.byRoom[r.ID] {
			if member.UserID == userID {
				out = append(out, r)
				break
			}
		}
	}
	return out, nil
}

func (m *memRoomRepo) Update(_ context.Context, room *domain.Room) error {
	existing, ok := m.byID[room.ID]
	if !ok {
		return fmt.Errorf("room %s: %w", room.ID, domain.ErrNotFound)
	}
	existing.Name = room.Name
	existing.Description = room.Description
	return nil
}

func (m *memRoomRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("room %s: %w", id, domain.ErrNotFound)
	}
	delete(m.byID, id)
	delete(m.members.byRoom, id)
	for bid, b := range m.bookings.byID {
		if b.RoomID == id {
			delete(m.bookings.byID, bid)
		}
	}
	return nil
}

// nopLocker satisfies domain.RoomLocker without any real serialization;
// the service tests are single-threaded.
type nopLocker struct{}

func (nopLocker) Acquire(context.Context, string) (func(), error) {
	return func() {}, nil
}
