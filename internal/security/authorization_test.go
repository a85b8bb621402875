package security

import (
	"errors"
	"testing"

	"github.com/yourorg/roombook/internal/domain"
)

func testRoom() *domain.Room {
	return &domain.Room{ID: "room-1", Name: "Board Room", CreatedBy: "owner-1"}
}

func member(userID string, role domain.Role) *domain.RoomMember {
	return &domain.RoomMember{ID: "m-" + userID, RoomID: "room-1", UserID: userID, Role: role}
}

func TestOwnerImpliesAdmin(t *testing.T) {
	as := NewAuthorizationService(nil)
	room := testRoom()

	// Even with an empty membership list the creator is owner and admin.
	if !as.IsOwner("owner-1", room) {
		t.Error("creator must be owner")
	}
	if !as.IsAdmin("owner-1", room, nil) {
		t.Error("owner must imply admin with no membership records")
	}

	role, ok := as.EffectiveRole("owner-1", room, nil)
	if !ok || role != domain.RoleOwner {
		t.Errorf("EffectiveRole = %q, %v; want owner, true", role, ok)
	}
}

func TestAdminMember(t *testing.T) {
	as := NewAuthorizationService(nil)
	room := testRoom()
	members := []*domain.RoomMember{member("alice", domain.RoleAdmin)}

	if as.IsOwner("alice", room) {
		t.Error("admin member must not be owner")
	}
	if !as.IsAdmin("alice", room, members) {
		t.Error("admin member must pass IsAdmin")
	}
	if err := as.RequireAdmin("alice", room, members); err != nil {
		t.Errorf("RequireAdmin returned %v for admin member", err)
	}
	if err := as.RequireOwner("alice", room); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("RequireOwner = %v, want ErrForbidden", err)
	}
}

func TestPlainUserMember(t *testing.T) {
	as := NewAuthorizationService(nil)
	room := testRoom()
	members := []*domain.RoomMember{member("bob", domain.RoleUser)}

	if as.IsAdmin("bob", room, members) {
		t.Error("plain user member must not pass IsAdmin")
	}
	if err := as.RequireAdmin("bob", room, members); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("RequireAdmin = %v, want ErrForbidden", err)
	}

	role, ok := as.EffectiveRole("bob", room, members)
	if !ok || role != domain.RoleUser {
		t.Errorf("EffectiveRole = %q, %v; want user, true", role, ok)
	}
}

func TestNonMemberHasNoAccess(t *testing.T) {
	as := NewAuthorizationService(nil)
	room := testRoom()
	members := []*domain.RoomMember{member("alice", domain.RoleAdmin)}

	if _, ok := as.EffectiveRole("stranger", room, members); ok {
		t.Error("non-member must have no effective role")
	}
	if as.IsAdmin("stranger", room, members) {
		t.Error("non-member must not be admin")
	}
	if as.IsMember("stranger", room, members) {
		t.Error("non-member must not be member")
	}
	if !as.IsMember("alice", room, members) {
		t.Error("listed member must pass IsMember")
	}
	if !as.IsMember("owner-1", room, members) {
		t.Error("owner must pass IsMember")
	}
}

func TestRoleAssignable(t *testing.T) {
	if !domain.RoleAdmin.Assignable() || !domain.RoleUser.Assignable() {
		t.Error("admin and user must be assignable membership roles")
	}
	if domain.RoleOwner.Assignable() {
		t.Error("owner is derived from created_by and must never be stored")
	}
	if domain.Role("superuser").Assignable() {
		t.Error("unknown roles must not be assignable")
	}
}
