package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceUserWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("ops", "/products/:id", "PUT"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}
	if err := svc.SetUserRoles(1, []string{"ops"}); err != nil {
		t.Fatalf("set user roles failed: %v", err)
	}

	allow, err := svc.EnforceUser(1, "/api/Products/42", "put")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceUser(1, "/api/Products/42", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestSetUserRolesOverride(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetUserRoles(2, []string{"customer"}); err != nil {
		t.Fatalf("set first role failed: %v", err)
	}
	if err := svc.SetUserRoles(2, []string{"admin"}); err != nil {
		t.Fatalf("set second role failed: %v", err)
	}
	roles, err := svc.GetUserRoles(2)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:admin" {
		t.Fatalf("roles want [role:admin], got=%v", roles)
	}
}

func TestGrantUserRoleIsIdempotent(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	for i := 0; i < 2; i++ {
		if err := svc.GrantUserRole(5, RoleCustomer); err != nil {
			t.Fatalf("grant role failed: %v", err)
		}
	}
	roles, err := svc.GetUserRoles(5)
	if err != nil {
		t.Fatalf("get roles failed: %v", err)
	}
	if len(roles) != 1 || roles[0] != "role:customer" {
		t.Fatalf("roles want [role:customer], got=%v", roles)
	}
}

func TestPrimaryUserRolePrefersAdmin(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.SetUserRoles(7, []string{"customer", "admin"}); err != nil {
		t.Fatalf("set roles failed: %v", err)
	}
	role, err := svc.PrimaryUserRole(7)
	if err != nil {
		t.Fatalf("primary role failed: %v", err)
	}
	if role != RoleAdmin {
		t.Fatalf("want admin, got=%s", role)
	}

	role, err = svc.PrimaryUserRole(8)
	if err != nil {
		t.Fatalf("primary role for user without roles failed: %v", err)
	}
	if role != "" {
		t.Fatalf("want empty role, got=%s", role)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/Products/:id", want: "/products/:id"},
		{in: "/api/Admin/login-logs", want: "/admin/login-logs"},
		{in: "/orders/admin", want: "/orders/admin"},
		{in: "cart/items", want: "/cart/items"},
		{in: "/api", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap should be idempotent: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{
		"role:admin":    true,
		"role:customer": true,
	}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	allow, err := svc.Enforce("role:admin", "/api/Cart/items/:productId", "DELETE")
	if err != nil {
		t.Fatalf("enforce admin role failed: %v", err)
	}
	if !allow {
		t.Fatalf("admin role should inherit customer policies")
	}
	if RoleName("role:admin") != RoleAdmin {
		t.Fatalf("unexpected role name: %s", RoleName("role:admin"))
	}

	if err := svc.SetUserRoles(10, []string{RoleCustomer}); err != nil {
		t.Fatalf("set customer role failed: %v", err)
	}
	if err := svc.SetUserRoles(11, []string{RoleAdmin}); err != nil {
		t.Fatalf("set admin role failed: %v", err)
	}

	cases := []struct {
		userID uint
		path   string
		method string
		want   bool
	}{
		{userID: 10, path: "/api/Cart/items/:productId", method: "PUT", want: true},
		{userID: 10, path: "/api/Orders/checkout", method: "POST", want: true},
		{userID: 10, path: "/api/Orders/admin", method: "GET", want: false},
		{userID: 10, path: "/api/Products", method: "POST", want: false},
		{userID: 11, path: "/api/Orders/admin", method: "GET", want: true},
		{userID: 11, path: "/api/Products/:id", method: "DELETE", want: true},
		{userID: 11, path: "/api/Admin/login-logs", method: "GET", want: true},
		{userID: 11, path: "/api/Cart", method: "GET", want: true},
	}
	for _, item := range cases {
		allow, err := svc.EnforceUser(item.userID, item.path, item.method)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", item.method, item.path, err)
		}
		if allow != item.want {
			t.Fatalf("enforce user=%d %s %s want=%v got=%v", item.userID, item.method, item.path, item.want, allow)
		}
	}
}
