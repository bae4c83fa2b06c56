package authz

import "fmt"

// 内置角色名
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: RoleCustomer,
			Policies: []Policy{
				{Object: "/auth/profile", Action: "*"},
				{Object: "/auth/change-password", Action: "POST"},
				{Object: "/cart", Action: "*"},
				{Object: "/cart/items", Action: "POST"},
				{Object: "/cart/items/:productid", Action: "*"},
				{Object: "/orders/checkout", Action: "POST"},
				{Object: "/orders/my", Action: "GET"},
			},
		},
		{
			Role:     RoleAdmin,
			Inherits: []string{RoleCustomer},
			Policies: []Policy{
				{Object: "/products", Action: "POST"},
				{Object: "/products/:id", Action: "PUT"},
				{Object: "/products/:id", Action: "DELETE"},
				{Object: "/categories", Action: "POST"},
				{Object: "/categories/:id", Action: "PUT"},
				{Object: "/categories/:id", Action: "DELETE"},
				{Object: "/orders/admin", Action: "GET"},
				{Object: "/admin/login-logs", Action: "GET"},
				{Object: "/admin/permissions", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	for _, seed := range BuiltinRoleSeeds() {
		role, err := s.EnsureRole(seed.Role)
		if err != nil {
			return err
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			if _, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole); err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
		}

		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy %s %s failed: %w", policy.Action, policy.Object, err)
			}
		}
	}
	return nil
}
