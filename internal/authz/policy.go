package authz

import "fmt"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string { return string(r) }

type Action string

const (
	ActionCartManage     Action = "cart:manage"
	ActionOrderPlace     Action = "order:place"
	ActionOrderReadOwn   Action = "order:read_own"
	ActionOrderCancelOwn Action = "order:cancel_own"
	ActionOrderAdmin     Action = "order:admin"
	ActionWishlist       Action = "wishlist:manage"
	ActionFeedbackWrite  Action = "feedback:write"
	ActionProfile        Action = "profile:manage"
	ActionCatalogWrite   Action = "catalog:write"
	ActionUsersAdmin     Action = "users:admin"
	ActionDashboard      Action = "admin:dashboard"
)

var (
	anyRole   = []Role{RoleUser, RoleAdmin}
	adminOnly = []Role{RoleAdmin}
)

// policy is the single source of truth for who may do what. Anything missing is denied.
var policy = map[Action][]Role{
	ActionCartManage:     anyRole,
	ActionOrderPlace:     anyRole,
	ActionOrderReadOwn:   anyRole,
	ActionOrderCancelOwn: anyRole,
	ActionWishlist:       anyRole,
	ActionFeedbackWrite:  anyRole,
	ActionProfile:        anyRole,
	ActionOrderAdmin:     adminOnly,
	ActionCatalogWrite:   adminOnly,
	ActionUsersAdmin:     adminOnly,
	ActionDashboard:      adminOnly,
}

func Allowed(role Role, action Action) bool {
	for _, r := range policy[action] {
		if r == role {
			return true
		}
	}
	return false
}
