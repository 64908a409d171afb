package service

import (
	"github.com/Skotchmaster/storefront/internal/authz"
	"github.com/Skotchmaster/storefront/internal/models"
)

// transitions lists, per current status, the statuses it may move to and who may move it.
// Statuses missing from the table are terminal.
var transitions = map[models.OrderStatus]map[models.OrderStatus][]authz.Role{
	models.OrderStatusPending: {
		models.OrderStatusCancelled: {authz.RoleUser, authz.RoleAdmin},
		models.OrderStatusCompleted: {authz.RoleAdmin},
	},
}

func CanTransition(from, to models.OrderStatus, role authz.Role) bool {
	for _, r := range transitions[from][to] {
		if r == role {
			return true
		}
	}
	return false
}

func ParseOrderStatus(s string) (models.OrderStatus, bool) {
	switch st := models.OrderStatus(s); st {
	case models.OrderStatusPending, models.OrderStatusCompleted, models.OrderStatusCancelled:
		return st, true
	default:
		return "", false
	}
}

func ParsePaymentMethod(s string) (models.PaymentMethod, bool) {
	switch pm := models.PaymentMethod(s); pm {
	case "":
		return models.PaymentCashOnDelivery, true
	case models.PaymentCashOnDelivery, models.PaymentCard:
		return pm, true
	default:
		return "", false
	}
}
