package domain

import (
	"time"
)

// OrderStatus is the fulfillment state of an order
type OrderStatus string

const (
	StatusPendingPayment   OrderStatus = "pending_payment"
	StatusPaymentConfirmed OrderStatus = "payment_confirmed"
	StatusProcessing       OrderStatus = "processing"
	StatusInProduction     OrderStatus = "in_production"
	StatusQualityCheck     OrderStatus = "quality_check"
	StatusPackaging        OrderStatus = "packaging"
	StatusShipped          OrderStatus = "shipped"
	StatusOutForDelivery   OrderStatus = "out_for_delivery"
	StatusDelivered        OrderStatus = "delivered"
	StatusCompleted        OrderStatus = "completed"

	StatusOnHold    OrderStatus = "on_hold"
	StatusException OrderStatus = "exception"
	StatusCancelled OrderStatus = "cancelled"
	StatusRefunded  OrderStatus = "refunded"
)

// mainPath is the happy-path lifecycle in order
var mainPath = []OrderStatus{
	StatusPendingPayment,
	StatusPaymentConfirmed,
	StatusProcessing,
	StatusInProduction,
	StatusQualityCheck,
	StatusPackaging,
	StatusShipped,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCompleted,
}

var orderTransitions = buildTransitions()

func buildTransitions() map[OrderStatus]map[OrderStatus]struct{} {
	t := make(map[OrderStatus]map[OrderStatus]struct{})
	allow := func(from OrderStatus, to ...OrderStatus) {
		if t[from] == nil {
			t[from] = make(map[OrderStatus]struct{})
		}
		for _, s := range to {
			t[from][s] = struct{}{}
		}
	}

	for i, s := range mainPath {
		if i+1 < len(mainPath) {
			allow(s, mainPath[i+1])
		}
		if i > 0 && i < len(mainPath)-1 {
			allow(s, StatusRefunded)
		}
		if s == StatusDelivered || s == StatusCompleted {
			continue
		}
		allow(s, StatusOnHold, StatusException)
		if i < indexOf(StatusShipped) {
			allow(s, StatusCancelled)
		}
	}

	// Side states resume onto the main path only through external intervention.
	for _, side := range []OrderStatus{StatusOnHold, StatusException} {
		for _, s := range mainPath[:len(mainPath)-1] {
			allow(side, s)
		}
		allow(side, StatusCancelled, StatusRefunded)
	}
	allow(StatusOnHold, StatusException)
	allow(StatusException, StatusOnHold)

	return t
}

func indexOf(s OrderStatus) int {
	for i, m := range mainPath {
		if m == s {
			return i
		}
	}
	return -1
}

// AllOrderStatuses lists every known status, main path first
func AllOrderStatuses() []OrderStatus {
	all := append([]OrderStatus(nil), mainPath...)
	return append(all, StatusOnHold, StatusException, StatusCancelled, StatusRefunded)
}

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusOnHold, StatusException, StatusCancelled, StatusRefunded:
		return true
	}
	return indexOf(s) >= 0
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded || s == StatusCompleted
}

// IsSideState reports whether s is off the main path
func (s OrderStatus) IsSideState() bool {
	return s.IsValid() && indexOf(s) < 0
}

// CanTransitionTo reports whether the order-management system may move from s to target
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	_, ok := orderTransitions[s][target]
	return ok
}

// Priority is the business urgency tier of an order
type Priority string

const (
	PriorityRush         Priority = "rush"
	PriorityUrgent       Priority = "urgent"
	PriorityWeddingParty Priority = "wedding_party"
	PriorityVIPCustomer  Priority = "vip_customer"
	PriorityHigh         Priority = "high"
	PriorityNormal       Priority = "normal"
	PriorityLow          Priority = "low"
)

// AllPriorities lists every known tier, most urgent first
func AllPriorities() []Priority {
	return []Priority{
		PriorityRush,
		PriorityUrgent,
		PriorityWeddingParty,
		PriorityVIPCustomer,
		PriorityHigh,
		PriorityNormal,
		PriorityLow,
	}
}

// Order is a read-only snapshot of an order owned by the order store
type Order struct {
	OrderID       string      `bson:"orderId" json:"orderId" yaml:"orderId"`
	OrderNumber   string      `bson:"orderNumber" json:"orderNumber" yaml:"orderNumber"`
	CustomerName  string      `bson:"customerName" json:"customerName" yaml:"customerName"`
	CustomerEmail string      `bson:"customerEmail" json:"customerEmail" yaml:"customerEmail"`
	Status        OrderStatus `bson:"status" json:"status" yaml:"status"`
	Priority      Priority    `bson:"priority" json:"priority" yaml:"priority"`
	ProductSource string      `bson:"productSource,omitempty" json:"productSource,omitempty" yaml:"productSource,omitempty"`
	TotalAmount   float64     `bson:"totalAmount" json:"totalAmount" yaml:"totalAmount"`
	IsRush        bool        `bson:"isRush" json:"isRush" yaml:"isRush"`
	IsGroupOrder  bool        `bson:"isGroupOrder" json:"isGroupOrder" yaml:"isGroupOrder"`
	CreatedAt     time.Time   `bson:"createdAt" json:"createdAt" yaml:"createdAt"`
	Items         []OrderItem `bson:"items" json:"items" yaml:"items"`
}

// OrderItem is a line item of an order
type OrderItem struct {
	ProductName       string `bson:"productName" json:"productName" yaml:"productName"`
	Description       string `bson:"description,omitempty" json:"description,omitempty" yaml:"description,omitempty"`
	Quantity          int    `bson:"quantity" json:"quantity" yaml:"quantity"`
	Size              string `bson:"size,omitempty" json:"size,omitempty" yaml:"size,omitempty"`
	Color             string `bson:"color,omitempty" json:"color,omitempty" yaml:"color,omitempty"`
	Material          string `bson:"material,omitempty" json:"material,omitempty" yaml:"material,omitempty"`
	IsBundle          bool   `bson:"isBundle,omitempty" json:"isBundle,omitempty" yaml:"isBundle,omitempty"`
	IsBundleComponent bool   `bson:"isBundleComponent,omitempty" json:"isBundleComponent,omitempty" yaml:"isBundleComponent,omitempty"`
	BundleID          string `bson:"bundleId,omitempty" json:"bundleId,omitempty" yaml:"bundleId,omitempty"`
}

// EffectiveQuantity treats missing or non-positive quantities as a single unit
func (i OrderItem) EffectiveQuantity() int {
	if i.Quantity < 1 {
		return 1
	}
	return i.Quantity
}

// HasBundle reports whether the item is, or belongs to, a bundle
func (i OrderItem) HasBundle() bool {
	return i.IsBundle || i.IsBundleComponent || i.BundleID != ""
}

// OrderFlags are the order attributes workflow actions are gated on
type OrderFlags struct {
	IsRush         bool `json:"isRush"`
	IsGroupOrder   bool `json:"isGroupOrder"`
	HasBundleItems bool `json:"hasBundleItems"`
}

// Flags derives the gating flags of the order. An order in the rush tier is a
// rush order even when its rush flag is unset.
func (o *Order) Flags() OrderFlags {
	flags := OrderFlags{
		IsRush:       o.IsRush || o.Priority == PriorityRush,
		IsGroupOrder: o.IsGroupOrder,
	}
	for _, item := range o.Items {
		if item.HasBundle() {
			flags.HasBundleItems = true
			break
		}
	}
	return flags
}

// TotalQuantity sums effective item quantities
func (o *Order) TotalQuantity() int {
	return TotalQuantity(o.Items)
}

// TotalQuantity sums effective item quantities
func TotalQuantity(items []OrderItem) int {
	total := 0
	for _, item := range items {
		total += item.EffectiveQuantity()
	}
	return total
}
