package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusOnHold     OrderStatus = "ON_HOLD"
	OrderStatusCompleted  OrderStatus = "COMPLETED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
	OrderStatusFailed     OrderStatus = "FAILED"
)

var orderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:    {},
	OrderStatusProcessing: {},
	OrderStatusOnHold:     {},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
	OrderStatusRefunded:   {},
	OrderStatusFailed:     {},
}

// ParseOrderStatus validates the enum domain. It says nothing about
// transitions: any known status may replace any other (admin override).
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := orderStatuses[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return st, nil
}

// IsTerminalStatus is display-only; terminal states are immutable by
// convention, not enforced.
func IsTerminalStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded, OrderStatusFailed:
		return true
	}
	return false
}

type Order struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	OrderNumber     string      `gorm:"uniqueIndex;size:40"`
	Status          OrderStatus `gorm:"type:varchar(30);index"`
	Items           []OrderItem
	Subtotal        float64    `gorm:"type:decimal(12,2);default:0"`
	Tax             float64    `gorm:"type:decimal(12,2);default:0"`
	Shipping        float64    `gorm:"type:decimal(12,2);default:0"`
	Discount        float64    `gorm:"type:decimal(12,2);default:0"`
	Total           float64    `gorm:"type:decimal(12,2)"`
	Currency        string     `gorm:"size:3"`
	Email           string     `gorm:"size:140"`
	Name            string     `gorm:"size:140"`
	Phone           string     `gorm:"size:50"`
	ShippingAddress string     `gorm:"size:255"`
	BillingAddress  string     `gorm:"size:255"`
	AdminNote       string     `gorm:"type:text"`
	CustomerID      *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type OrderItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID  `gorm:"type:uuid;index"`
	ProductID *uuid.UUID `gorm:"type:uuid;index"`
	Name      string     `gorm:"size:180"`
	Slug      string     `gorm:"size:140"`
	Size      string     `gorm:"size:40"`
	Quantity  int        `gorm:"not null"`
	Price     float64    `gorm:"type:decimal(12,2)"`
}

// ComputeTotals returns subtotal = Σ price*qty and
// total = subtotal + tax + shipping - discount. Currency is carried by the
// order, never converted here.
func ComputeTotals(items []OrderItem, tax, shipping, discount float64) (subtotal, total float64) {
	for _, it := range items {
		subtotal += it.Price * float64(it.Quantity)
	}
	subtotal = round2(subtotal)
	total = round2(subtotal + tax + shipping - discount)
	return subtotal, total
}

// NewOrderNumber builds a human-readable unique order number, e.g.
// VT-20250901-3FA2C1. The unique index on order_number is the backstop.
func NewOrderNumber(now time.Time) string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("VT-%s-%s", now.Format("20060102"), token)
}

// FormatCurrency renders an amount with two fraction digits and thousands
// grouping, prefixed by the currency code. Display only; never feed the
// result back into arithmetic.
func FormatCurrency(amount float64, currency string) string {
	s := fmt.Sprintf("%.2f", amount)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	intPart := s[:len(s)-3]
	frac := s[len(s)-3:]
	n := len(intPart)
	if n > 3 {
		rem := n % 3
		if rem == 0 {
			rem = 3
		}
		out := intPart[:rem]
		for i := rem; i < n; i += 3 {
			out += "," + intPart[i:i+3]
		}
		intPart = out
	}
	if neg {
		intPart = "-" + intPart
	}
	if currency == "" {
		return intPart + frac
	}
	return currency + " " + intPart + frac
}

type OrderFilter struct {
	Status   OrderStatus
	Page     int
	PageSize int
}
