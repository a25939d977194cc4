package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Machine à états d'une commande:
// pending → {processing, cancelled}
// processing → {shipped, cancelled}
// shipped → {delivered, returned}
// returned → refunded
// delivered, cancelled, refunded sont terminaux.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusReturned   = "returned"
	OrderStatusRefunded   = "refunded"
)

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered, OrderStatusReturned},
	OrderStatusReturned:   {OrderStatusRefunded},
}

// Modes de paiement d'une commande.
const (
	PaymentModeCOD    = "cod"
	PaymentModeStored = "payment_method"
)

type Address struct {
	FullName   string `bson:"full_name" json:"full_name"`
	Street     string `bson:"street" json:"street"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	City       string `bson:"city" json:"city"`
	Country    string `bson:"country" json:"country"`
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
}

func (a Address) IsZero() bool {
	return a.Street == "" || a.City == "" || a.Country == ""
}

type Order struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	OrderNumber     string              `bson:"order_number" json:"order_number"`
	UserID          string              `bson:"user_id" json:"user_id"`
	Status          string              `bson:"status" json:"status"`
	ShippingAddress Address             `bson:"shipping_address" json:"shipping_address"`
	BillingAddress  Address             `bson:"billing_address" json:"billing_address"`
	SubtotalAmount  float64             `bson:"subtotal_amount" json:"subtotal_amount"`
	DiscountAmount  float64             `bson:"discount_amount" json:"discount_amount"`
	TotalAmount     float64             `bson:"total_amount" json:"total_amount"`
	CouponCode      *string             `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	PaymentMode     string              `bson:"payment_mode" json:"payment_mode"`
	PaymentMethodID *primitive.ObjectID `bson:"payment_method_id,omitempty" json:"payment_method_id,omitempty"`
	PaymentIntentID string              `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updated_at"`
}

// OrderItem est un instantané immuable d'une ligne de panier au moment de
// l'achat: le prix ne bouge plus même si la variante change ensuite.
type OrderItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID   primitive.ObjectID `bson:"order_id" json:"order_id"`
	VariantID primitive.ObjectID `bson:"variant_id" json:"variant_id"`
	SKUCode   string             `bson:"sku_code" json:"sku_code"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	UnitPrice float64            `bson:"unit_price" json:"unit_price"`
	Subtotal  float64            `bson:"subtotal" json:"subtotal"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// CanTransitionTo vérifie la machine à états.
func (o Order) CanTransitionTo(next string) bool {
	for _, allowed := range orderTransitions[o.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsCancellable: annulable tant que la commande n'est pas expédiée.
func (o Order) IsCancellable() bool {
	return o.CanTransitionTo(OrderStatusCancelled)
}

// IsRefundable: remboursable une fois expédiée, livrée ou retournée.
func (o Order) IsRefundable() bool {
	switch o.Status {
	case OrderStatusShipped, OrderStatusDelivered, OrderStatusReturned:
		return true
	}
	return false
}

func (o Order) IsTerminal() bool {
	return len(orderTransitions[o.Status]) == 0
}

type Refund struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID        primitive.ObjectID `bson:"order_id" json:"order_id"`
	UserID         string             `bson:"user_id" json:"user_id"`
	Reason         string             `bson:"reason" json:"reason"`
	Status         string             `bson:"status" json:"status"` // pending, approved, rejected, completed
	RefundAmount   float64            `bson:"refund_amount" json:"refund_amount"`
	StripeRefundID string             `bson:"stripe_refund_id,omitempty" json:"stripe_refund_id,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      *time.Time         `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}
