package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Niveaux de stock dérivés, calculés par rapport à min_stock_level.
const (
	StockStatusOut    = "Out of Stock"
	StockStatusLow    = "Low Stock"
	StockStatusMedium = "Medium Stock"
	StockStatusHigh   = "High Stock"
)

// Inventory est le registre de stock d'une variante (une ligne par SKU).
// Les mutations passent uniquement par AddStock/RemoveStock/SetStock qui
// refusent tout résultat négatif sans laisser d'état partiel.
type Inventory struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VariantID       primitive.ObjectID `bson:"variant_id" json:"variant_id"`
	StockQuantity   int                `bson:"stock_quantity" json:"stock_quantity"`
	MinStockLevel   int                `bson:"min_stock_level" json:"min_stock_level"`
	LastRestockDate *time.Time         `bson:"last_restock_date,omitempty" json:"last_restock_date,omitempty"`
	LastSoldDate    *time.Time         `bson:"last_sold_date,omitempty" json:"last_sold_date,omitempty"`
	Status          string             `bson:"status" json:"status"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

func (inv Inventory) IsActive() bool {
	return inv.Status == StatusActive
}

// AddStock incrémente le stock. updateRestockDate permet de supprimer la
// mise à jour de last_restock_date (ex: retour client).
func (inv *Inventory) AddStock(quantity int, updateRestockDate bool) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	inv.StockQuantity += quantity
	if updateRestockDate {
		now := time.Now()
		inv.LastRestockDate = &now
	}
	return nil
}

// RemoveStock décrémente le stock, refuse un résultat négatif.
func (inv *Inventory) RemoveStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	if inv.StockQuantity < quantity {
		return ErrInsufficientStock
	}
	inv.StockQuantity -= quantity
	now := time.Now()
	inv.LastSoldDate = &now
	return nil
}

// SetStock fixe le niveau absolu. La date de réassort n'est mise à jour
// que si le nouveau niveau est une augmentation.
func (inv *Inventory) SetStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	if quantity > inv.StockQuantity {
		now := time.Now()
		inv.LastRestockDate = &now
	}
	inv.StockQuantity = quantity
	return nil
}

func (inv *Inventory) SoftDelete() {
	inv.Status = StatusArchived
}

func (inv *Inventory) Activate() {
	inv.Status = StatusActive
}

// StockStatus: Out quand ≤0, Low quand ≤ min, Medium quand ≤ 2×min,
// High au-delà.
func (inv Inventory) StockStatus() string {
	switch {
	case inv.StockQuantity <= 0:
		return StockStatusOut
	case inv.StockQuantity <= inv.MinStockLevel:
		return StockStatusLow
	case inv.StockQuantity <= 2*inv.MinStockLevel:
		return StockStatusMedium
	default:
		return StockStatusHigh
	}
}

func (inv Inventory) IsLowStock() bool {
	return inv.StockQuantity > 0 && inv.StockQuantity <= inv.MinStockLevel
}

func (inv Inventory) IsOutOfStock() bool {
	return inv.StockQuantity <= 0
}

// DaysSinceRestock retourne nil si jamais réassorti, sinon le plafond du
// nombre de jours écoulés.
func (inv Inventory) DaysSinceRestock() *int {
	return daysSince(inv.LastRestockDate)
}

func (inv Inventory) DaysSinceSale() *int {
	return daysSince(inv.LastSoldDate)
}

func daysSince(t *time.Time) *int {
	if t == nil {
		return nil
	}
	days := int(math.Ceil(time.Since(*t).Hours() / 24))
	if days < 0 {
		days = 0
	}
	return &days
}
