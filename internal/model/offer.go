package model

// Offer is a price/stock quotation for a product. The id is assigned by the
// remote offers source and stored verbatim; it is the natural key that keeps
// reconciliation idempotent, so no local auto-increment. Offers have no
// independent lifecycle: every refresh replaces a product's set wholesale.
type Offer struct {
	ID           uint  `json:"id" gorm:"primarykey;autoIncrement:false"`
	ProductID    uint  `json:"product_id" gorm:"index;not null"`
	Price        int64 `json:"price" gorm:"not null"` // smallest currency unit
	ItemsInStock int64 `json:"items_in_stock" gorm:"not null"`
}

func (Offer) TableName() string { return "offers" }
