package model

import "time"

// Product is a catalog entity owning the latest known set of offers from the
// remote offers source.
type Product struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Offers      []Offer   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Product) TableName() string { return "products" }
