package store

import (
	"context"
	"errors"
	"fmt"

	"product-aggregator/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProductNotFound reports a lookup or mutation against an unknown product.
var ErrProductNotFound = errors.New("product does not exist")

// Gateway is the transactional persistence boundary for products and offers.
type Gateway interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, id uint) (model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, id uint, name, description *string) (model.Product, error)
	DeleteProduct(ctx context.Context, id uint) error
	ListOffers(ctx context.Context, productID uint) ([]model.Offer, error)
	ReplaceOffers(ctx context.Context, productID uint, offers []model.Offer) error
}

// Store implements Gateway on top of gorm.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ Gateway = (*Store)(nil)

// CreateProduct persists a new product and assigns its id.
func (s *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	result := s.db.WithContext(ctx).Create(product)
	if result.Error != nil {
		return fmt.Errorf("create product: %w", result.Error)
	}
	return nil
}

// GetProduct retrieves a product by id.
func (s *Store) GetProduct(ctx context.Context, id uint) (model.Product, error) {
	var product model.Product
	result := s.db.WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("get product %d: %w", id, result.Error)
	}
	return product, nil
}

// ListProducts retrieves all products.
func (s *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0)
	result := s.db.WithContext(ctx).Order("id").Find(&products)
	if result.Error != nil {
		return nil, fmt.Errorf("list products: %w", result.Error)
	}
	return products, nil
}

// UpdateProduct applies a partial update; nil fields keep their prior values.
func (s *Store) UpdateProduct(ctx context.Context, id uint, name, description *string) (model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if name != nil {
			product.Name = *name
		}
		if description != nil {
			product.Description = *description
		}
		return tx.Save(&product).Error
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("update product %d: %w", id, err)
	}
	return product, nil
}

// DeleteProduct removes a product; its offers are removed in the same
// transaction so the cascade holds on every backend.
func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Product{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProductNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&model.Offer{}).Error
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	return nil
}

// ListOffers retrieves the offers of a product, failing when the product is
// unknown.
func (s *Store) ListOffers(ctx context.Context, productID uint) ([]model.Offer, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	offers := make([]model.Offer, 0)
	result := s.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&offers)
	if result.Error != nil {
		return nil, fmt.Errorf("list offers of product %d: %w", productID, result.Error)
	}
	return offers, nil
}

// ReplaceOffers swaps the product's offer set for the given one inside a
// single transaction. The product row is locked first, so two reconciles of
// the same product serialize while other products proceed in parallel, and a
// reader never observes the intermediate empty state.
func (s *Store) ReplaceOffers(ctx context.Context, productID uint, offers []model.Offer) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product model.Product
		q := tx
		// SQLite serializes writers on its own and rejects FOR UPDATE.
		if tx.Dialector.Name() == "postgres" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := q.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&model.Offer{}).Error; err != nil {
			return err
		}
		if len(offers) == 0 {
			return nil
		}
		for i := range offers {
			offers[i].ProductID = productID
		}
		return tx.Create(&offers).Error
	})
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("replace offers of product %d: %w", productID, err)
	}
	return nil
}
