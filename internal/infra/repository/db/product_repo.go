package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error

	// GetProductByID 查無資料回傳 (nil, nil)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)

	GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// ListProductIDsByOwner 取得賣家擁有的所有商品ID
	ListProductIDsByOwner(ctx context.Context, ownerID int) ([]string, error)
}

type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *ProductRepo) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, "product_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepo) GetProductsByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []model.Product
	err := r.db.WithContext(ctx).Where("product_id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *ProductRepo) ListProductIDsByOwner(ctx context.Context, ownerID int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("owner_id = ?", ownerID).
		Pluck("product_id", &ids).Error
	return ids, err
}

var _ IProductRepository = (*ProductRepo)(nil)
