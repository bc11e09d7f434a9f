package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type IPromoRepository interface {
	CreatePromoCode(ctx context.Context, promo *model.PromoCode) error

	// GetPromoCodeByName 查無資料回傳 (nil, nil)
	GetPromoCodeByName(ctx context.Context, name string) (*model.PromoCode, error)

	// UsePromoCode 累加使用次數
	UsePromoCode(ctx context.Context, name string) error
}

type PromoRepo struct {
	db *DbDao
}

func NewPromoRepo(db *DbDao) *PromoRepo {
	return &PromoRepo{db: db}
}

func (r *PromoRepo) CreatePromoCode(ctx context.Context, promo *model.PromoCode) error {
	return r.db.WithContext(ctx).Create(promo).Error
}

func (r *PromoRepo) GetPromoCodeByName(ctx context.Context, name string) (*model.PromoCode, error) {
	var promo model.PromoCode
	err := r.db.WithContext(ctx).First(&promo, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

func (r *PromoRepo) UsePromoCode(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Model(&model.PromoCode{}).
		Where("name = ?", name).
		Update("used_count", gorm.Expr("used_count + 1")).Error
}

var _ IPromoRepository = (*PromoRepo)(nil)
