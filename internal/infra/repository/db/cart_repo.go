package db

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"gorm.io/gorm"
)

type ICartRepository interface {
	// CreateCartWithItems 一併建立訂單與品項，同一交易
	CreateCartWithItems(ctx context.Context, cart *model.Cart) error

	// GetCartByID 查無資料回傳 (nil, nil)
	GetCartByID(ctx context.Context, id uint) (*model.Cart, error)

	GetCartsByUserID(ctx context.Context, userID int) ([]model.Cart, error)

	GetAllCarts(ctx context.Context) ([]model.Cart, error)

	// GetCartsByProductIDs 取得包含任一指定商品的訂單（去重）
	GetCartsByProductIDs(ctx context.Context, productIDs []string) ([]model.Cart, error)

	// GetCartItemByID 查無資料回傳 (nil, nil)
	GetCartItemByID(ctx context.Context, id uint) (*model.CartItem, error)

	UpdateCartItemCompleted(ctx context.Context, itemID uint, completed model.ItemCompleted) error

	UpdateCartItemReceived(ctx context.Context, itemID uint, received model.ItemReceived) error

	UpdateCartStatus(ctx context.Context, cartID uint, status model.CartStatus) error

	// Transaction 範圍內的操作全部成功才提交
	Transaction(ctx context.Context, fn func(txRepo ICartRepository) error) error
}

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

func (r *CartRepo) CreateCartWithItems(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *CartRepo) GetCartByID(ctx context.Context, id uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Preload("CartItems").First(&cart, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartRepo) GetCartsByUserID(ctx context.Context, userID int) ([]model.Cart, error) {
	var carts []model.Cart
	err := r.db.WithContext(ctx).Preload("CartItems").Where("user_id = ?", userID).Find(&carts).Error
	return carts, err
}

func (r *CartRepo) GetAllCarts(ctx context.Context) ([]model.Cart, error) {
	var carts []model.Cart
	err := r.db.WithContext(ctx).Preload("CartItems").Find(&carts).Error
	return carts, err
}

func (r *CartRepo) GetCartsByProductIDs(ctx context.Context, productIDs []string) ([]model.Cart, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var carts []model.Cart
	err := r.db.WithContext(ctx).Preload("CartItems").
		Joins("JOIN cart_items ON cart_items.cart_id = carts.id").
		Where("cart_items.product_id IN ?", productIDs).
		Group("carts.id").
		Find(&carts).Error
	return carts, err
}

func (r *CartRepo) GetCartItemByID(ctx context.Context, id uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepo) UpdateCartItemCompleted(ctx context.Context, itemID uint, completed model.ItemCompleted) error {
	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("completed", completed).Error
}

func (r *CartRepo) UpdateCartItemReceived(ctx context.Context, itemID uint, received model.ItemReceived) error {
	return r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Update("received", received).Error
}

func (r *CartRepo) UpdateCartStatus(ctx context.Context, cartID uint, status model.CartStatus) error {
	return r.db.WithContext(ctx).Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("status", status).Error
}

func (r *CartRepo) Transaction(ctx context.Context, fn func(txRepo ICartRepository) error) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&CartRepo{db: NewDbDao(tx)})
	})
}

var _ ICartRepository = (*CartRepo)(nil)
