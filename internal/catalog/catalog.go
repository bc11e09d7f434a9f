package catalog

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/shopspring/decimal"
)

type CatalogError error

var ErrProductNotFound CatalogError = errors.New("product not found")

// ProductInfo 生命週期引擎只需要的商品資訊子集
type ProductInfo struct {
	ProductID string          `json:"product_id"`
	OwnerID   int             `json:"owner_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Avatar    string          `json:"avatar"`
}

// Resolver 商品目錄查詢的窄介面
// 訂單核心只透過此介面接觸商品資料
type Resolver interface {
	ResolveProduct(ctx context.Context, productID string) (*ProductInfo, error)

	// ResolveProducts 批次解析，查無的商品不在回傳 map 中
	ResolveProducts(ctx context.Context, productIDs []string) (map[string]ProductInfo, error)

	ListOwnerProductIDs(ctx context.Context, ownerID int) ([]string, error)
}

type DBResolver struct {
	products db.IProductRepository
}

func NewDBResolver(products db.IProductRepository) *DBResolver {
	return &DBResolver{products: products}
}

func (r *DBResolver) ResolveProduct(ctx context.Context, productID string) (*ProductInfo, error) {
	product, err := r.products.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return &ProductInfo{
		ProductID: product.ProductID,
		OwnerID:   product.OwnerID,
		Name:      product.Name,
		Price:     product.Price,
		Avatar:    product.Avatar,
	}, nil
}

func (r *DBResolver) ResolveProducts(ctx context.Context, productIDs []string) (map[string]ProductInfo, error) {
	products, err := r.products.GetProductsByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	infos := make(map[string]ProductInfo, len(products))
	for _, product := range products {
		infos[product.ProductID] = ProductInfo{
			ProductID: product.ProductID,
			OwnerID:   product.OwnerID,
			Name:      product.Name,
			Price:     product.Price,
			Avatar:    product.Avatar,
		}
	}
	return infos, nil
}

func (r *DBResolver) ListOwnerProductIDs(ctx context.Context, ownerID int) ([]string, error) {
	return r.products.ListProductIDsByOwner(ctx, ownerID)
}

var _ Resolver = (*DBResolver)(nil)
