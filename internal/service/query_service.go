package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/catalog"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/identity"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

// 遮蔽用占位符，非本人商品的品項明細一律以此取代
const redactedPlaceholder = "..."

type IQueryService interface {
	// GetCarts userID 為 nil 時回傳全量視圖，僅限管理員
	GetCarts(ctx context.Context, credential string, userID *int) (*model.Result, error)

	GetPrivateCarts(ctx context.Context, credential string, sellerID int) (*model.Result, error)

	// GetOrdersData 公開統計，不需驗證身份
	GetOrdersData(ctx context.Context, sellerID int) (*model.Result, error)
}

/*
QueryService 訂單讀取端

所有視圖皆 cache-first，未命中時回源 DB 並寫回 cache。
寫入端只刪 key，這裡永遠拿得到一致資料或自己重建。
*/
type QueryService struct {
	carts    db.ICartRepository
	users    db.IUserRepository
	catalog  catalog.Resolver
	identity identity.Resolver
	cache    redis_repo.ICartCache
	logger   zerolog.Logger
}

func NewQueryService(
	carts db.ICartRepository,
	users db.IUserRepository,
	catalogResolver catalog.Resolver,
	identityResolver identity.Resolver,
	cache redis_repo.ICartCache,
	logger zerolog.Logger,
) *QueryService {
	return &QueryService{
		carts:    carts,
		users:    users,
		catalog:  catalogResolver,
		identity: identityResolver,
		cache:    cache,
		logger:   logger,
	}
}

func (s *QueryService) GetCarts(ctx context.Context, credential string, userID *int) (*model.Result, error) {
	actor, err := s.identity.ResolveActor(ctx, credential)
	if errors.Is(err, identity.ErrUnauthenticated) {
		return model.FailResult("Unauthorized: Invalid or missing token."), nil
	}
	if err != nil {
		return nil, err
	}

	if userID == nil {
		if !actor.IsAdmin() {
			return model.FailResult("You are not allowed to access these orders!"), nil
		}
	} else if *userID != actor.ID && !actor.IsAdmin() {
		return model.FailResult("You are not allowed to access these orders!"), nil
	}

	cached, hit, err := s.cache.GetCarts(ctx, userID)
	if err != nil {
		return nil, err
	}
	metrics.RecordCacheLookup("orders", hit)
	if hit {
		return model.SuccessResult("Orders fetched successfully!", cached), nil
	}

	var carts []model.Cart
	if userID == nil {
		carts, err = s.carts.GetAllCarts(ctx)
	} else {
		carts, err = s.carts.GetCartsByUserID(ctx, *userID)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetCarts(ctx, userID, carts); err != nil {
		// 寫回失敗只記 log，不影響讀取結果
		s.logger.Warn().Err(err).Msg("set orders cache failed")
	}
	return model.SuccessResult("Orders fetched successfully!", carts), nil
}

func (s *QueryService) GetPrivateCarts(ctx context.Context, credential string, sellerID int) (*model.Result, error) {
	actor, err := s.identity.ResolveActor(ctx, credential)
	if errors.Is(err, identity.ErrUnauthenticated) {
		return model.FailResult("Unauthorized: Invalid or missing token."), nil
	}
	if err != nil {
		return nil, err
	}
	if sellerID != actor.ID && !actor.IsAdmin() {
		return model.FailResult("You are not allowed to access these orders!"), nil
	}

	seller, err := s.users.GetUserByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil {
		return model.FailResult("User not found."), nil
	}

	cached, hit, err := s.cache.GetPrivateCarts(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	metrics.RecordCacheLookup("privateCarts", hit)
	if hit {
		return model.SuccessResult("Orders fetched successfully!", cached), nil
	}

	productIDs, err := s.catalog.ListOwnerProductIDs(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if len(productIDs) == 0 {
		// 沒有商品就沒有訂單，空結果不進 cache
		return model.SuccessResult("Orders fetched successfully!", []model.PrivateCart{}), nil
	}

	carts, err := s.carts.GetCartsByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	owned := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		owned[id] = struct{}{}
	}
	private := make([]model.PrivateCart, 0, len(carts))
	for _, cart := range carts {
		private = append(private, redactCart(cart, owned))
	}

	if err := s.cache.SetPrivateCarts(ctx, sellerID, private); err != nil {
		s.logger.Warn().Err(err).Msg("set private carts cache failed")
	}
	return model.SuccessResult("Orders fetched successfully!", private), nil
}

func (s *QueryService) GetOrdersData(ctx context.Context, sellerID int) (*model.Result, error) {
	carts, hit, err := s.cache.GetOrdersData(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	metrics.RecordCacheLookup("ordersData", hit)

	if !hit {
		productIDs, err := s.catalog.ListOwnerProductIDs(ctx, sellerID)
		if err != nil {
			return nil, err
		}
		if len(productIDs) == 0 {
			// 沒有商品就沒有訂單，空結果不進 cache
			return model.SuccessResult("Orders data fetched successfully!", model.OrdersData{}), nil
		}
		carts, err = s.carts.GetCartsByProductIDs(ctx, productIDs)
		if err != nil {
			return nil, err
		}
		if err := s.cache.SetOrdersData(ctx, sellerID, carts); err != nil {
			s.logger.Warn().Err(err).Msg("set orders data cache failed")
		}
	}

	data := model.OrdersData{}
	for _, cart := range carts {
		switch cart.Status {
		case model.CartStatusReceived:
			data.SuccessfulOrders++
		case model.CartStatusCancelled, model.CartStatusLost, model.CartStatusPartiallyLost:
			data.FailedOrders++
		}
	}
	return model.SuccessResult("Orders data fetched successfully!", data), nil
}

// redactCart 自己的品項保留完整明細，其他賣家的品項遮蔽
// promo 在私有視圖中一律遮蔽
func redactCart(cart model.Cart, owned map[string]struct{}) model.PrivateCart {
	private := model.PrivateCart{
		ID:           cart.ID,
		UserID:       cart.UserID,
		Total:        cart.Total,
		Status:       cart.Status,
		DeliveryType: cart.DeliveryType,
		Promo:        redactedPlaceholder,
		CreatedAt:    cart.CreatedAt,
		UpdatedAt:    cart.UpdatedAt,
		CartItems:    make([]model.PrivateCartItem, 0, len(cart.CartItems)),
	}
	for _, item := range cart.CartItems {
		if _, ok := owned[item.ProductID]; ok {
			private.CartItems = append(private.CartItems, model.PrivateCartItem{
				ID:        item.ID,
				CartID:    item.CartID,
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.Price.String(),
				Avatar:    item.Avatar,
				Quantity:  strconv.Itoa(item.Quantity),
				Completed: item.Completed,
				Received:  item.Received,
			})
			continue
		}
		private.CartItems = append(private.CartItems, model.PrivateCartItem{
			ID:        item.ID,
			CartID:    item.CartID,
			ProductID: redactedPlaceholder,
			Name:      redactedPlaceholder,
			Price:     redactedPlaceholder,
			Avatar:    "",
			Quantity:  redactedPlaceholder,
			Completed: item.Completed,
			Received:  item.Received,
		})
	}
	return private
}

var _ IQueryService = (*QueryService)(nil)
