package service

import (
	"context"

	"github.com/RoyceAzure/lab/storefront/internal/catalog"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// PaymentIntent 外部金流的付款意圖
type PaymentIntent struct {
	ID     string
	Amount decimal.Decimal
	Status string
}

// PaymentGateway 外部金流介面，實作見 infra/gateway
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal) (*PaymentIntent, error)
	ConfirmIntent(ctx context.Context, intentID string, methodID string) (*PaymentIntent, error)
}

type ICheckoutService interface {
	CreatePaymentIntent(ctx context.Context, draft *model.CartDraft) (*model.Result, error)
	ConfirmPayment(ctx context.Context, intentID string, methodID string, details *model.CustomerDetails) (*model.Result, error)
}

/*
CheckoutService 結帳流程

建立付款意圖時以商品目錄當下的價格定格快照，存進 cache，
付款確認成功才落地為 paid 訂單。快照過期即視同結帳失敗。
*/
type CheckoutService struct {
	carts   db.ICartRepository
	promos  db.IPromoRepository
	catalog catalog.Resolver
	cache   redis_repo.ICartCache
	gateway PaymentGateway
	logger  zerolog.Logger
}

func NewCheckoutService(
	carts db.ICartRepository,
	promos db.IPromoRepository,
	catalogResolver catalog.Resolver,
	cache redis_repo.ICartCache,
	gateway PaymentGateway,
	logger zerolog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:   carts,
		promos:  promos,
		catalog: catalogResolver,
		cache:   cache,
		gateway: gateway,
		logger:  logger,
	}
}

// CreatePaymentIntent 計算總額並建立付款意圖
// 總額 = 品項小計 - 折扣（小計的百分比）+ 運費
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, draft *model.CartDraft) (*model.Result, error) {
	if draft == nil || len(draft.CartItems) == 0 {
		return s.checkoutDone(model.FailResult("Cart is empty.")), nil
	}

	productIDs := make([]string, 0, len(draft.CartItems))
	for _, item := range draft.CartItems {
		productIDs = append(productIDs, item.ProductID)
	}
	products, err := s.catalog.ResolveProducts(ctx, productIDs)
	if err != nil {
		metrics.RecordLifecycleOperation("checkout", false)
		return nil, err
	}

	subtotal := decimal.Zero
	snapshotItems := make([]model.PendingPaymentItem, 0, len(draft.CartItems))
	for _, item := range draft.CartItems {
		product, ok := products[item.ProductID]
		if !ok {
			return s.checkoutDone(model.FailResult("Product not found.")), nil
		}
		if item.Quantity <= 0 {
			return s.checkoutDone(model.FailResult("Invalid quantity.")), nil
		}
		subtotal = subtotal.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		snapshotItems = append(snapshotItems, model.PendingPaymentItem{
			ProductID: product.ProductID,
			Name:      product.Name,
			Price:     product.Price,
			Avatar:    product.Avatar,
			Quantity:  item.Quantity,
		})
	}

	total := subtotal

	if draft.Promo != "" {
		promo, err := s.promos.GetPromoCodeByName(ctx, draft.Promo)
		if err != nil {
			metrics.RecordLifecycleOperation("checkout", false)
			return nil, err
		}
		if promo == nil || promo.Status != model.PromoStatusActive {
			return s.checkoutDone(model.FailResult("Invalid promo code.")), nil
		}
		// 折扣只對商品小計，運費不打折
		discount := subtotal.Mul(decimal.NewFromInt(int64(promo.Fee))).Div(decimal.NewFromInt(100))
		total = total.Sub(discount)
	}
	total = total.Add(draft.DeliveryType.Fee()).Round(2)

	intent, err := s.gateway.CreateIntent(ctx, total)
	if err != nil {
		metrics.RecordLifecycleOperation("checkout", false)
		return nil, err
	}

	payment := &model.PendingPayment{
		UserID:       draft.UserID,
		Total:        total,
		Status:       model.CartStatusPending,
		DeliveryType: draft.DeliveryType,
		Promo:        draft.Promo,
		CartItems:    snapshotItems,
	}
	if err := s.cache.SetPendingPayment(ctx, intent.ID, payment); err != nil {
		metrics.RecordLifecycleOperation("checkout", false)
		return nil, err
	}

	s.logger.Info().
		Str("intent_id", intent.ID).
		Int("user_id", draft.UserID).
		Str("total", total.String()).
		Msg("payment intent created")

	return s.checkoutDone(model.SuccessResult("Payment intent created!", map[string]any{
		"paymentId": intent.ID,
		"payment":   payment,
	})), nil
}

// ConfirmPayment 向金流確認付款，成功才把快照落地為訂單
func (s *CheckoutService) ConfirmPayment(ctx context.Context, intentID string, methodID string, details *model.CustomerDetails) (*model.Result, error) {
	payment, ok, err := s.cache.GetPendingPayment(ctx, intentID)
	if err != nil {
		metrics.RecordLifecycleOperation("checkout", false)
		return nil, err
	}
	if !ok || payment == nil {
		return s.checkoutDone(model.ErrorResult("Cart data is missing.")), nil
	}

	intent, err := s.gateway.ConfirmIntent(ctx, intentID, methodID)
	if err != nil {
		metrics.RecordLifecycleOperation("checkout", false)
		return nil, err
	}
	if intent.Status != "succeeded" {
		return s.checkoutDone(model.ErrorResult("Payment error!")), nil
	}

	cart := &model.Cart{
		UserID:       payment.UserID,
		Total:        payment.Total,
		Status:       model.CartStatusPaid,
		DeliveryType: payment.DeliveryType,
		Promo:        payment.Promo,
	}
	if details != nil {
		cart.Phone = details.Phone
		cart.Address = details.Address
		cart.City = details.City
		cart.State = details.State
		cart.PostalCode = details.PostalCode
		cart.Country = details.Country
	}
	for _, item := range payment.CartItems {
		cart.CartItems = append(cart.CartItems, model.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Avatar:    item.Avatar,
			Quantity:  item.Quantity,
		})
	}

	if err := s.carts.CreateCartWithItems(ctx, cart); err != nil {
		metrics.RecordLifecycleOperation("checkout", false)
		return nil, err
	}
	if payment.Promo != "" {
		if err := s.promos.UsePromoCode(ctx, payment.Promo); err != nil {
			metrics.RecordLifecycleOperation("checkout", false)
			return nil, err
		}
	}

	// 新訂單出現，買家與所有相關賣家的視圖都要回源
	products, err := s.catalog.ResolveProducts(ctx, distinctProductIDs(cart.CartItems))
	if err != nil {
		metrics.RecordLifecycleOperation("checkout", false)
		return nil, err
	}
	sellers := make(map[int]struct{}, len(products))
	for _, product := range products {
		sellers[product.OwnerID] = struct{}{}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.cache.InvalidateCarts(gctx, cart.UserID)
	})
	for _, sellerID := range ownerIDs(sellers) {
		sellerID := sellerID
		g.Go(func() error {
			return s.cache.InvalidateSellerViews(gctx, sellerID)
		})
	}
	g.Go(func() error {
		return s.cache.DeletePendingPayment(gctx, intentID)
	})
	if err := g.Wait(); err != nil {
		metrics.RecordLifecycleOperation("checkout", false)
		return nil, err
	}

	s.logger.Info().
		Str("intent_id", intentID).
		Uint("cart_id", cart.ID).
		Int("user_id", cart.UserID).
		Msg("payment confirmed")

	return s.checkoutDone(model.SuccessResult("Payment successful!", cart)), nil
}

func (s *CheckoutService) checkoutDone(res *model.Result) *model.Result {
	metrics.RecordLifecycleOperation("checkout", res.IsSuccess())
	return res
}

var _ ICheckoutService = (*CheckoutService)(nil)
