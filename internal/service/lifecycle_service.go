package service

import (
	"context"
	"errors"

	"github.com/RoyceAzure/lab/storefront/internal/catalog"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/identity"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/metrics"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type ILifecycleService interface {
	UpdateCartStatusSender(ctx context.Context, credential string, cartID uint, status model.ItemCompleted) (*model.Result, error)
	UpdateCartStatusReceiver(ctx context.Context, credential string, cartItemID uint, status model.ItemReceived) (*model.Result, error)
}

/*
LifecycleService 訂單生命週期引擎

品項狀態只在此處變更，全部走 DB 交易
快取一律於交易提交後刪除，不做原地更新
*/
type LifecycleService struct {
	carts    db.ICartRepository
	catalog  catalog.Resolver
	identity identity.Resolver
	cache    redis_repo.ICartCache
	logger   zerolog.Logger
}

func NewLifecycleService(
	carts db.ICartRepository,
	catalogResolver catalog.Resolver,
	identityResolver identity.Resolver,
	cache redis_repo.ICartCache,
	logger zerolog.Logger,
) *LifecycleService {
	return &LifecycleService{
		carts:    carts,
		catalog:  catalogResolver,
		identity: identityResolver,
		cache:    cache,
		logger:   logger,
	}
}

// UpdateCartStatusSender 賣家對自己尚未決定的品項一次性設定出貨狀態
// 其他賣家的品項與已決定的品項不受影響
func (s *LifecycleService) UpdateCartStatusSender(ctx context.Context, credential string, cartID uint, status model.ItemCompleted) (*model.Result, error) {
	if status != model.ItemCompletedSent && status != model.ItemCompletedCancelled {
		return s.senderDone(model.FailResult("Invalid sender status.")), nil
	}

	actor, err := s.identity.ResolveActor(ctx, credential)
	if errors.Is(err, identity.ErrUnauthenticated) {
		return s.senderDone(model.FailResult("Unauthorized: Invalid or missing token.")), nil
	}
	if err != nil {
		metrics.RecordLifecycleOperation("sender", false)
		return nil, err
	}

	cart, err := s.carts.GetCartByID(ctx, cartID)
	if err != nil {
		metrics.RecordLifecycleOperation("sender", false)
		return nil, err
	}
	if cart == nil {
		return s.senderDone(model.FailResult("Order not found.")), nil
	}
	if cart.Status != model.CartStatusPaid {
		return s.senderDone(model.FailResult("Order has already been completed!")), nil
	}

	productIDs := distinctProductIDs(cart.CartItems)
	products, err := s.catalog.ResolveProducts(ctx, productIDs)
	if err != nil {
		metrics.RecordLifecycleOperation("sender", false)
		return nil, err
	}

	ownsAny := false
	for _, item := range cart.CartItems {
		if product, ok := products[item.ProductID]; ok && product.OwnerID == actor.ID {
			ownsAny = true
			break
		}
	}
	if !ownsAny {
		return s.senderDone(model.ErrorResult("You can not change state of order because you are not owner of any product!")), nil
	}

	touchedOwners := make(map[int]struct{})
	newStatus := cart.Status
	err = s.carts.Transaction(ctx, func(txRepo db.ICartRepository) error {
		for i := range cart.CartItems {
			item := &cart.CartItems[i]
			product, ok := products[item.ProductID]
			if !ok || product.OwnerID != actor.ID || item.IsDecided() {
				continue
			}
			if err := txRepo.UpdateCartItemCompleted(ctx, item.ID, status); err != nil {
				return err
			}
			completed := status
			item.Completed = &completed
			touchedOwners[product.OwnerID] = struct{}{}
		}

		// 聚合狀態於每次變更後重算，僅在改變時落地
		newStatus = model.ComputeCartStatus(cart.CartItems)
		if newStatus != cart.Status {
			return txRepo.UpdateCartStatus(ctx, cart.ID, newStatus)
		}
		return nil
	})
	if err != nil {
		metrics.RecordLifecycleOperation("sender", false)
		return nil, err
	}

	if err := s.invalidateViews(ctx, cart.UserID, ownerIDs(touchedOwners)); err != nil {
		metrics.RecordLifecycleOperation("sender", false)
		return nil, err
	}

	itemStates := make([]model.ItemCompletedState, 0, len(cart.CartItems))
	for _, item := range cart.CartItems {
		itemStates = append(itemStates, model.ItemCompletedState{ID: item.ID, Completed: item.Completed})
	}

	s.logger.Info().
		Uint("cart_id", cart.ID).
		Int("seller_id", actor.ID).
		Str("item_status", string(status)).
		Str("cart_status", string(newStatus)).
		Msg("sender transition applied")

	metrics.RecordLifecycleOperation("sender", true)
	return model.SuccessResult("Order status updated successfully!", model.SenderUpdateData{
		CartID:     cart.ID,
		CartItems:  itemStates,
		CartStatus: newStatus,
	}), nil
}

// UpdateCartStatusReceiver 買家確認單一品項的收貨結果
// 只有已出貨且尚未確認的品項才接受
func (s *LifecycleService) UpdateCartStatusReceiver(ctx context.Context, credential string, cartItemID uint, status model.ItemReceived) (*model.Result, error) {
	if status != model.ItemReceivedReceived && status != model.ItemReceivedLost {
		return s.receiverDone(model.FailResult("Invalid receiver status.")), nil
	}

	actor, err := s.identity.ResolveActor(ctx, credential)
	if errors.Is(err, identity.ErrUnauthenticated) {
		return s.receiverDone(model.FailResult("Unauthorized: Invalid or missing token.")), nil
	}
	if err != nil {
		metrics.RecordLifecycleOperation("receiver", false)
		return nil, err
	}

	item, err := s.carts.GetCartItemByID(ctx, cartItemID)
	if err != nil {
		metrics.RecordLifecycleOperation("receiver", false)
		return nil, err
	}
	if item == nil || item.IsFinalized() || item.Completed == nil || *item.Completed != model.ItemCompletedSent {
		return s.receiverDone(model.FailResult("Order item not found or its status has already been set.")), nil
	}

	cart, err := s.carts.GetCartByID(ctx, item.CartID)
	if err != nil {
		metrics.RecordLifecycleOperation("receiver", false)
		return nil, err
	}
	if cart == nil || cart.UserID != actor.ID {
		return s.receiverDone(model.FailResult("Order not found or you are not its owner.")), nil
	}

	newStatus := cart.Status
	err = s.carts.Transaction(ctx, func(txRepo db.ICartRepository) error {
		if err := txRepo.UpdateCartItemReceived(ctx, item.ID, status); err != nil {
			return err
		}
		for i := range cart.CartItems {
			if cart.CartItems[i].ID == item.ID {
				received := status
				cart.CartItems[i].Received = &received
				break
			}
		}

		newStatus = model.ComputeCartStatus(cart.CartItems)
		if newStatus != cart.Status {
			return txRepo.UpdateCartStatus(ctx, cart.ID, newStatus)
		}
		return nil
	})
	if err != nil {
		metrics.RecordLifecycleOperation("receiver", false)
		return nil, err
	}

	// 買家確認會影響訂單內所有賣家的視圖
	products, err := s.catalog.ResolveProducts(ctx, distinctProductIDs(cart.CartItems))
	if err != nil {
		metrics.RecordLifecycleOperation("receiver", false)
		return nil, err
	}
	sellers := make(map[int]struct{}, len(products))
	for _, product := range products {
		sellers[product.OwnerID] = struct{}{}
	}
	if err := s.invalidateViews(ctx, cart.UserID, ownerIDs(sellers)); err != nil {
		metrics.RecordLifecycleOperation("receiver", false)
		return nil, err
	}

	received := status
	s.logger.Info().
		Uint("cart_id", cart.ID).
		Uint("cart_item_id", item.ID).
		Int("buyer_id", actor.ID).
		Str("item_status", string(status)).
		Str("cart_status", string(newStatus)).
		Msg("receiver transition applied")

	metrics.RecordLifecycleOperation("receiver", true)
	return model.SuccessResult("Order item status updated successfully!", model.ReceiverUpdateData{
		CartID:     cart.ID,
		CartItem:   model.ItemReceivedState{ID: item.ID, Received: &received},
		CartStatus: newStatus,
	}), nil
}

// invalidateViews 每個 key 獨立，失效可並行
func (s *LifecycleService) invalidateViews(ctx context.Context, buyerID int, sellerIDs []int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.cache.InvalidateCarts(gctx, buyerID)
	})
	for _, sellerID := range sellerIDs {
		sellerID := sellerID
		g.Go(func() error {
			return s.cache.InvalidateSellerViews(gctx, sellerID)
		})
	}
	return g.Wait()
}

func (s *LifecycleService) senderDone(res *model.Result) *model.Result {
	metrics.RecordLifecycleOperation("sender", res.IsSuccess())
	return res
}

func (s *LifecycleService) receiverDone(res *model.Result) *model.Result {
	metrics.RecordLifecycleOperation("receiver", res.IsSuccess())
	return res
}

func distinctProductIDs(items []model.CartItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

func ownerIDs(owners map[int]struct{}) []int {
	ids := make([]int, 0, len(owners))
	for id := range owners {
		ids = append(ids, id)
	}
	return ids
}

var _ ILifecycleService = (*LifecycleService)(nil)
