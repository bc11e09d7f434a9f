package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/catalog"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/identity"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/shopspring/decimal"
)

// 測試用 in-memory 實作，全部走與正式相同的介面

type fakeCartRepo struct {
	mu     sync.Mutex
	carts  map[uint]*model.Cart
	nextID uint
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[uint]*model.Cart), nextID: 1}
}

func (f *fakeCartRepo) addCart(cart model.Cart) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := cart
	f.carts[stored.ID] = &stored
}

func copyCart(cart *model.Cart) *model.Cart {
	out := *cart
	out.CartItems = make([]model.CartItem, len(cart.CartItems))
	copy(out.CartItems, cart.CartItems)
	return &out
}

func (f *fakeCartRepo) CreateCartWithItems(ctx context.Context, cart *model.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart.ID = f.nextID
	f.nextID++
	for i := range cart.CartItems {
		cart.CartItems[i].ID = f.nextID
		f.nextID++
		cart.CartItems[i].CartID = cart.ID
	}
	f.carts[cart.ID] = copyCart(cart)
	return nil
}

func (f *fakeCartRepo) GetCartByID(ctx context.Context, id uint) (*model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[id]
	if !ok {
		return nil, nil
	}
	return copyCart(cart), nil
}

func (f *fakeCartRepo) GetCartsByUserID(ctx context.Context, userID int) ([]model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var carts []model.Cart
	for _, cart := range f.carts {
		if cart.UserID == userID {
			carts = append(carts, *copyCart(cart))
		}
	}
	return carts, nil
}

func (f *fakeCartRepo) GetAllCarts(ctx context.Context) ([]model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var carts []model.Cart
	for _, cart := range f.carts {
		carts = append(carts, *copyCart(cart))
	}
	return carts, nil
}

func (f *fakeCartRepo) GetCartsByProductIDs(ctx context.Context, productIDs []string) ([]model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = struct{}{}
	}
	var carts []model.Cart
	for _, cart := range f.carts {
		for _, item := range cart.CartItems {
			if _, ok := wanted[item.ProductID]; ok {
				carts = append(carts, *copyCart(cart))
				break
			}
		}
	}
	return carts, nil
}

func (f *fakeCartRepo) GetCartItemByID(ctx context.Context, id uint) (*model.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		for _, item := range cart.CartItems {
			if item.ID == id {
				found := item
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeCartRepo) UpdateCartItemCompleted(ctx context.Context, itemID uint, completed model.ItemCompleted) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		for i := range cart.CartItems {
			if cart.CartItems[i].ID == itemID {
				value := completed
				cart.CartItems[i].Completed = &value
				return nil
			}
		}
	}
	return fmt.Errorf("cart item %d not found", itemID)
}

func (f *fakeCartRepo) UpdateCartItemReceived(ctx context.Context, itemID uint, received model.ItemReceived) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cart := range f.carts {
		for i := range cart.CartItems {
			if cart.CartItems[i].ID == itemID {
				value := received
				cart.CartItems[i].Received = &value
				return nil
			}
		}
	}
	return fmt.Errorf("cart item %d not found", itemID)
}

func (f *fakeCartRepo) UpdateCartStatus(ctx context.Context, cartID uint, status model.CartStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cart, ok := f.carts[cartID]
	if !ok {
		return fmt.Errorf("cart %d not found", cartID)
	}
	cart.Status = status
	return nil
}

func (f *fakeCartRepo) Transaction(ctx context.Context, fn func(txRepo db.ICartRepository) error) error {
	return fn(f)
}

var _ db.ICartRepository = (*fakeCartRepo)(nil)

type fakeUserRepo struct {
	users map[int]*model.User
}

func newFakeUserRepo(users ...model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[int]*model.User)}
	for _, user := range users {
		stored := user
		f.users[stored.UserID] = &stored
	}
	return f
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	f.users[user.UserID] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return user, nil
}

var _ db.IUserRepository = (*fakeUserRepo)(nil)

type fakePromoRepo struct {
	promos map[string]*model.PromoCode
}

func newFakePromoRepo(promos ...model.PromoCode) *fakePromoRepo {
	f := &fakePromoRepo{promos: make(map[string]*model.PromoCode)}
	for _, promo := range promos {
		stored := promo
		f.promos[stored.Name] = &stored
	}
	return f
}

func (f *fakePromoRepo) CreatePromoCode(ctx context.Context, promo *model.PromoCode) error {
	f.promos[promo.Name] = promo
	return nil
}

func (f *fakePromoRepo) GetPromoCodeByName(ctx context.Context, name string) (*model.PromoCode, error) {
	promo, ok := f.promos[name]
	if !ok {
		return nil, nil
	}
	return promo, nil
}

func (f *fakePromoRepo) UsePromoCode(ctx context.Context, name string) error {
	promo, ok := f.promos[name]
	if !ok {
		return fmt.Errorf("promo %s not found", name)
	}
	promo.UsedCount++
	return nil
}

var _ db.IPromoRepository = (*fakePromoRepo)(nil)

type fakeCatalog struct {
	products map[string]catalog.ProductInfo
}

func newFakeCatalog(products ...catalog.ProductInfo) *fakeCatalog {
	f := &fakeCatalog{products: make(map[string]catalog.ProductInfo)}
	for _, product := range products {
		f.products[product.ProductID] = product
	}
	return f
}

func (f *fakeCatalog) ResolveProduct(ctx context.Context, productID string) (*catalog.ProductInfo, error) {
	product, ok := f.products[productID]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &product, nil
}

func (f *fakeCatalog) ResolveProducts(ctx context.Context, productIDs []string) (map[string]catalog.ProductInfo, error) {
	out := make(map[string]catalog.ProductInfo, len(productIDs))
	for _, id := range productIDs {
		if product, ok := f.products[id]; ok {
			out[id] = product
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListOwnerProductIDs(ctx context.Context, ownerID int) ([]string, error) {
	var ids []string
	for id, product := range f.products {
		if product.OwnerID == ownerID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

var _ catalog.Resolver = (*fakeCatalog)(nil)

type fakeIdentity struct {
	actors map[string]identity.Actor
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{actors: make(map[string]identity.Actor)}
}

func (f *fakeIdentity) addActor(credential string, id int, role model.Role) {
	f.actors[credential] = identity.Actor{ID: id, Role: role}
}

func (f *fakeIdentity) ResolveActor(ctx context.Context, credential string) (*identity.Actor, error) {
	actor, ok := f.actors[credential]
	if !ok {
		return nil, identity.ErrUnauthenticated
	}
	return &actor, nil
}

var _ identity.Resolver = (*fakeIdentity)(nil)

// fakeCache 記錄所有被刪除的 key，測試用來驗證失效範圍
type fakeCache struct {
	mu          sync.Mutex
	carts       map[string][]model.Cart
	private     map[int][]model.PrivateCart
	ordersData  map[int][]model.Cart
	pending     map[string]*model.PendingPayment
	deletedKeys []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		carts:      make(map[string][]model.Cart),
		private:    make(map[int][]model.PrivateCart),
		ordersData: make(map[int][]model.Cart),
		pending:    make(map[string]*model.PendingPayment),
	}
}

func cartsCacheKey(userID *int) string {
	if userID == nil {
		return "orders:all"
	}
	return fmt.Sprintf("orders:%d", *userID)
}

func (f *fakeCache) GetCarts(ctx context.Context, userID *int) ([]model.Cart, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	carts, ok := f.carts[cartsCacheKey(userID)]
	return carts, ok, nil
}

func (f *fakeCache) SetCarts(ctx context.Context, userID *int, carts []model.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.carts[cartsCacheKey(userID)] = carts
	return nil
}

func (f *fakeCache) GetPrivateCarts(ctx context.Context, sellerID int) ([]model.PrivateCart, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	carts, ok := f.private[sellerID]
	return carts, ok, nil
}

func (f *fakeCache) SetPrivateCarts(ctx context.Context, sellerID int, carts []model.PrivateCart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.private[sellerID] = carts
	return nil
}

func (f *fakeCache) GetOrdersData(ctx context.Context, sellerID int) ([]model.Cart, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	carts, ok := f.ordersData[sellerID]
	return carts, ok, nil
}

func (f *fakeCache) SetOrdersData(ctx context.Context, sellerID int, carts []model.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ordersData[sellerID] = carts
	return nil
}

func (f *fakeCache) GetPendingPayment(ctx context.Context, intentID string) (*model.PendingPayment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payment, ok := f.pending[intentID]
	return payment, ok, nil
}

func (f *fakeCache) SetPendingPayment(ctx context.Context, intentID string, payment *model.PendingPayment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[intentID] = payment
	return nil
}

func (f *fakeCache) DeletePendingPayment(ctx context.Context, intentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.pending, intentID)
	f.deletedKeys = append(f.deletedKeys, fmt.Sprintf("uncompletedPaymentIntent:%s", intentID))
	return nil
}

func (f *fakeCache) InvalidateCarts(ctx context.Context, userID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.carts, fmt.Sprintf("orders:%d", userID))
	delete(f.carts, "orders:all")
	f.deletedKeys = append(f.deletedKeys, fmt.Sprintf("orders:%d", userID), "orders:all")
	return nil
}

func (f *fakeCache) InvalidateSellerViews(ctx context.Context, sellerID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.private, sellerID)
	delete(f.ordersData, sellerID)
	f.deletedKeys = append(f.deletedKeys,
		fmt.Sprintf("privateCarts:%d", sellerID),
		fmt.Sprintf("ordersData:%d", sellerID))
	return nil
}

var _ redis_repo.ICartCache = (*fakeCache)(nil)

func (f *fakeCache) deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deletedKeys))
	copy(out, f.deletedKeys)
	return out
}

type fakeGateway struct {
	mu      sync.Mutex
	nextID  int
	status  string
	intents map[string]decimal.Decimal
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{status: "succeeded", intents: make(map[string]decimal.Decimal)}
}

func (f *fakeGateway) CreateIntent(ctx context.Context, amount decimal.Decimal) (*PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("pi_%d", f.nextID)
	f.intents[id] = amount
	return &PaymentIntent{ID: id, Amount: amount, Status: "requires_confirmation"}, nil
}

func (f *fakeGateway) ConfirmIntent(ctx context.Context, intentID string, methodID string) (*PaymentIntent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	amount, ok := f.intents[intentID]
	if !ok {
		return &PaymentIntent{ID: intentID, Status: "canceled"}, nil
	}
	return &PaymentIntent{ID: intentID, Amount: amount, Status: f.status}, nil
}

var _ PaymentGateway = (*fakeGateway)(nil)
