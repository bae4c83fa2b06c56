package service

import (
	"time"

	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/repository"

	"github.com/shopspring/decimal"
)

// CartItemView 购物车项视图（价格为商品当前价格）
type CartItemView struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Quantity  int          `json:"quantity"`
	Subtotal  models.Money `json:"subtotal"`
}

// CartView 购物车视图
type CartView struct {
	Items []CartItemView `json:"items"`
	Total models.Money   `json:"total"`
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get 获取购物车；读取不会创建购物车
func (s *CartService) Get(userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart)
}

// AddItem 加入购物车，已存在的商品累加数量
func (s *CartService) AddItem(userID, productID uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	cart, err := s.cartRepo.GetOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}
	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	existing := 0
	if item != nil {
		existing = item.Quantity
	}
	if existing+quantity > product.StockQuantity {
		return nil, newDetailedError(ErrInsufficientStock, "error.insufficient_stock", product.Name)
	}

	if item != nil {
		err = s.cartRepo.UpdateItemQuantity(item.ID, existing+quantity)
	} else {
		err = s.cartRepo.CreateItem(&models.CartItem{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	if err != nil {
		return nil, err
	}
	return s.touchAndView(userID, cart.ID)
}

// UpdateItem 覆盖购物车项数量，数量小于 1 视为移除
func (s *CartService) UpdateItem(userID, productID uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return s.RemoveItem(userID, productID)
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartItemNotFound
	}
	item, err := s.cartRepo.GetItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrCartItemNotFound
	}
	if quantity > product.StockQuantity {
		return nil, newDetailedError(ErrInsufficientStock, "error.insufficient_stock", product.Name)
	}

	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, err
	}
	return s.touchAndView(userID, cart.ID)
}

// RemoveItem 移除购物车项，不存在时不做任何修改
func (s *CartService) RemoveItem(userID, productID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.buildView(nil)
	}
	affected, err := s.cartRepo.DeleteItem(cart.ID, productID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return s.buildView(cart)
	}
	return s.touchAndView(userID, cart.ID)
}

// Clear 清空购物车
func (s *CartService) Clear(userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return s.buildView(nil)
	}
	if len(cart.Items) == 0 {
		return s.buildView(cart)
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, err
	}
	return s.touchAndView(userID, cart.ID)
}

func (s *CartService) touchAndView(userID, cartID uint) (*CartView, error) {
	if err := s.cartRepo.Touch(cartID, time.Now()); err != nil {
		return nil, err
	}
	return s.Get(userID)
}

func (s *CartService) buildView(cart *models.Cart) (*CartView, error) {
	view := &CartView{Items: []CartItemView{}, Total: models.NewMoneyFromDecimal(decimal.Zero)}
	if cart == nil || len(cart.Items) == 0 {
		return view, nil
	}

	ids := make([]uint, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.ListByIDs(ids)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uint]models.Product, len(products))
	for _, product := range products {
		productMap[product.ID] = product
	}

	total := decimal.Zero
	for _, item := range cart.Items {
		product, ok := productMap[item.ProductID]
		if !ok {
			continue
		}
		subtotal := product.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		view.Items = append(view.Items, CartItemView{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Subtotal:  models.NewMoneyFromDecimal(subtotal),
		})
	}
	view.Total = models.NewMoneyFromDecimal(total)
	return view, nil
}
