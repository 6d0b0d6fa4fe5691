// internal/services/order_service_test.go
package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
	"github.com/advertfuros-coder/onelince-planet-sub005/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Coupon{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderTimelineEntry{},
		&models.OutboxEvent{},
		&models.AdminNotification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

type OrderServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *OrderService

	customer models.User
	seller   models.User
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewOrderService(suite.db)

	suite.customer = models.User{
		Name:  "Asha Verma",
		Email: "asha@example.com",
		Role:  models.UserRoleCustomer,
	}
	suite.Require().NoError(suite.customer.SetPassword("Secret123!"))
	suite.Require().NoError(suite.db.Create(&suite.customer).Error)

	suite.seller = models.User{
		Name:      "Ravi Stores",
		Email:     "ravi@example.com",
		Role:      models.UserRoleSeller,
		StoreName: "Ravi Stores",
	}
	suite.Require().NoError(suite.seller.SetPassword("Secret123!"))
	suite.Require().NoError(suite.db.Create(&suite.seller).Error)
}

func (suite *OrderServiceTestSuite) createProduct(name string, price float64, stock int) models.Product {
	product := models.Product{
		SellerID:    suite.seller.ID,
		Name:        name,
		Description: "Test product",
		Category:    "general",
		Pricing:     models.ProductPricing{BasePrice: price},
		Inventory:   models.ProductInventory{Stock: stock, SKU: "SKU-" + strings.ToUpper(name)},
		IsActive:    true,
	}
	suite.Require().NoError(suite.db.Create(&product).Error)
	return product
}

func (suite *OrderServiceTestSuite) createCoupon(code string, discountType models.DiscountType, value, minOrder float64, usageLimit int) models.Coupon {
	now := time.Now()
	coupon := models.Coupon{
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: value,
		MinOrderValue: minOrder,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(24 * time.Hour),
		UsageLimit:    usageLimit,
		IsActive:      true,
	}
	suite.Require().NoError(suite.db.Create(&coupon).Error)
	return coupon
}

func validAddress() ShippingAddressInput {
	return ShippingAddressInput{
		Name:         "Asha Verma",
		Phone:        "9876543210",
		AddressLine1: "12 MG Road",
		City:         "Bengaluru",
		State:        "Karnataka",
		Pincode:      "560001",
	}
}

func (suite *OrderServiceTestSuite) placeRequest(items ...OrderItemInput) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		Items:           items,
		ShippingAddress: validAddress(),
		PaymentMethod:   "cod",
	}
}

func (suite *OrderServiceTestSuite) reloadProduct(id uuid.UUID) models.Product {
	var product models.Product
	suite.Require().NoError(suite.db.Unscoped().First(&product, "id = ?", id).Error)
	return product
}

func (suite *OrderServiceTestSuite) TestPlaceOrderComputesPricing() {
	product := suite.createProduct("Blanket", 300.00, 10)
	suite.Require().NoError(suite.db.Model(&product).UpdateColumn("sale_price", 250.00).Error)

	order, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 2},
	))

	suite.Require().NoError(err)
	suite.Equal(500.00, order.Subtotal)
	suite.Equal(0.0, order.Shipping)
	suite.Equal(90.00, order.Tax)
	suite.Equal(0.0, order.Discount)
	suite.Equal(590.00, order.Total)
	suite.Equal(models.OrderStatusConfirmed, order.Status)
	suite.Equal(models.PaymentStatusPending, order.Payment.Status)
	suite.True(strings.HasPrefix(order.OrderNumber, "OP"))

	suite.Equal(8, suite.reloadProduct(product.ID).Inventory.Stock)

	suite.Require().Len(order.Items, 1)
	suite.Equal(product.ID, order.Items[0].ProductID)
	suite.Equal(suite.seller.ID, order.Items[0].SellerID)
	suite.Equal(250.00, order.Items[0].UnitPrice)

	suite.Require().Len(order.Timeline, 1)
	suite.Equal("Order placed successfully", order.Timeline[0].Description)

	var events []models.OutboxEvent
	suite.Require().NoError(suite.db.Find(&events).Error)
	suite.Require().Len(events, 1)
	suite.Equal(models.EventOrderPlaced, events[0].EventType)
	suite.Equal(order.ID, events[0].AggregateID)
	suite.Equal(models.OutboxStatusPending, events[0].Status)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderChargesShippingBelowThreshold() {
	product := suite.createProduct("Mug", 100.00, 5)

	order, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))

	suite.Require().NoError(err)
	suite.Equal(100.00, order.Subtotal)
	suite.Equal(50.0, order.Shipping)
	suite.Equal(27.00, order.Tax) // 18% of 150
	suite.Equal(177.00, order.Total)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderUsesSalePrice() {
	product := suite.createProduct("Lamp", 300.00, 5)
	sale := 200.00
	suite.Require().NoError(suite.db.Model(&product).UpdateColumn("sale_price", sale).Error)

	order, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))

	suite.Require().NoError(err)
	suite.Equal(200.00, order.Subtotal)
	suite.Equal(200.00, order.Items[0].UnitPrice)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderWithFixedCoupon() {
	product := suite.createProduct("Blanket", 250.00, 10)
	coupon := suite.createCoupon("SAVE10", models.DiscountTypeFixed, 10, 100, 0)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 2})
	req.CouponCode = "save10" // case-insensitive match

	order, err := suite.service.PlaceOrder(suite.customer.ID, req)

	suite.Require().NoError(err)
	suite.Equal(10.00, order.Discount)
	suite.Equal(580.00, order.Total)
	suite.Equal("SAVE10", order.Payment.CouponCode)

	var reloaded models.Coupon
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", coupon.ID).Error)
	suite.Equal(1, reloaded.UsedCount)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderPercentageCouponCapped() {
	product := suite.createProduct("Sofa", 1000.00, 2)
	coupon := suite.createCoupon("PCT10", models.DiscountTypePercentage, 10, 0, 0)
	cap := 50.0
	suite.Require().NoError(suite.db.Model(&coupon).UpdateColumn("max_discount_amount", cap).Error)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 1})
	req.CouponCode = "PCT10"

	order, err := suite.service.PlaceOrder(suite.customer.ID, req)

	suite.Require().NoError(err)
	suite.Equal(50.00, order.Discount)
	suite.Equal(1130.00, order.Total) // 1000 + 180 tax - 50
}

func (suite *OrderServiceTestSuite) TestPlaceOrderCouponBelowMinOrderIsIgnored() {
	product := suite.createProduct("Mug", 100.00, 5)
	suite.createCoupon("BIG50", models.DiscountTypeFixed, 50, 500, 0)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 1})
	req.CouponCode = "BIG50"

	order, err := suite.service.PlaceOrder(suite.customer.ID, req)

	suite.Require().NoError(err)
	suite.Equal(0.0, order.Discount)
	suite.Empty(order.Payment.CouponCode)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderUnknownCouponIsIgnored() {
	product := suite.createProduct("Mug", 100.00, 5)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 1})
	req.CouponCode = "NOSUCH"

	order, err := suite.service.PlaceOrder(suite.customer.ID, req)

	suite.Require().NoError(err)
	suite.Equal(0.0, order.Discount)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderCouponUsageLimitBoundary() {
	product := suite.createProduct("Blanket", 250.00, 10)
	coupon := suite.createCoupon("ONCE", models.DiscountTypeFixed, 10, 0, 1)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 2})
	req.CouponCode = "ONCE"

	first, err := suite.service.PlaceOrder(suite.customer.ID, req)
	suite.Require().NoError(err)
	suite.Equal(10.00, first.Discount)

	// The limit is exhausted; the next order still succeeds at full price.
	second, err := suite.service.PlaceOrder(suite.customer.ID, req)
	suite.Require().NoError(err)
	suite.Equal(0.0, second.Discount)
	suite.Equal(590.00, second.Total)

	var reloaded models.Coupon
	suite.Require().NoError(suite.db.First(&reloaded, "id = ?", coupon.ID).Error)
	suite.Equal(1, reloaded.UsedCount)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderEmptyCart() {
	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest())

	suite.Require().Error(err)
	suite.Equal("Cart is empty", err.Error())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderIncompleteAddress() {
	product := suite.createProduct("Mug", 100.00, 5)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 1})
	req.ShippingAddress.Pincode = ""

	_, err := suite.service.PlaceOrder(suite.customer.ID, req)

	suite.Require().Error(err)
	suite.Equal("Complete shipping address is required", err.Error())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderInvalidPaymentMethod() {
	product := suite.createProduct("Mug", 100.00, 5)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 1})
	req.PaymentMethod = "cheque"

	_, err := suite.service.PlaceOrder(suite.customer.ID, req)

	suite.Require().Error(err)
	suite.Equal("Valid payment method required", err.Error())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderUnknownCustomer() {
	product := suite.createProduct("Mug", 100.00, 5)

	_, err := suite.service.PlaceOrder(uuid.New(), suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))

	suite.Require().Error(err)
	suite.Equal("Unauthorized", err.Error())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderInsufficientStock() {
	product := suite.createProduct("Mug", 100.00, 3)

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 5},
	))

	suite.Require().Error(err)
	suite.Equal(`Only 3 units available for "Mug"`, err.Error())

	suite.Equal(3, suite.reloadProduct(product.ID).Inventory.Stock)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Order{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderMultiItemFailureLeavesNoEffect() {
	first := suite.createProduct("Mug", 100.00, 10)
	second := suite.createProduct("Lamp", 200.00, 1)

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: first.ID, Quantity: 2},
		OrderItemInput{ProductID: second.ID, Quantity: 3},
	))

	suite.Require().Error(err)
	suite.Equal(`Only 1 units available for "Lamp"`, err.Error())

	// The whole transaction rolled back, including the first item's decrement.
	suite.Equal(10, suite.reloadProduct(first.ID).Inventory.Stock)
	suite.Equal(1, suite.reloadProduct(second.ID).Inventory.Stock)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.OutboxEvent{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderInactiveProduct() {
	product := suite.createProduct("Mug", 100.00, 5)
	suite.Require().NoError(suite.db.Model(&product).UpdateColumn("is_active", false).Error)

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))

	suite.Require().Error(err)
	suite.Equal(`Product "Mug" is currently unavailable`, err.Error())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderUnknownProduct() {
	missing := uuid.New()

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: missing, Quantity: 1},
	))

	suite.Require().Error(err)
	suite.Equal(fmt.Sprintf("Product not found: %s", missing), err.Error())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderInvalidQuantity() {
	product := suite.createProduct("Mug", 100.00, 5)

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 0},
	))

	suite.Require().Error(err)
	suite.Equal(`Invalid quantity for product "Mug"`, err.Error())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderInvalidPrice() {
	product := suite.createProduct("Mug", 100.00, 5)
	suite.Require().NoError(suite.db.Model(&product).UpdateColumn("base_price", 0).Error)

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))

	suite.Require().Error(err)
	suite.Equal(`Invalid price for product "Mug"`, err.Error())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderDrainingStockDeactivatesProduct() {
	product := suite.createProduct("Mug", 100.00, 2)

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 2},
	))

	suite.Require().NoError(err)

	reloaded := suite.reloadProduct(product.ID)
	suite.Equal(0, reloaded.Inventory.Stock)
	suite.False(reloaded.IsActive)
}

func (suite *OrderServiceTestSuite) TestPlaceOrderOnlinePaidWithTransactionID() {
	product := suite.createProduct("Mug", 100.00, 5)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 1})
	req.PaymentMethod = "upi"
	req.TransactionID = "txn_123"

	order, err := suite.service.PlaceOrder(suite.customer.ID, req)

	suite.Require().NoError(err)
	suite.Equal(models.PaymentStatusPaid, order.Payment.Status)
	suite.NotNil(order.Payment.PaidAt)
	suite.False(order.PaymentRequired())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderOnlineWithoutTransactionID() {
	product := suite.createProduct("Mug", 100.00, 5)

	req := suite.placeRequest(OrderItemInput{ProductID: product.ID, Quantity: 1})
	req.PaymentMethod = "online"

	order, err := suite.service.PlaceOrder(suite.customer.ID, req)

	suite.Require().NoError(err)
	suite.Equal(models.PaymentStatusPending, order.Payment.Status)
	suite.True(order.PaymentRequired())
}

func (suite *OrderServiceTestSuite) TestPlaceOrderClearsCart() {
	product := suite.createProduct("Mug", 100.00, 5)

	cart := models.Cart{CustomerID: suite.customer.ID}
	suite.Require().NoError(suite.db.Create(&cart).Error)
	suite.Require().NoError(suite.db.Create(&models.CartItem{
		CartID:    cart.ID,
		ProductID: product.ID,
		Quantity:  1,
	}).Error)

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.CartItem{}).
		Where("cart_id = ?", cart.ID).Count(&count).Error)
	suite.Zero(count)
}

func (suite *OrderServiceTestSuite) TestCancelOrderRestoresStock() {
	product := suite.createProduct("Mug", 100.00, 2)

	order, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 2},
	))
	suite.Require().NoError(err)
	suite.False(suite.reloadProduct(product.ID).IsActive)

	cancelled, err := suite.service.CancelOrder(order.ID, suite.customer.ID)
	suite.Require().NoError(err)
	suite.Equal(models.OrderStatusCancelled, cancelled.Status)

	reloaded := suite.reloadProduct(product.ID)
	suite.Equal(2, reloaded.Inventory.Stock)
	suite.True(reloaded.IsActive)

	suite.Require().Len(cancelled.Items, 1)
	suite.Equal(models.ItemStatusCancelled, cancelled.Items[0].Status)

	suite.Require().Len(cancelled.Timeline, 2)

	var events []models.OutboxEvent
	suite.Require().NoError(suite.db.Order("created_at").Find(&events).Error)
	suite.Require().Len(events, 2)
	suite.Equal(models.EventOrderCancelled, events[1].EventType)
}

func (suite *OrderServiceTestSuite) TestCancelOrderOnlyWhileConfirmed() {
	product := suite.createProduct("Mug", 100.00, 5)

	order, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("status", models.OrderStatusShipped).Error)

	_, err = suite.service.CancelOrder(order.ID, suite.customer.ID)

	suite.Require().Error(err)
	suite.Equal(`Order cannot be cancelled in status "shipped"`, err.Error())
	suite.Equal(4, suite.reloadProduct(product.ID).Inventory.Stock)
}

func (suite *OrderServiceTestSuite) TestGetOrderScopedToOwner() {
	product := suite.createProduct("Mug", 100.00, 5)

	order, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))
	suite.Require().NoError(err)

	found, err := suite.service.GetOrder(order.ID, suite.customer.ID)
	suite.Require().NoError(err)
	suite.Equal(order.OrderNumber, found.OrderNumber)

	_, err = suite.service.GetOrder(order.ID, suite.seller.ID)
	suite.Require().Error(err)
	suite.Equal("Order not found", err.Error())
}

func (suite *OrderServiceTestSuite) TestListOrdersFiltersAndPaginates() {
	product := suite.createProduct("Mug", 100.00, 50)

	var firstID uuid.UUID
	for i := 0; i < 3; i++ {
		order, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
			OrderItemInput{ProductID: product.ID, Quantity: 1},
		))
		suite.Require().NoError(err)
		if i == 0 {
			firstID = order.ID
		}
	}

	_, err := suite.service.CancelOrder(firstID, suite.customer.ID)
	suite.Require().NoError(err)

	params := OrderListParams{}
	params.Page = 1
	params.Limit = 10

	orders, total, err := suite.service.ListOrders(suite.customer.ID, params)
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(orders, 3)

	params.Status = models.OrderStatusCancelled
	orders, total, err = suite.service.ListOrders(suite.customer.ID, params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(orders, 1)
	suite.Equal(firstID, orders[0].ID)
}

func (suite *OrderServiceTestSuite) TestListSellerOrders() {
	product := suite.createProduct("Mug", 100.00, 5)

	other := models.User{Name: "Other Seller", Email: "other@example.com", Role: models.UserRoleSeller}
	suite.Require().NoError(other.SetPassword("Secret123!"))
	suite.Require().NoError(suite.db.Create(&other).Error)

	_, err := suite.service.PlaceOrder(suite.customer.ID, suite.placeRequest(
		OrderItemInput{ProductID: product.ID, Quantity: 1},
	))
	suite.Require().NoError(err)

	params := utils.PaginationParams{Page: 1, Limit: 10}

	orders, total, err := suite.service.ListSellerOrders(suite.seller.ID, params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Len(orders, 1)

	orders, total, err = suite.service.ListSellerOrders(other.ID, params)
	suite.Require().NoError(err)
	suite.Zero(total)
	suite.Empty(orders)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}
