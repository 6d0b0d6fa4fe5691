// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
)

type ProductServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ProductService

	seller models.User
}

func (suite *ProductServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewProductService(suite.db)

	suite.seller = models.User{Name: "Ravi Stores", Email: "ravi@example.com", Role: models.UserRoleSeller}
	suite.Require().NoError(suite.seller.SetPassword("Secret123!"))
	suite.Require().NoError(suite.db.Create(&suite.seller).Error)
}

func createProductRequest(name string, price float64, stock int) *CreateProductRequest {
	return &CreateProductRequest{
		Name:        name,
		Description: "A product with a long enough description",
		Category:    "home",
		BasePrice:   price,
		Stock:       stock,
	}
}

func (suite *ProductServiceTestSuite) TestCreateProductActiveWhenStocked() {
	product, err := suite.service.CreateProduct(suite.seller.ID, createProductRequest("Blanket", 250, 10))

	suite.Require().NoError(err)
	suite.True(product.IsActive)
	suite.Equal(10, product.Inventory.Stock)
	suite.Equal(250.0, product.UnitPrice())
}

func (suite *ProductServiceTestSuite) TestCreateProductInactiveWhenOutOfStock() {
	product, err := suite.service.CreateProduct(suite.seller.ID, createProductRequest("Blanket", 250, 0))

	suite.Require().NoError(err)
	suite.False(product.IsActive)
}

func (suite *ProductServiceTestSuite) TestUpdateProductOwnershipEnforced() {
	product, err := suite.service.CreateProduct(suite.seller.ID, createProductRequest("Blanket", 250, 10))
	suite.Require().NoError(err)

	other := models.User{Name: "Other", Email: "other@example.com", Role: models.UserRoleSeller}
	suite.Require().NoError(other.SetPassword("Secret123!"))
	suite.Require().NoError(suite.db.Create(&other).Error)

	price := 300.0
	_, err = suite.service.UpdateProduct(product.ID, other.ID, &UpdateProductRequest{BasePrice: &price})

	suite.Require().Error(err)
	suite.Equal("Unauthorized to update this product", err.Error())
}

func (suite *ProductServiceTestSuite) TestUpdateProductAppliesChanges() {
	product, err := suite.service.CreateProduct(suite.seller.ID, createProductRequest("Blanket", 250, 10))
	suite.Require().NoError(err)

	sale := 200.0
	stock := 3
	updated, err := suite.service.UpdateProduct(product.ID, suite.seller.ID, &UpdateProductRequest{
		SalePrice: &sale,
		Stock:     &stock,
	})

	suite.Require().NoError(err)
	suite.Equal(200.0, updated.UnitPrice())
	suite.Equal(3, updated.Inventory.Stock)
}

func (suite *ProductServiceTestSuite) TestDeleteProductIsSoft() {
	product, err := suite.service.CreateProduct(suite.seller.ID, createProductRequest("Blanket", 250, 10))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteProduct(product.ID, suite.seller.ID))

	_, err = suite.service.GetProduct(product.ID)
	suite.Require().Error(err)

	// The row survives for order snapshots to reference.
	var count int64
	suite.Require().NoError(suite.db.Unscoped().Model(&models.Product{}).
		Where("id = ?", product.ID).Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *ProductServiceTestSuite) TestSearchProductsFilters() {
	_, err := suite.service.CreateProduct(suite.seller.ID, createProductRequest("Wool Blanket", 250, 10))
	suite.Require().NoError(err)
	_, err = suite.service.CreateProduct(suite.seller.ID, createProductRequest("Desk Lamp", 900, 5))
	suite.Require().NoError(err)
	_, err = suite.service.CreateProduct(suite.seller.ID, createProductRequest("Sold Out Rug", 400, 0))
	suite.Require().NoError(err)

	params := ProductSearchParams{}
	params.Page = 1
	params.Limit = 10

	// Inactive products are hidden from the storefront by default.
	products, total, err := suite.service.SearchProducts(params)
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(products, 2)

	// Seller views include them.
	params.All = true
	_, total, err = suite.service.SearchProducts(params)
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)

	// Text search.
	params.All = false
	params.Search = "blanket"
	products, total, err = suite.service.SearchProducts(params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("Wool Blanket", products[0].Name)

	// Price range on the effective price.
	params.Search = ""
	min := 500.0
	params.PriceMin = &min
	products, total, err = suite.service.SearchProducts(params)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("Desk Lamp", products[0].Name)
}

func (suite *ProductServiceTestSuite) TestGetProductNotFound() {
	missing := uuid.New()
	_, err := suite.service.GetProduct(missing)

	suite.Require().Error(err)
	suite.Contains(err.Error(), "Product not found")
}

func TestProductServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceTestSuite))
}
