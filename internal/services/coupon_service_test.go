// internal/services/coupon_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/advertfuros-coder/onelince-planet-sub005/internal/models"
)

type CouponServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CouponService
}

func (suite *CouponServiceTestSuite) SetupTest() {
	suite.db = newTestDB(suite.T())
	suite.service = NewCouponService(suite.db)
}

func (suite *CouponServiceTestSuite) createRequest(code string) *CreateCouponRequest {
	now := time.Now()
	return &CreateCouponRequest{
		Code:          code,
		DiscountType:  "fixed",
		DiscountValue: 10,
		ValidFrom:     now.Add(-time.Hour),
		ValidUntil:    now.Add(24 * time.Hour),
	}
}

func (suite *CouponServiceTestSuite) TestCreateCouponUppercasesCode() {
	coupon, err := suite.service.CreateCoupon(suite.createRequest("save10"))

	suite.Require().NoError(err)
	suite.Equal("SAVE10", coupon.Code)
	suite.True(coupon.IsActive)
}

func (suite *CouponServiceTestSuite) TestCreateCouponDuplicateCode() {
	_, err := suite.service.CreateCoupon(suite.createRequest("SAVE10"))
	suite.Require().NoError(err)

	_, err = suite.service.CreateCoupon(suite.createRequest("SAVE10"))

	suite.Require().Error(err)
	suite.Equal("Coupon code already exists", err.Error())
}

func (suite *CouponServiceTestSuite) TestCreateCouponInvalidWindow() {
	req := suite.createRequest("SAVE10")
	req.ValidUntil = req.ValidFrom.Add(-time.Minute)

	_, err := suite.service.CreateCoupon(req)

	suite.Require().Error(err)
	suite.Equal("Coupon validity window is invalid", err.Error())
}

func (suite *CouponServiceTestSuite) TestUpdateCoupon() {
	coupon, err := suite.service.CreateCoupon(suite.createRequest("SAVE10"))
	suite.Require().NoError(err)

	inactive := false
	limit := 5
	updated, err := suite.service.UpdateCoupon(coupon.ID, &UpdateCouponRequest{
		UsageLimit: &limit,
		IsActive:   &inactive,
	})

	suite.Require().NoError(err)
	suite.Equal(5, updated.UsageLimit)
	suite.False(updated.IsActive)
}

func (suite *CouponServiceTestSuite) TestUpdateCouponNotFound() {
	limit := 5
	_, err := suite.service.UpdateCoupon(uuid.New(), &UpdateCouponRequest{UsageLimit: &limit})

	suite.Require().Error(err)
	suite.Equal("Coupon not found", err.Error())
}

func (suite *CouponServiceTestSuite) TestDeleteCoupon() {
	coupon, err := suite.service.CreateCoupon(suite.createRequest("SAVE10"))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.service.DeleteCoupon(coupon.ID))

	err = suite.service.DeleteCoupon(coupon.ID)
	suite.Require().Error(err)
	suite.Equal("Coupon not found", err.Error())
}

func (suite *CouponServiceTestSuite) TestValidateCoupon() {
	_, err := suite.service.CreateCoupon(suite.createRequest("SAVE10"))
	suite.Require().NoError(err)

	quote, err := suite.service.ValidateCoupon(&ValidateCouponRequest{Code: "save10", Subtotal: 500})
	suite.Require().NoError(err)
	suite.True(quote.Valid)
	suite.Equal("SAVE10", quote.Code)
	suite.Equal(10.0, quote.Discount)

	// Validation never burns a use.
	var reloaded models.Coupon
	suite.Require().NoError(suite.db.First(&reloaded, "code = ?", "SAVE10").Error)
	suite.Zero(reloaded.UsedCount)
}

func (suite *CouponServiceTestSuite) TestValidateCouponNotFound() {
	quote, err := suite.service.ValidateCoupon(&ValidateCouponRequest{Code: "NOSUCH", Subtotal: 500})

	suite.Require().NoError(err)
	suite.False(quote.Valid)
	suite.Equal("Coupon not found", quote.Message)
}

func (suite *CouponServiceTestSuite) TestValidateCouponNotApplicable() {
	req := suite.createRequest("BIG50")
	req.MinOrderValue = 1000
	_, err := suite.service.CreateCoupon(req)
	suite.Require().NoError(err)

	quote, err := suite.service.ValidateCoupon(&ValidateCouponRequest{Code: "BIG50", Subtotal: 500})

	suite.Require().NoError(err)
	suite.False(quote.Valid)
	suite.Equal("Coupon is not applicable to this order", quote.Message)
}

func TestCouponServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CouponServiceTestSuite))
}
