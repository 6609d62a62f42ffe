package merger

import (
	"testing"
	"time"

	"order-analytics/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() Tables {
	ts := time.Date(2018, 1, 5, 10, 0, 0, 0, time.UTC)
	return Tables{
		Orders: []models.Order{
			{OrderID: "o1", CustomerID: "c1", Status: "delivered", PurchaseTimestamp: ts},
			{OrderID: "o2", CustomerID: "c2", Status: "delivered", PurchaseTimestamp: ts},
			{OrderID: "o3", CustomerID: "c1", Status: "shipped", PurchaseTimestamp: ts},
			{OrderID: "o4", CustomerID: "missing", Status: "delivered", PurchaseTimestamp: ts},
		},
		Customers: []models.Customer{
			{CustomerID: "c1", ZipCodePrefix: "01000", State: "SP"},
			{CustomerID: "c2", ZipCodePrefix: "20000", State: "RJ"},
		},
		Items: []models.OrderItem{
			{OrderID: "o1", OrderItemID: 1, ProductID: "p1", SellerID: "s1", Price: 10},
			{OrderID: "o1", OrderItemID: 2, ProductID: "p2", SellerID: "s1", Price: 20},
			{OrderID: "o2", OrderItemID: 1, ProductID: "p1", SellerID: "s1", Price: 10},
			{OrderID: "o3", OrderItemID: 1, ProductID: "gone", SellerID: "s1", Price: 10},
			{OrderID: "o4", OrderItemID: 1, ProductID: "p1", SellerID: "s1", Price: 10},
		},
		Products: []models.Product{
			{ProductID: "p1", CategoryName: "perfumaria"},
			{ProductID: "p2", CategoryName: "sem_traducao"},
		},
		Sellers: []models.Seller{
			{SellerID: "s1", ZipCodePrefix: "13000", State: "SP"},
		},
		Categories: []models.CategoryTranslation{
			{CategoryName: "perfumaria", CategoryNameEnglish: "perfumery"},
		},
		Payments: []models.Payment{
			{OrderID: "o1", Sequential: 1, Type: "credit_card", Value: 10},
			{OrderID: "o1", Sequential: 2, Type: "voucher", Value: 5},
			{OrderID: "o3", Sequential: 1, Type: "boleto", Value: 10},
			{OrderID: "o4", Sequential: 1, Type: "boleto", Value: 10},
		},
		Reviews: []models.Review{
			{ReviewID: "r1", OrderID: "o1", Score: 5},
			{ReviewID: "r2", OrderID: "o2", Score: 4},
			{ReviewID: "r3", OrderID: "o3", Score: 3},
			{ReviewID: "r4", OrderID: "o4", Score: 1},
		},
	}
}

func TestJoin_FanOut(t *testing.T) {
	rows := Join(fixture())

	// o1: 2 items x 2 payments x 1 review; o2 has no payment, o3 no product, o4 no customer
	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.Equal(t, "o1", r.OrderID)
		assert.Equal(t, "01000", r.CustomerZip)
		assert.Equal(t, "r1", r.ReviewID)
	}

	assert.Equal(t, "p1", rows[0].ProductID)
	assert.Equal(t, "credit_card", rows[0].PaymentType)
	assert.Equal(t, "p1", rows[1].ProductID)
	assert.Equal(t, "voucher", rows[1].PaymentType)
	assert.Equal(t, "p2", rows[2].ProductID)
	assert.Equal(t, "p2", rows[3].ProductID)
}

func TestJoin_CategoryTranslationIsLeftJoin(t *testing.T) {
	rows := Join(fixture())

	assert.True(t, rows[0].Translated)
	assert.Equal(t, "perfumery", rows[0].CategoryNameEnglish)

	assert.False(t, rows[2].Translated)
	assert.Equal(t, "sem_traducao", rows[2].CategoryName)
	assert.Empty(t, rows[2].CategoryNameEnglish)
}

func TestJoin_Empty(t *testing.T) {
	assert.Empty(t, Join(Tables{}))
}
