package merger

import "order-analytics/internal/models"

// Tables holds the cleaned entity sets to be joined
type Tables struct {
	Orders     []models.Order
	Customers  []models.Customer
	Items      []models.OrderItem
	Products   []models.Product
	Sellers    []models.Seller
	Categories []models.CategoryTranslation
	Payments   []models.Payment
	Reviews    []models.Review
}

func indexBy[T any](rows []T, key func(T) string) map[string][]T {
	idx := make(map[string][]T, len(rows))
	for _, r := range rows {
		k := key(r)
		idx[k] = append(idx[k], r)
	}
	return idx
}

// Join builds the denormalized record set. Every join is an exact-match
// inner join except the category translation, which is a left join.
// One output row is produced per (order, item, payment, review) combination,
// in source order.
func Join(in Tables) []models.JoinedRecord {
	customers := indexBy(in.Customers, func(c models.Customer) string { return c.CustomerID })
	items := indexBy(in.Items, func(i models.OrderItem) string { return i.OrderID })
	products := indexBy(in.Products, func(p models.Product) string { return p.ProductID })
	sellers := indexBy(in.Sellers, func(s models.Seller) string { return s.SellerID })
	categories := indexBy(in.Categories, func(c models.CategoryTranslation) string { return c.CategoryName })
	payments := indexBy(in.Payments, func(p models.Payment) string { return p.OrderID })
	reviews := indexBy(in.Reviews, func(r models.Review) string { return r.OrderID })

	var out []models.JoinedRecord
	for _, o := range in.Orders {
		orderPayments := payments[o.OrderID]
		orderReviews := reviews[o.OrderID]
		if len(orderPayments) == 0 || len(orderReviews) == 0 {
			continue
		}

		for _, c := range customers[o.CustomerID] {
			for _, item := range items[o.OrderID] {
				for _, p := range products[item.ProductID] {
					for _, s := range sellers[item.SellerID] {
						base := models.JoinedRecord{
							OrderID:               o.OrderID,
							CustomerID:            o.CustomerID,
							Status:                o.Status,
							PurchaseTimestamp:     o.PurchaseTimestamp,
							DeliveredCustomerDate: o.DeliveredCustomerDate,
							CustomerUniqueID:      c.UniqueID,
							CustomerZip:           c.ZipCodePrefix,
							CustomerCity:          c.City,
							CustomerState:         c.State,
							OrderItemID:           item.OrderItemID,
							ProductID:             item.ProductID,
							Price:                 item.Price,
							FreightValue:          item.FreightValue,
							CategoryName:          p.CategoryName,
							SellerID:              s.SellerID,
							SellerZip:             s.ZipCodePrefix,
							SellerState:           s.State,
						}

						translations := categories[p.CategoryName]
						if len(translations) == 0 {
							translations = []models.CategoryTranslation{{}}
						}

						for _, tr := range translations {
							withCategory := base
							if tr.CategoryName != "" {
								withCategory.CategoryNameEnglish = tr.CategoryNameEnglish
								withCategory.Translated = true
							}

							for _, pay := range orderPayments {
								for _, rev := range orderReviews {
									rec := withCategory
									rec.PaymentSequential = pay.Sequential
									rec.PaymentType = pay.Type
									rec.PaymentInstallments = pay.Installments
									rec.PaymentValue = pay.Value
									rec.ReviewID = rev.ReviewID
									rec.ReviewScore = rev.Score
									out = append(out, rec)
								}
							}
						}
					}
				}
			}
		}
	}

	return out
}
