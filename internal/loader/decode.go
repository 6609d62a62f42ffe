package loader

import "order-analytics/internal/models"

// Column names of the source tables. These are the contract with the
// upstream data producer and are kept verbatim, misspellings included.
const (
	ColOrderID               = "order_id"
	ColCustomerID            = "customer_id"
	ColOrderStatus           = "order_status"
	ColPurchaseTimestamp     = "order_purchase_timestamp"
	ColApprovedAt            = "order_approved_at"
	ColDeliveredCarrierDate  = "order_delivered_carrier_date"
	ColDeliveredCustomerDate = "order_delivered_customer_date"
	ColEstimatedDeliveryDate = "order_estimated_delivery_date"

	ColProductID          = "product_id"
	ColCategoryName       = "product_category_name"
	ColNameLength         = "product_name_lenght"
	ColDescriptionLength  = "product_description_lenght"
	ColPhotosQty          = "product_photos_qty"
	ColWeightG            = "product_weight_g"
	ColLengthCm           = "product_length_cm"
	ColHeightCm           = "product_height_cm"
	ColWidthCm            = "product_width_cm"

	ColCategoryNameEnglish = "product_category_name_english"
)

// CleanRules lists, per entity, the columns a row must have a value in
type CleanRules struct {
	Orders   []string
	Products []string
}

// DefaultCleanRules returns the cleaning rules of the order dataset
func DefaultCleanRules() CleanRules {
	return CleanRules{
		Orders: []string{
			ColApprovedAt,
			ColDeliveredCarrierDate,
			ColDeliveredCustomerDate,
		},
		Products: []string{
			ColCategoryName,
			ColNameLength,
			ColDescriptionLength,
			ColWeightG,
			ColLengthCm,
			ColHeightCm,
			ColWidthCm,
		},
	}
}

func decode[T any](t *Table, declared, required []string, build func(r *rowReader) T) ([]T, Stats, error) {
	stats := Stats{Source: t.Name}

	r, err := newRowReader(t, declared, required)
	if err != nil {
		return nil, stats, err
	}

	out := make([]T, 0, len(t.Rows))
	for _, row := range t.Rows {
		stats.Read++
		r.reset(row)
		v := build(r)
		if r.bad != "" {
			stats.drop(r.bad)
			continue
		}
		out = append(out, v)
	}
	stats.Kept = len(out)

	return out, stats, nil
}

// Orders decodes the orders table. The order id, customer id and purchase
// timestamp are always required; required adds further columns.
func Orders(t *Table, required []string) ([]models.Order, Stats, error) {
	declared := []string{
		ColOrderID, ColCustomerID, ColOrderStatus, ColPurchaseTimestamp, ColApprovedAt,
		ColDeliveredCarrierDate, ColDeliveredCustomerDate, ColEstimatedDeliveryDate,
	}
	req := append([]string{ColOrderID, ColCustomerID, ColPurchaseTimestamp}, required...)

	return decode(t, declared, req, func(r *rowReader) models.Order {
		return models.Order{
			OrderID:               r.str(ColOrderID),
			CustomerID:            r.str(ColCustomerID),
			Status:                r.str(ColOrderStatus),
			PurchaseTimestamp:     r.timestamp(ColPurchaseTimestamp),
			ApprovedAt:            r.timestamp(ColApprovedAt),
			DeliveredCarrierDate:  r.timestamp(ColDeliveredCarrierDate),
			DeliveredCustomerDate: r.timestamp(ColDeliveredCustomerDate),
			EstimatedDeliveryDate: r.timestamp(ColEstimatedDeliveryDate),
		}
	})
}

// Products decodes the products table
func Products(t *Table, required []string) ([]models.Product, Stats, error) {
	declared := []string{
		ColProductID, ColCategoryName, ColNameLength, ColDescriptionLength, ColPhotosQty,
		ColWeightG, ColLengthCm, ColHeightCm, ColWidthCm,
	}
	req := append([]string{ColProductID}, required...)

	return decode(t, declared, req, func(r *rowReader) models.Product {
		return models.Product{
			ProductID:         r.str(ColProductID),
			CategoryName:      r.str(ColCategoryName),
			NameLength:        r.integer(ColNameLength),
			DescriptionLength: r.integer(ColDescriptionLength),
			PhotosQty:         r.integer(ColPhotosQty),
			WeightG:           r.float(ColWeightG),
			LengthCm:          r.float(ColLengthCm),
			HeightCm:          r.float(ColHeightCm),
			WidthCm:           r.float(ColWidthCm),
		}
	})
}

func Customers(t *Table) ([]models.Customer, Stats, error) {
	declared := []string{ColCustomerID, "customer_unique_id", "customer_zip_code_prefix", "customer_city", "customer_state"}

	return decode(t, declared, []string{ColCustomerID}, func(r *rowReader) models.Customer {
		return models.Customer{
			CustomerID:    r.str(ColCustomerID),
			UniqueID:      r.str("customer_unique_id"),
			ZipCodePrefix: r.str("customer_zip_code_prefix"),
			City:          r.str("customer_city"),
			State:         r.str("customer_state"),
		}
	})
}

func Items(t *Table) ([]models.OrderItem, Stats, error) {
	declared := []string{ColOrderID, "order_item_id", ColProductID, "seller_id", "shipping_limit_date", "price", "freight_value"}

	return decode(t, declared, []string{ColOrderID, ColProductID, "seller_id"}, func(r *rowReader) models.OrderItem {
		return models.OrderItem{
			OrderID:           r.str(ColOrderID),
			OrderItemID:       r.integer("order_item_id"),
			ProductID:         r.str(ColProductID),
			SellerID:          r.str("seller_id"),
			ShippingLimitDate: r.timestamp("shipping_limit_date"),
			Price:             r.float("price"),
			FreightValue:      r.float("freight_value"),
		}
	})
}

func Sellers(t *Table) ([]models.Seller, Stats, error) {
	declared := []string{"seller_id", "seller_zip_code_prefix", "seller_city", "seller_state"}

	return decode(t, declared, []string{"seller_id"}, func(r *rowReader) models.Seller {
		return models.Seller{
			SellerID:      r.str("seller_id"),
			ZipCodePrefix: r.str("seller_zip_code_prefix"),
			City:          r.str("seller_city"),
			State:         r.str("seller_state"),
		}
	})
}

func Payments(t *Table) ([]models.Payment, Stats, error) {
	declared := []string{ColOrderID, "payment_sequential", "payment_type", "payment_installments", "payment_value"}

	return decode(t, declared, []string{ColOrderID}, func(r *rowReader) models.Payment {
		return models.Payment{
			OrderID:      r.str(ColOrderID),
			Sequential:   r.integer("payment_sequential"),
			Type:         r.str("payment_type"),
			Installments: r.integer("payment_installments"),
			Value:        r.float("payment_value"),
		}
	})
}

func Reviews(t *Table) ([]models.Review, Stats, error) {
	declared := []string{"review_id", ColOrderID, "review_score", "review_creation_date", "review_answer_timestamp"}

	return decode(t, declared, []string{ColOrderID}, func(r *rowReader) models.Review {
		return models.Review{
			ReviewID:        r.str("review_id"),
			OrderID:         r.str(ColOrderID),
			Score:           r.integer("review_score"),
			CreationDate:    r.timestamp("review_creation_date"),
			AnswerTimestamp: r.timestamp("review_answer_timestamp"),
		}
	})
}

func Categories(t *Table) ([]models.CategoryTranslation, Stats, error) {
	declared := []string{ColCategoryName, ColCategoryNameEnglish}

	return decode(t, declared, []string{ColCategoryName}, func(r *rowReader) models.CategoryTranslation {
		return models.CategoryTranslation{
			CategoryName:        r.str(ColCategoryName),
			CategoryNameEnglish: r.str(ColCategoryNameEnglish),
		}
	})
}

func Geolocations(t *Table) ([]models.Geolocation, Stats, error) {
	declared := []string{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng", "geolocation_city", "geolocation_state"}
	required := []string{"geolocation_zip_code_prefix", "geolocation_lat", "geolocation_lng"}

	return decode(t, declared, required, func(r *rowReader) models.Geolocation {
		return models.Geolocation{
			ZipCodePrefix: r.str("geolocation_zip_code_prefix"),
			Lat:           r.float("geolocation_lat"),
			Lng:           r.float("geolocation_lng"),
			City:          r.str("geolocation_city"),
			State:         r.str("geolocation_state"),
		}
	})
}
