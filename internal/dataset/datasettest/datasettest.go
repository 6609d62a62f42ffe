// Package datasettest provides a small in-memory order dataset for tests.
package datasettest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"order-analytics/internal/loader"
)

// Reference is a fixed point in time after every purchase in the fixture
var Reference = time.Date(2018, 1, 10, 0, 0, 0, 0, time.UTC)

// Files holds the fixture CSVs by source name. o5 lacks a delivery date and
// p3 lacks a category, so cleaning drops one order and one product.
var Files = map[string]string{
	loader.SourceOrders: "order_id,customer_id,order_status,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date\n" +
		"o1,c1,delivered,2018-01-01 10:00:00,2018-01-01 10:15:00,2018-01-02 09:00:00,2018-01-06 12:00:00,2018-01-20 00:00:00\n" +
		"o2,c2,delivered,2018-01-01 15:00:00,2018-01-01 15:10:00,2018-01-02 10:00:00,2018-01-07 12:00:00,2018-01-20 00:00:00\n" +
		"o3,c1,delivered,2018-01-03 09:00:00,2018-01-03 09:30:00,2018-01-04 08:00:00,2018-01-08 17:00:00,2018-01-22 00:00:00\n" +
		"o4,c3,delivered,2018-01-05 12:00:00,2018-01-05 12:20:00,2018-01-06 11:00:00,2018-01-09 14:00:00,2018-01-25 00:00:00\n" +
		"o5,c3,shipped,2018-01-05 13:00:00,2018-01-05 13:05:00,2018-01-06 11:00:00,,2018-01-25 00:00:00\n",
	loader.SourceCustomers: "customer_id,customer_unique_id,customer_zip_code_prefix,customer_city,customer_state\n" +
		"c1,u1,01000,sao paulo,SP\n" +
		"c2,u2,20000,rio de janeiro,RJ\n" +
		"c3,u3,30000,belo horizonte,MG\n",
	loader.SourceItems: "order_id,order_item_id,product_id,seller_id,shipping_limit_date,price,freight_value\n" +
		"o1,1,p1,s1,2018-01-03 10:00:00,8.00,2.00\n" +
		"o2,1,p2,s1,2018-01-03 15:00:00,17.50,2.50\n" +
		"o3,1,p1,s2,2018-01-05 09:00:00,8.00,2.00\n" +
		"o3,2,p3,s2,2018-01-05 09:00:00,9.00,1.00\n" +
		"o4,1,p2,s1,2018-01-07 12:00:00,22.00,3.00\n" +
		"o5,1,p1,s1,2018-01-07 13:00:00,8.00,2.00\n",
	loader.SourceProducts: "product_id,product_category_name,product_name_lenght,product_description_lenght,product_photos_qty,product_weight_g,product_length_cm,product_height_cm,product_width_cm\n" +
		"p1,perfumaria,40,287,1,225,16,10,14\n" +
		"p2,esporte_lazer,44,276,1,1000,30,18,20\n" +
		"p3,,46,250,1,154,18,9,15\n",
	loader.SourceSellers: "seller_id,seller_zip_code_prefix,seller_city,seller_state\n" +
		"s1,13023,campinas,SP\n" +
		"s2,13844,mogi guacu,SP\n",
	loader.SourceCategories: "product_category_name,product_category_name_english\n" +
		"perfumaria,perfumery\n",
	loader.SourcePayments: "order_id,payment_sequential,payment_type,payment_installments,payment_value\n" +
		"o1,1,credit_card,1,10.00\n" +
		"o2,1,boleto,1,20.00\n" +
		"o3,1,credit_card,2,15.00\n" +
		"o3,2,voucher,1,5.00\n" +
		"o4,1,credit_card,3,25.00\n" +
		"o5,1,boleto,1,10.00\n",
	loader.SourceReviews: "review_id,order_id,review_score,review_creation_date,review_answer_timestamp\n" +
		"r1,o1,5,2018-01-07 00:00:00,2018-01-08 10:00:00\n" +
		"r2,o2,4,2018-01-08 00:00:00,2018-01-08 11:00:00\n" +
		"r3,o3,3,2018-01-09 00:00:00,2018-01-09 12:00:00\n" +
		"r4,o4,5,2018-01-10 00:00:00,2018-01-10 09:00:00\n" +
		"r5,o5,1,2018-01-10 00:00:00,2018-01-10 09:30:00\n",
	loader.SourceGeolocation: "geolocation_zip_code_prefix,geolocation_lat,geolocation_lng,geolocation_city,geolocation_state\n" +
		"01000,-23.5,-46.6,sao paulo,SP\n" +
		"01000,-23.7,-46.8,sao paulo,SP\n" +
		"20000,-22.9,-43.2,rio de janeiro,RJ\n",
}

// Source serves CSV text from memory
type Source map[string]string

// Read parses the CSV registered for name
func (s Source) Read(ctx context.Context, name string) (*loader.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := s[name]
	if !ok {
		return nil, fmt.Errorf("no fixture for source %q", name)
	}
	return loader.ReadCSV(name, strings.NewReader(data))
}

// NewSource returns a copy of the fixture that tests may alter
func NewSource() Source {
	s := make(Source, len(Files))
	for k, v := range Files {
		s[k] = v
	}
	return s
}
