package models

import "time"

// Order represents a row of the orders dataset
type Order struct {
	OrderID               string    `db:"order_id" json:"order_id"`
	CustomerID            string    `db:"customer_id" json:"customer_id"`
	Status                string    `db:"order_status" json:"order_status"`
	PurchaseTimestamp     time.Time `db:"order_purchase_timestamp" json:"order_purchase_timestamp"`
	ApprovedAt            time.Time `db:"order_approved_at" json:"order_approved_at"`
	DeliveredCarrierDate  time.Time `db:"order_delivered_carrier_date" json:"order_delivered_carrier_date"`
	DeliveredCustomerDate time.Time `db:"order_delivered_customer_date" json:"order_delivered_customer_date"`
	EstimatedDeliveryDate time.Time `db:"order_estimated_delivery_date" json:"order_estimated_delivery_date"`
}

// OrderItem represents a line item of an order
type OrderItem struct {
	OrderID           string    `db:"order_id" json:"order_id"`
	OrderItemID       int       `db:"order_item_id" json:"order_item_id"`
	ProductID         string    `db:"product_id" json:"product_id"`
	SellerID          string    `db:"seller_id" json:"seller_id"`
	ShippingLimitDate time.Time `db:"shipping_limit_date" json:"shipping_limit_date"`
	Price             float64   `db:"price" json:"price"`
	FreightValue      float64   `db:"freight_value" json:"freight_value"`
}

// Product represents a catalog product
type Product struct {
	ProductID         string  `db:"product_id" json:"product_id"`
	CategoryName      string  `db:"product_category_name" json:"product_category_name"`
	NameLength        int     `db:"product_name_lenght" json:"product_name_length"`
	DescriptionLength int     `db:"product_description_lenght" json:"product_description_length"`
	PhotosQty         int     `db:"product_photos_qty" json:"product_photos_qty"`
	WeightG           float64 `db:"product_weight_g" json:"product_weight_g"`
	LengthCm          float64 `db:"product_length_cm" json:"product_length_cm"`
	HeightCm          float64 `db:"product_height_cm" json:"product_height_cm"`
	WidthCm           float64 `db:"product_width_cm" json:"product_width_cm"`
}

// Payment represents one payment (installment) of an order
type Payment struct {
	OrderID      string  `db:"order_id" json:"order_id"`
	Sequential   int     `db:"payment_sequential" json:"payment_sequential"`
	Type         string  `db:"payment_type" json:"payment_type"`
	Installments int     `db:"payment_installments" json:"payment_installments"`
	Value        float64 `db:"payment_value" json:"payment_value"`
}

// Customer represents a customer
type Customer struct {
	CustomerID    string `db:"customer_id" json:"customer_id"`
	UniqueID      string `db:"customer_unique_id" json:"customer_unique_id"`
	ZipCodePrefix string `db:"customer_zip_code_prefix" json:"customer_zip_code_prefix"`
	City          string `db:"customer_city" json:"customer_city"`
	State         string `db:"customer_state" json:"customer_state"`
}

// Seller represents a marketplace seller
type Seller struct {
	SellerID      string `db:"seller_id" json:"seller_id"`
	ZipCodePrefix string `db:"seller_zip_code_prefix" json:"seller_zip_code_prefix"`
	City          string `db:"seller_city" json:"seller_city"`
	State         string `db:"seller_state" json:"seller_state"`
}

// Review represents a customer review of an order
type Review struct {
	ReviewID        string    `db:"review_id" json:"review_id"`
	OrderID         string    `db:"order_id" json:"order_id"`
	Score           int       `db:"review_score" json:"review_score"`
	CreationDate    time.Time `db:"review_creation_date" json:"review_creation_date"`
	AnswerTimestamp time.Time `db:"review_answer_timestamp" json:"review_answer_timestamp"`
}

// CategoryTranslation maps a category name to its English name
type CategoryTranslation struct {
	CategoryName        string `db:"product_category_name" json:"product_category_name"`
	CategoryNameEnglish string `db:"product_category_name_english" json:"product_category_name_english"`
}

// Geolocation is one coordinate sample for a zip code prefix
type Geolocation struct {
	ZipCodePrefix string  `db:"geolocation_zip_code_prefix" json:"geolocation_zip_code_prefix"`
	Lat           float64 `db:"geolocation_lat" json:"geolocation_lat"`
	Lng           float64 `db:"geolocation_lng" json:"geolocation_lng"`
	City          string  `db:"geolocation_city" json:"geolocation_city"`
	State         string  `db:"geolocation_state" json:"geolocation_state"`
}

// JoinedRecord is one row of the denormalized dataset: a single
// (order, item, payment, review) combination.
type JoinedRecord struct {
	OrderID               string    `json:"order_id"`
	CustomerID            string    `json:"customer_id"`
	Status                string    `json:"order_status"`
	PurchaseTimestamp     time.Time `json:"order_purchase_timestamp"`
	DeliveredCustomerDate time.Time `json:"order_delivered_customer_date"`

	CustomerUniqueID string `json:"customer_unique_id"`
	CustomerZip      string `json:"customer_zip_code_prefix"`
	CustomerCity     string `json:"customer_city"`
	CustomerState    string `json:"customer_state"`

	OrderItemID  int     `json:"order_item_id"`
	ProductID    string  `json:"product_id"`
	Price        float64 `json:"price"`
	FreightValue float64 `json:"freight_value"`

	CategoryName        string `json:"product_category_name"`
	CategoryNameEnglish string `json:"product_category_name_english,omitempty"`
	Translated          bool   `json:"translated"`

	SellerID    string `json:"seller_id"`
	SellerZip   string `json:"seller_zip_code_prefix"`
	SellerState string `json:"seller_state"`

	PaymentSequential   int     `json:"payment_sequential"`
	PaymentType         string  `json:"payment_type"`
	PaymentInstallments int     `json:"payment_installments"`
	PaymentValue        float64 `json:"payment_value"`

	ReviewID    string `json:"review_id"`
	ReviewScore int    `json:"review_score"`
}

// Purchase is implemented by every row type carrying a purchase event
type Purchase interface {
	PurchaseOrderID() string
	PurchaseTime() time.Time
	PurchaseStatus() string
}

func (o Order) PurchaseOrderID() string { return o.OrderID }
func (o Order) PurchaseTime() time.Time { return o.PurchaseTimestamp }
func (o Order) PurchaseStatus() string  { return o.Status }

func (r JoinedRecord) PurchaseOrderID() string { return r.OrderID }
func (r JoinedRecord) PurchaseTime() time.Time { return r.PurchaseTimestamp }
func (r JoinedRecord) PurchaseStatus() string  { return r.Status }

// DailyMetric is one calendar day of order volume
type DailyMetric struct {
	Date        time.Time `json:"date"`
	OrderCount  int       `json:"order_count"`
	TotalOrders int       `json:"total_orders"`
}

// RFMRecord holds the recency/frequency/monetary metrics and scores of a customer
type RFMRecord struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
	RScore     int     `json:"r_score"`
	FScore     int     `json:"f_score"`
	MScore     int     `json:"m_score"`
	RFMScore   string  `json:"rfm_score"`
	Segment    string  `json:"segment"`
}

// Order statuses
const (
	OrderStatusCreated     = "created"
	OrderStatusApproved    = "approved"
	OrderStatusInvoiced    = "invoiced"
	OrderStatusProcessing  = "processing"
	OrderStatusShipped     = "shipped"
	OrderStatusDelivered   = "delivered"
	OrderStatusCanceled    = "canceled"
	OrderStatusUnavailable = "unavailable"
)

// Customer segments
const (
	SegmentHighValue   = "High Value"
	SegmentMediumValue = "Medium Value"
	SegmentLowValue    = "Low Value"
)
