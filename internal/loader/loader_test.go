package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersCSV = "\ufefforder_id,customer_id,order_status,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date\n" +
	"o1,c1,delivered,2017-10-02 10:56:33,2017-10-02 11:07:15,2017-10-04 19:55:00,2017-10-10 21:25:13,2017-10-18 00:00:00\n" +
	"o2,c2,shipped,2018-07-24 20:41:37,2018-07-26 03:24:27,2018-07-26 14:31:00,,2018-08-13 00:00:00\n" +
	"o3,c3,delivered,2018-08-08 08:38:49,,2018-08-08 13:50:00,2018-08-17 18:06:29,2018-09-04 00:00:00\n" +
	"o4,c4,delivered,not-a-date,2018-08-08 08:55:23,2018-08-08 13:50:00,2018-08-17 18:06:29,2018-09-04 00:00:00\n"

func readTable(t *testing.T, name, data string) *Table {
	t.Helper()
	table, err := ReadCSV(name, strings.NewReader(data))
	require.NoError(t, err)
	return table
}

func TestReadCSV_StripsBOM(t *testing.T) {
	table := readTable(t, SourceOrders, ordersCSV)

	i, ok := table.Index(ColOrderID)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Len(t, table.Rows, 4)
}

func TestReadCSV_Empty(t *testing.T) {
	_, err := ReadCSV(SourceOrders, strings.NewReader(""))
	assert.Error(t, err)
}

func TestOrders_DropsRowsMissingRequiredDates(t *testing.T) {
	table := readTable(t, SourceOrders, ordersCSV)

	orders, stats, err := Orders(table, DefaultCleanRules().Orders)
	require.NoError(t, err)

	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].OrderID)
	assert.Equal(t, time.Date(2017, 10, 2, 10, 56, 33, 0, time.UTC), orders[0].PurchaseTimestamp)
	assert.Equal(t, time.Date(2017, 10, 18, 0, 0, 0, 0, time.UTC), orders[0].EstimatedDeliveryDate)

	assert.Equal(t, 4, stats.Read)
	assert.Equal(t, 1, stats.Kept)
	assert.Equal(t, 3, stats.Dropped)
	assert.Equal(t, map[string]int{
		ColDeliveredCustomerDate: 1,
		ColApprovedAt:            1,
		ColPurchaseTimestamp:     1,
	}, stats.DroppedBy)
}

func TestOrders_NoRulesKeepsOptionalGaps(t *testing.T) {
	table := readTable(t, SourceOrders, ordersCSV)

	orders, stats, err := Orders(table, nil)
	require.NoError(t, err)

	// only the unparseable purchase timestamp is fatal for a row
	assert.Len(t, orders, 3)
	assert.Equal(t, 1, stats.Dropped)
	assert.True(t, orders[1].DeliveredCustomerDate.IsZero())
}

func TestOrders_MissingColumn(t *testing.T) {
	table := readTable(t, SourceOrders, "order_id,customer_id,order_status,order_purchase_timestamp\no1,c1,delivered,2017-10-02 10:56:33\n")

	orders, _, err := Orders(table, DefaultCleanRules().Orders)
	assert.Nil(t, orders)

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, SourceOrders, missing.Source)
	assert.Equal(t, ColApprovedAt, missing.Column)
}

func TestProducts_Cleaning(t *testing.T) {
	data := "product_id,product_category_name,product_name_lenght,product_description_lenght,product_photos_qty,product_weight_g,product_length_cm,product_height_cm,product_width_cm\n" +
		"p1,perfumaria,40.0,287,1,225,16,10,14\n" +
		"p2,,46,250,1,1000,30,18,20\n" +
		"p3,artes,44,276,1,,18,9,15\n" +
		"p4,esporte_lazer,abc,276,1,154,18,9,15\n"
	table := readTable(t, SourceProducts, data)

	products, stats, err := Products(table, DefaultCleanRules().Products)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, 40, products[0].NameLength)
	assert.Equal(t, 225.0, products[0].WeightG)
	assert.Equal(t, 3, stats.Dropped)
	assert.Equal(t, 1, stats.DroppedBy[ColCategoryName])
	assert.Equal(t, 1, stats.DroppedBy[ColWeightG])
	assert.Equal(t, 1, stats.DroppedBy[ColNameLength])
}

func TestPayments_ShortRowsAreTolerated(t *testing.T) {
	data := "order_id,payment_sequential,payment_type,payment_installments,payment_value\n" +
		"o1,1,credit_card,8,99.33\n" +
		"o1,2,voucher\n"
	table := readTable(t, SourcePayments, data)

	payments, stats, err := Payments(table)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, 0.0, payments[1].Value)
	assert.Equal(t, 0, stats.Dropped)
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2018-01-05 07:08:09", time.Date(2018, 1, 5, 7, 8, 9, 0, time.UTC), true},
		{"2018-01-05T07:08:09", time.Date(2018, 1, 5, 7, 8, 9, 0, time.UTC), true},
		{"2018-01-05", time.Date(2018, 1, 5, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"05/01/2018", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCSVSource_Read(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFiles[SourceOrders]), []byte(ordersCSV), 0644))

	src := NewCSVSource(dir)

	table, err := src.Read(context.Background(), SourceOrders)
	require.NoError(t, err)
	assert.Equal(t, SourceOrders, table.Name)
	assert.Len(t, table.Rows, 4)

	_, err = src.Read(context.Background(), SourceCustomers)
	assert.Error(t, err)

	_, err = src.Read(context.Background(), "unknown")
	assert.Error(t, err)
}
