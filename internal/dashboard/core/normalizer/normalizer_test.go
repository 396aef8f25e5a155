package normalizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/printhub/internal/dashboard/core/domain/entity"
)

func amount(v int64) entity.Amount {
	return entity.NewAmount(decimal.NewFromInt(v))
}

func TestOrders_SkipsUserWithoutMaps(t *testing.T) {
	records, ok := Orders(entity.UserDocument{Key: "u1", Name: "Ana"})
	assert.False(t, ok)
	assert.Empty(t, records)
}

func TestOrders_EmptyMapsAreNotMalformed(t *testing.T) {
	records, ok := Orders(entity.UserDocument{Key: "u1", Orders: map[string]entity.CustomOrderDocument{}})
	assert.True(t, ok)
	assert.Empty(t, records)
}

func TestOrders_TagsAndDenormalises(t *testing.T) {
	u := entity.UserDocument{
		Key:   "u1",
		Name:  "Ana",
		Phone: "555-0100",
		Orders: map[string]entity.CustomOrderDocument{
			"-c1": {
				CreatedAt:  "2026-03-01T10:00:00Z",
				TotalPrice: amount(500),
				Files: []entity.FileDocument{
					{FileName: "bracket_v2.stl", Quantity: 2, Price: amount(100)},
					{Quantity: 0, Price: amount(50), TotalPrice: amount(70)},
				},
			},
		},
		StoreOrders: map[string]entity.StoreOrderDocument{
			"-s1": {OrderID: "ORD-9", Status: "Delivered", TotalPrice: amount(1200)},
		},
	}

	records, ok := Orders(u)
	require.True(t, ok)
	require.Len(t, records, 2)

	custom := records[0]
	assert.Equal(t, entity.KindCustom, custom.Kind)
	assert.Equal(t, "-c1", custom.OrderKey)
	assert.Equal(t, "-c1", custom.OrderID, "order id falls back to the key")
	assert.Equal(t, "u1", custom.UserID)
	assert.Equal(t, "Ana", custom.UserName)
	assert.Equal(t, "555-0100", custom.UserPhone)
	assert.Equal(t, entity.StatusPending, custom.Status)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), custom.OrderTimestamp)
	assert.True(t, custom.DeliveryCharge.IsZero())
	require.NotNil(t, custom.Custom)
	assert.Nil(t, custom.Store)
	require.Len(t, custom.Custom.Files, 2)
	assert.Equal(t, "200", custom.Custom.Files[0].LineTotal.String())
	assert.Equal(t, entity.NotAvailable, custom.Custom.Files[1].FileName)
	assert.Equal(t, 1, custom.Custom.Files[1].Quantity)
	assert.Equal(t, "70", custom.Custom.Files[1].LineTotal.String())

	store := records[1]
	assert.Equal(t, entity.KindStore, store.Kind)
	assert.Equal(t, "ORD-9", store.OrderID)
	assert.Equal(t, entity.StatusDelivered, store.Status)
	require.NotNil(t, store.Store)
	assert.True(t, store.Store.Savings.IsZero())
}

func TestOrders_PhoneFallback(t *testing.T) {
	u := entity.UserDocument{
		Key: "u1",
		Orders: map[string]entity.CustomOrderDocument{
			"a": {Phone: "555-0199"},
			"b": {},
		},
	}
	records, ok := Orders(u)
	require.True(t, ok)
	require.Len(t, records, 2)
	assert.Equal(t, "555-0199", records[0].UserPhone)
	assert.Equal(t, entity.NotAvailable, records[1].UserPhone)
	assert.Equal(t, entity.NotAvailable, records[1].UserName)
}

func TestOrders_StatusDefaults(t *testing.T) {
	u := entity.UserDocument{
		Key:         "u1",
		Orders:      map[string]entity.CustomOrderDocument{"c": {Status: "paid"}},
		StoreOrders: map[string]entity.StoreOrderDocument{"s": {}, "t": {Status: "PRINTING"}},
	}
	records, _ := Orders(u)
	require.Len(t, records, 3)
	assert.Equal(t, entity.StatusPending, records[0].Status, "paid is not a custom status")
	assert.Equal(t, entity.StatusPaid, records[1].Status)
	assert.Equal(t, entity.StatusPaid, records[2].Status, "printing is not a store status")
}

func TestOrders_NegativeMoneyClampsToZero(t *testing.T) {
	u := entity.UserDocument{
		Key:    "u1",
		Orders: map[string]entity.CustomOrderDocument{"c": {TotalPrice: amount(-5)}},
	}
	records, _ := Orders(u)
	require.Len(t, records, 1)
	assert.True(t, records[0].TotalPrice.IsZero())
}

func TestOrders_FromJSON(t *testing.T) {
	raw := `{
		"key": "u7",
		"name": "Bo",
		"storeOrders": {
			"-k": {"createdAt": "2026-01-02 08:30:00", "totalPrice": 99.5, "items": [{"modelName": "Vase", "quantity": 3, "price": "10", "off": 150}]}
		}
	}`
	var u entity.UserDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	records, ok := Orders(u)
	require.True(t, ok)
	require.Len(t, records, 1)
	assert.Equal(t, "99.5", records[0].TotalPrice.String())
	assert.Equal(t, "30", records[0].Store.Items[0].LineTotal.String())
	assert.Equal(t, "100", records[0].Store.Items[0].Off.String())
	assert.True(t, records[0].HasTimestamp())
}

func TestOrders_LooseFieldTypesFallBackToDefaults(t *testing.T) {
	raw := `{
		"key": "u8",
		"name": 42,
		"orders": {
			"-c": {"status": ["pending"], "deliveryCharge": "free", "files": [
				{"fileName": "flyer.pdf", "quantity": "3", "price": "5"},
				{"fileName": null, "quantity": "many", "price": 2}
			]}
		}
	}`
	var u entity.UserDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &u))

	records, ok := Orders(u)
	require.True(t, ok)
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, "42", r.UserName)
	assert.Equal(t, entity.StatusPending, r.Status)
	assert.True(t, r.DeliveryCharge.IsZero())
	require.Len(t, r.Custom.Files, 2)
	assert.Equal(t, 3, r.Custom.Files[0].Quantity)
	assert.Equal(t, "15", r.Custom.Files[0].LineTotal.String())
	assert.Equal(t, entity.NotAvailable, r.Custom.Files[1].FileName)
	assert.Equal(t, 1, r.Custom.Files[1].Quantity)
}

func TestCartItems_NewestFirstWithDefaults(t *testing.T) {
	items := CartItems(map[string]entity.CartItemDocument{
		"old": {Price: amount(40), Quantity: 1, AddedAt: "2026-01-01T00:00:00Z"},
		"new": {Price: amount(80), OriginalPrice: amount(100), Quantity: 0, AddedAt: "2026-02-01T00:00:00Z"},
	})
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].ID)
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, "100", items[0].OriginalPrice.String())
	assert.Equal(t, "40", items[1].OriginalPrice.String(), "original price defaults to price")
}

func TestParseTime(t *testing.T) {
	assert.True(t, ParseTime("").IsZero())
	assert.True(t, ParseTime("yesterday").IsZero())
	assert.Equal(t, 2026, ParseTime("2026-05-06").Year())
	assert.Equal(t, 123000000, ParseTime("2026-05-06T01:02:03.123Z").Nanosecond())
}
