package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func demoStore(t *testing.T) *Store {
	t.Helper()
	seed, err := DemoSeed()
	require.NoError(t, err)
	n := 0
	return New(seed,
		WithClock(func() time.Time { return fixed }),
		WithKeyGenerator(func() string { n++; return fmt.Sprintf("key-%d", n) }),
	)
}

func TestDemoSeed_Loads(t *testing.T) {
	s := demoStore(t)

	users := s.Users()
	require.Len(t, users, 3)
	assert.Equal(t, "user-asha", users[0].Key)
	assert.Len(t, users[0].Orders, 2)
	assert.Len(t, s.Products(), 3)
}

func TestUpdateOrderStatus(t *testing.T) {
	s := demoStore(t)

	res, err := s.UpdateOrderStatus("user-asha", "ord-1001", "printing")
	require.NoError(t, err)
	assert.Equal(t, StatusUpdate{OrderID: "PH-1001", Status: "printing", UpdatedAt: "2024-06-01T12:00:00Z"}, res)

	users := s.Users()
	assert.Equal(t, "printing", users[0].Orders["ord-1001"]["status"])

	res, err = s.UpdateOrderStatus("user-meera", "ord-1003", "packaging")
	require.NoError(t, err)
	assert.Equal(t, "ord-1003", res.OrderID, "order id falls back to the key")

	_, err = s.UpdateOrderStatus("user-asha", "sto-2001", "completed")
	require.NoError(t, err)
}

func TestUpdateOrderStatus_Errors(t *testing.T) {
	s := demoStore(t)

	_, err := s.UpdateOrderStatus("nobody", "ord-1001", "printing")
	require.ErrorIs(t, err, ErrUserNotFound)
	_, err = s.UpdateOrderStatus("user-asha", "missing", "printing")
	require.ErrorIs(t, err, ErrOrderNotFound)
	_, err = s.UpdateOrderStatus("user-asha", "ord-1001", "  ")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUsers_ReturnsSnapshot(t *testing.T) {
	s := demoStore(t)

	users := s.Users()
	users[0].Orders["ord-1001"]["status"] = "tampered"

	assert.Equal(t, "pending", s.Users()[0].Orders["ord-1001"]["status"])
}

func TestCart(t *testing.T) {
	s := demoStore(t)

	_, err := s.CartByPhone("0000")
	require.ErrorIs(t, err, ErrNoAccount)

	c, err := s.CartByPhone("9000000002")
	require.NoError(t, err)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)

	key, err := s.AddToCart("9000000002", Document{"productId": "prod-tee", "price": 559.0})
	require.NoError(t, err)
	assert.Equal(t, "key-1", key)

	c, err = s.CartByPhone("9000000002")
	require.NoError(t, err)
	require.Contains(t, c.Items, "key-1")
	assert.Equal(t, "2024-06-01T12:00:00Z", c.Items["key-1"]["addedAt"])
	assert.Equal(t, "user-ravi", c.UserKey)

	require.ErrorIs(t, s.RemoveFromCart("9000000002", "nope"), ErrCartItemNotFound)
	require.NoError(t, s.RemoveFromCart("9000000002", "key-1"))
	c, err = s.CartByPhone("9000000002")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestParseSeed_Invalid(t *testing.T) {
	_, err := ParseSeed([]byte("{"))
	require.Error(t, err)
}
