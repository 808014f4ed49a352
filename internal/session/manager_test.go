package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewManager(client, "test-secret-key-0123456789abcdef", time.Hour, false)
}

// saveAndReload round-trips a session through Save and Load the way two
// consecutive requests would.
func saveAndReload(t *testing.T, m *Manager, sess *Session) *Session {
	t.Helper()
	ctx := context.Background()

	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(ctx, rec, sess))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return m.Load(ctx, req)
}

func TestLoad_NoCookieYieldsFreshSession(t *testing.T) {
	m := setupManager(t)

	sess := m.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, sess.ID)
	assert.False(t, sess.LoggedIn())
	assert.Empty(t, sess.CartItems)
}

func TestSaveLoad_RoundTripsCartAndUser(t *testing.T) {
	m := setupManager(t)

	sess := &Session{ID: "sess-1"}
	sess.User = &UserInfo{ID: "u1", Name: "Jane", Email: "jane@example.com", Role: "user"}
	sess.CartItems = cart.Cart{{ProductID: "p1", Quantity: 2}}
	sess.SetCartCache([]cart.PricedLine{{ProductID: "p1", Quantity: 2, UnitPrice: 1000, Subtotal: 2000}}, 2000)

	got := saveAndReload(t, m, sess)

	assert.Equal(t, "sess-1", got.ID)
	require.NotNil(t, got.User)
	assert.Equal(t, "jane@example.com", got.User.Email)
	assert.Equal(t, cart.Cart{{ProductID: "p1", Quantity: 2}}, got.CartItems)
	assert.Equal(t, int64(2000), got.CartTotal)
}

func TestFlashes_ConsumedExactlyOnce(t *testing.T) {
	m := setupManager(t)

	sess := &Session{ID: "sess-flash"}
	sess.SetSuccess("Quantity Updated")
	got := saveAndReload(t, m, sess)

	success, errMsg := got.PopFlashes()
	assert.Equal(t, "Quantity Updated", success)
	assert.Empty(t, errMsg)

	// Second read, after committing the consumption, sees nothing.
	got2 := saveAndReload(t, m, got)
	success, errMsg = got2.PopFlashes()
	assert.Empty(t, success)
	assert.Empty(t, errMsg)
}

func TestLoad_TamperedCookieYieldsFreshSession(t *testing.T) {
	m := setupManager(t)

	sess := &Session{ID: "sess-tamper", User: &UserInfo{ID: "u1", Role: "admin"}}
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(context.Background(), rec, sess))

	cookie := rec.Result().Cookies()[0]
	cookie.Value += "x"

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	got := m.Load(context.Background(), req)

	assert.NotEqual(t, "sess-tamper", got.ID)
	assert.False(t, got.IsAdmin())
}

func TestDestroy_RemovesDocument(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	sess := &Session{ID: "sess-gone", User: &UserInfo{ID: "u1"}}
	rec := httptest.NewRecorder()
	require.NoError(t, m.Save(ctx, rec, sess))

	rec2 := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rec2, sess))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	got := m.Load(ctx, req)
	assert.False(t, got.LoggedIn())
}

func TestClearCart(t *testing.T) {
	sess := &Session{
		CartItems: cart.Cart{{ProductID: "p1", Quantity: 1}},
		CartCache: []cart.PricedLine{{ProductID: "p1", Subtotal: 1000}},
		CartTotal: 1000,
	}

	sess.ClearCart()

	assert.Empty(t, sess.CartItems)
	assert.Empty(t, sess.CartCache)
	assert.Zero(t, sess.CartTotal)
}
