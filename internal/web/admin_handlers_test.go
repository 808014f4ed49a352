package web

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adminBrowser(t *testing.T, app *testApp) *browser {
	t.Helper()
	b := newBrowser(app)
	b.signup(t, "Admin", "admin@example.com")
	makeAdmin(t, app, b, "admin@example.com")
	return b
}

// placeOrder runs a card checkout as a separate shopper and returns the
// order ID.
func placeOrder(t *testing.T, app *testApp, email string) string {
	t.Helper()
	b := newBrowser(app)
	b.signup(t, "Shopper", email)
	b.postForm(t, "/cart/add", url.Values{"product_id": {"p1"}})
	rec := b.postForm(t, "/checkout", checkoutForm("card"))
	location := rec.Header().Get("Location")
	require.Contains(t, location, "/orders/confirmation/")
	return location[len("/orders/confirmation/"):]
}

// ============================================
// Order status updates
// ============================================

func TestAdminUpdateOrderStatus_ValidTransition(t *testing.T) {
	app := newTestApp(t, seedProducts()...)
	orderID := placeOrder(t, app, "shopper@example.com")
	b := adminBrowser(t, app)

	rec := b.postForm(t, "/admin/orders/status", url.Values{
		"order_id": {orderID},
		"status":   {"shipped"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	ord, err := app.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, ord.Status)

	body := decodeBody(t, b.get(t, "/admin/orders"))
	assert.Equal(t, "order status updated", body["success_message"])
}

func TestAdminUpdateOrderStatus_IllegalTransitionRejected(t *testing.T) {
	app := newTestApp(t, seedProducts()...)
	orderID := placeOrder(t, app, "shopper@example.com")
	b := adminBrowser(t, app)

	b.postForm(t, "/admin/orders/status", url.Values{"order_id": {orderID}, "status": {"delivered"}})

	// pending -> delivered is not in the transition table.
	ord, err := app.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPending, ord.Status)

	body := decodeBody(t, b.get(t, "/admin/orders"))
	assert.Contains(t, body["error_message"], "cannot transition from pending to delivered")
}

func TestAdminUpdateOrderStatus_IdempotentRepeat(t *testing.T) {
	app := newTestApp(t, seedProducts()...)
	orderID := placeOrder(t, app, "shopper@example.com")
	b := adminBrowser(t, app)

	form := url.Values{"order_id": {orderID}, "status": {"shipped"}}
	b.postForm(t, "/admin/orders/status", form)
	b.postForm(t, "/admin/orders/status", form)

	ord, err := app.orders.GetByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusShipped, ord.Status)

	body := decodeBody(t, b.get(t, "/admin/orders"))
	assert.Equal(t, "order status updated", body["success_message"])
}

func TestAdminUpdateOrderStatus_UnknownStatus(t *testing.T) {
	app := newTestApp(t, seedProducts()...)
	b := adminBrowser(t, app)

	b.postForm(t, "/admin/orders/status", url.Values{"order_id": {"o1"}, "status": {"lost"}})

	body := decodeBody(t, b.get(t, "/admin/orders"))
	assert.Equal(t, "invalid status update", body["error_message"])
}

// ============================================
// User management
// ============================================

func TestAdminToggleUserRole(t *testing.T) {
	app := newTestApp(t)
	shopper := newBrowser(app)
	shopper.signup(t, "Jane", "jane@example.com")
	b := adminBrowser(t, app)

	u, err := app.users.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)

	b.postForm(t, "/admin/users/toggle_role", url.Values{"user_id": {u.ID}})
	u, err = app.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, u.Role)

	b.postForm(t, "/admin/users/toggle_role", url.Values{"user_id": {u.ID}})
	u, err = app.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, u.Role)
}

func TestAdminCannotChangeOwnAccount(t *testing.T) {
	app := newTestApp(t)
	b := adminBrowser(t, app)

	self, err := app.users.GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)

	b.postForm(t, "/admin/users/toggle_role", url.Values{"user_id": {self.ID}})
	body := decodeBody(t, b.get(t, "/admin/users"))
	assert.Equal(t, "you cannot change your own role", body["error_message"])

	b.postForm(t, "/admin/users/delete", url.Values{"user_id": {self.ID}})
	body = decodeBody(t, b.get(t, "/admin/users"))
	assert.Equal(t, "you cannot delete your own account", body["error_message"])

	_, err = app.users.GetByID(context.Background(), self.ID)
	assert.NoError(t, err)
}

func TestAdminDeleteUser(t *testing.T) {
	app := newTestApp(t)
	shopper := newBrowser(app)
	shopper.signup(t, "Jane", "jane@example.com")
	b := adminBrowser(t, app)

	u, err := app.users.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)

	b.postForm(t, "/admin/users/delete", url.Values{"user_id": {u.ID}})

	_, err = app.users.GetByID(context.Background(), u.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

// ============================================
// Product management
// ============================================

func TestAdminProductCRUD(t *testing.T) {
	app := newTestApp(t)
	b := adminBrowser(t, app)
	ctx := context.Background()

	rec := b.postForm(t, "/admin/products/create", url.Values{
		"name":        {"Leather Bag"},
		"category":    {"bags"},
		"price":       {"450000"},
		"stock":       {"10"},
		"description": {"Full-grain leather"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	products, err := app.products.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	created := products[0]
	assert.Equal(t, int64(450000), created.Price)

	// Storefront sees it after the snapshot invalidation.
	body := decodeBody(t, b.get(t, "/"))
	assert.Len(t, body["products"], 1)

	b.postForm(t, "/admin/products/update", url.Values{
		"product_id": {created.ID},
		"name":       {"Leather Bag XL"},
		"category":   {"bags"},
		"price":      {"500000"},
		"stock":      {"8"},
	})
	updated, err := app.products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Leather Bag XL", updated.Name)
	assert.Equal(t, int64(500000), updated.Price)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	b.postForm(t, "/admin/products/delete", url.Values{"product_id": {created.ID}})
	products, err = app.products.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAdminCreateProduct_InvalidPrice(t *testing.T) {
	app := newTestApp(t)
	b := adminBrowser(t, app)

	b.postForm(t, "/admin/products/create", url.Values{
		"name":  {"Freebie"},
		"price": {"0"},
	})

	products, err := app.products.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)

	body := decodeBody(t, b.get(t, "/admin/products"))
	assert.Equal(t, "price must be positive", body["error_message"])
}

func TestAdminUpdateProduct_InvalidFieldsRejected(t *testing.T) {
	app := newTestApp(t, seedProducts()...)
	b := adminBrowser(t, app)

	b.postForm(t, "/admin/products/update", url.Values{
		"product_id": {"p1"},
		"name":       {""},
		"price":      {"450000"},
	})

	// The edit never lands; the stored product keeps its name.
	kept, err := app.products.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Leather Bag", kept.Name)

	body := decodeBody(t, b.get(t, "/admin/products"))
	assert.Equal(t, "name is required", body["error_message"])
}

// ============================================
// Dashboard
// ============================================

func TestAdminDashboardAndRevenue(t *testing.T) {
	app := newTestApp(t, seedProducts()...)
	placeOrder(t, app, "shopper@example.com")
	b := adminBrowser(t, app)

	stats := decodeBody(t, b.get(t, "/admin/dashboard"))
	assert.Equal(t, float64(1), stats["total_orders"])
	assert.Equal(t, float64(1), stats["pending_orders"])
	assert.Equal(t, float64(1000), stats["total_revenue"])

	revenue := decodeBody(t, b.get(t, "/admin/revenue?days=7"))
	assert.Len(t, revenue["revenue"], 7)
}
