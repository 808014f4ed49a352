package query

import (
	"context"
	"testing"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/store/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(orders []order.Order, products []product.Product, users []user.User) *Service {
	return NewService(
		mocks.NewMockOrderStore(orders...),
		mocks.NewMockProductStore(products...),
		mocks.NewMockUserStore(users...),
	)
}

// ============================================
// Dashboard
// ============================================

func TestDashboard_Counters(t *testing.T) {
	svc := newTestService(
		[]order.Order{
			{ID: "o1", Status: order.StatusPending, TotalPrice: 1000, CreatedAt: time.Now()},
			{ID: "o2", Status: order.StatusShipped, TotalPrice: 2500, CreatedAt: time.Now()},
			{ID: "o3", Status: order.StatusCanceled, TotalPrice: 9999, CreatedAt: time.Now()},
		},
		[]product.Product{{ID: "p1"}, {ID: "p2"}},
		[]user.User{{ID: "u1"}},
	)

	stats, err := svc.Dashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.PendingOrders)
	// Canceled orders never count as revenue.
	assert.Equal(t, int64(3500), stats.TotalRevenue)
}

// ============================================
// RevenueByDay
// ============================================

func TestRevenueByDay_ZeroFillsMissingDays(t *testing.T) {
	now := time.Now()
	svc := newTestService(
		[]order.Order{
			{ID: "o1", Status: order.StatusPending, TotalPrice: 1000, CreatedAt: now},
			{ID: "o2", Status: order.StatusDelivered, TotalPrice: 500, CreatedAt: now},
			{ID: "o3", Status: order.StatusCanceled, TotalPrice: 800, CreatedAt: now},
			{ID: "o4", Status: order.StatusPending, TotalPrice: 100, CreatedAt: now.AddDate(0, 0, -30)},
		},
		nil, nil,
	)

	points, err := svc.RevenueByDay(context.Background(), 7)

	require.NoError(t, err)
	require.Len(t, points, 7)

	today := now.Format("2006-01-02")
	assert.Equal(t, today, points[6].Date)
	assert.Equal(t, int64(1500), points[6].Revenue)
	for _, p := range points[:6] {
		assert.Zero(t, p.Revenue, "day %s should have no revenue", p.Date)
	}
}

func TestRevenueByDay_DefaultsToSevenDays(t *testing.T) {
	svc := newTestService(nil, nil, nil)

	points, err := svc.RevenueByDay(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, points, 7)
}

// ============================================
// ListOrders
// ============================================

func TestListOrders_JoinsUsersNewestFirst(t *testing.T) {
	now := time.Now()
	svc := newTestService(
		[]order.Order{
			{
				ID: "o-old", UserID: "u1", CreatedAt: now.Add(-time.Hour),
				ShippingAddress: order.ShippingInfo{Name: "Ship Name", Email: "ship@example.com"},
			},
			{
				ID: "o-new", UserID: "gone", CreatedAt: now,
				ShippingAddress: order.ShippingInfo{Name: "Ghost", Email: "ghost@example.com"},
			},
		},
		nil,
		[]user.User{{ID: "u1", Name: "Jane Doe", Email: "jane@example.com"}},
	)

	rows, err := svc.ListOrders(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "o-new", rows[0].Order.ID)

	// Deleted account falls back to the shipping snapshot.
	assert.Equal(t, "Ghost", rows[0].CustomerName)
	assert.Equal(t, "Jane Doe", rows[1].CustomerName)
	assert.Equal(t, "jane@example.com", rows[1].CustomerEmail)
}
