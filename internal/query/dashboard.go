// Package query aggregates store data into the read models the admin back
// office renders: dashboard counters, revenue series, and order listings
// joined with their owners.
package query

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/store"
)

type Service struct {
	orders   store.OrderStore
	products store.ProductStore
	users    store.UserStore
}

func NewService(orders store.OrderStore, products store.ProductStore, users store.UserStore) *Service {
	return &Service{orders: orders, products: products, users: users}
}

// DashboardStats are the headline counters on the admin landing page.
type DashboardStats struct {
	TotalOrders   int64 `json:"total_orders"`
	TotalProducts int64 `json:"total_products"`
	TotalUsers    int64 `json:"total_users"`
	PendingOrders int64 `json:"pending_orders"`
	TotalRevenue  int64 `json:"total_revenue"`
}

// Dashboard computes the counters. Revenue counts every non-canceled order.
func (s *Service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, err
	}

	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalOrders = int64(len(orders))
	for _, o := range orders {
		if o.Status == order.StatusPending {
			stats.PendingOrders++
		}
		if o.Status != order.StatusCanceled {
			stats.TotalRevenue += o.TotalPrice
		}
	}
	return stats, nil
}

// RevenuePoint is one day's revenue, date formatted as 2006-01-02.
type RevenuePoint struct {
	Date    string `json:"date"`
	Revenue int64  `json:"revenue"`
}

// RevenueByDay returns the last n days as a zero-initialized series, oldest
// first, so days without orders still chart as zero.
func (s *Service) RevenueByDay(ctx context.Context, days int) ([]RevenuePoint, error) {
	if days <= 0 {
		days = 7
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	cutoff := today.AddDate(0, 0, -(days - 1))

	byDay := make(map[string]int64, days)
	points := make([]RevenuePoint, 0, days)
	for i := 0; i < days; i++ {
		date := cutoff.AddDate(0, 0, i).Format("2006-01-02")
		byDay[date] = 0
		points = append(points, RevenuePoint{Date: date})
	}

	orders, err := s.orders.ListSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	for _, o := range orders {
		if o.Status == order.StatusCanceled {
			continue
		}
		date := o.CreatedAt.Format("2006-01-02")
		if _, ok := byDay[date]; ok {
			byDay[date] += o.TotalPrice
		}
	}

	for i := range points {
		points[i].Revenue = byDay[points[i].Date]
	}
	return points, nil
}

// OrderWithCustomer joins an order with its owner for the admin listing.
// CustomerName falls back to the shipping name when the account is gone.
type OrderWithCustomer struct {
	Order         order.Order `json:"order"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
}

// ListOrders returns every order, newest first, joined with user accounts.
func (s *Service) ListOrders(ctx context.Context) ([]OrderWithCustomer, error) {
	orders, err := s.orders.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	users, err := s.users.List(ctx)
	if err != nil {
		log.Printf("[Query] User join failed, falling back to shipping names: %v", err)
		users = nil
	}
	byID := make(map[string]int, len(users))
	for i, u := range users {
		byID[u.ID] = i
	}

	out := make([]OrderWithCustomer, 0, len(orders))
	for _, o := range orders {
		row := OrderWithCustomer{
			Order:         o,
			CustomerName:  o.ShippingAddress.Name,
			CustomerEmail: o.ShippingAddress.Email,
		}
		if i, ok := byID[o.UserID]; ok {
			row.CustomerName = users[i].Name
			row.CustomerEmail = users[i].Email
		}
		out = append(out, row)
	}
	return out, nil
}
