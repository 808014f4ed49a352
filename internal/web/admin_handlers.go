package web

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/session"
	"github.com/example/storefront/internal/web/middleware"
)

// Admin dashboard

func (h *Handlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.query.Dashboard(r.Context())
	if err != nil {
		log.Printf("[Admin] Dashboard stats failed: %v", err)
		http.Error(w, "could not load dashboard", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handlers) AdminRevenue(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	points, err := h.query.RevenueByDay(r.Context(), days)
	if err != nil {
		log.Printf("[Admin] Revenue series failed: %v", err)
		http.Error(w, "could not load revenue", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"revenue": points})
}

// Admin orders

func (h *Handlers) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	rows, err := h.query.ListOrders(r.Context())
	if err != nil {
		log.Printf("[Admin] Order listing failed: %v", err)
		http.Error(w, "could not load orders", http.StatusInternalServerError)
		return
	}

	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"orders":          rows,
		"success_message": success,
		"error_message":   errMsg,
	})
}

// AdminUpdateOrderStatus enforces the transition table; an illegal move
// becomes a flash error, repeated identical updates are a quiet no-op.
func (h *Handlers) AdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	redirectBack := func() { http.Redirect(w, r, "/admin/orders", http.StatusSeeOther) }

	orderID := strings.TrimSpace(r.PostFormValue("order_id"))
	status, err := order.ParseStatus(r.PostFormValue("status"))
	if orderID == "" || err != nil {
		sess.SetError("invalid status update")
		h.commit(w, r, sess)
		redirectBack()
		return
	}

	err = h.orders.UpdateStatus(r.Context(), orderID, status)
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		sess.SetError("order not found")
	case errors.Is(err, order.ErrInvalidTransition):
		sess.SetError(err.Error())
	case err != nil:
		log.Printf("[Admin] Status update failed for %s: %v", orderID, err)
		sess.SetError("could not update order status")
	default:
		sess.SetSuccess("order status updated")
	}
	h.commit(w, r, sess)
	redirectBack()
}

// Admin users

func (h *Handlers) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	users, err := h.users.List(r.Context())
	if err != nil {
		log.Printf("[Admin] User listing failed: %v", err)
		http.Error(w, "could not load users", http.StatusInternalServerError)
		return
	}

	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"users":           users,
		"success_message": success,
		"error_message":   errMsg,
	})
}

func (h *Handlers) AdminToggleUserRole(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	redirectBack := func() { http.Redirect(w, r, "/admin/users", http.StatusSeeOther) }

	userID := strings.TrimSpace(r.PostFormValue("user_id"))
	if userID == sess.User.ID {
		sess.SetError("you cannot change your own role")
		h.commit(w, r, sess)
		redirectBack()
		return
	}

	u, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.flashUserError(sess, err, "could not update role")
		h.commit(w, r, sess)
		redirectBack()
		return
	}

	if err := h.users.UpdateRole(r.Context(), userID, u.ToggledRole()); err != nil {
		h.flashUserError(sess, err, "could not update role")
	} else {
		sess.SetSuccess("role updated")
	}
	h.commit(w, r, sess)
	redirectBack()
}

func (h *Handlers) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	redirectBack := func() { http.Redirect(w, r, "/admin/users", http.StatusSeeOther) }

	userID := strings.TrimSpace(r.PostFormValue("user_id"))
	if userID == sess.User.ID {
		sess.SetError("you cannot delete your own account")
		h.commit(w, r, sess)
		redirectBack()
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		h.flashUserError(sess, err, "could not delete user")
	} else {
		sess.SetSuccess("user deleted")
	}
	h.commit(w, r, sess)
	redirectBack()
}

func (h *Handlers) flashUserError(sess *session.Session, err error, fallback string) {
	if errors.Is(err, user.ErrUserNotFound) {
		sess.SetError("user not found")
		return
	}
	log.Printf("[Admin] User operation failed: %v", err)
	sess.SetError(fallback)
}

// Admin products

func (h *Handlers) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	products, err := h.products.ListAll(r.Context())
	if err != nil {
		log.Printf("[Admin] Product listing failed: %v", err)
		http.Error(w, "could not load products", http.StatusInternalServerError)
		return
	}

	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"products":        products,
		"success_message": success,
		"error_message":   errMsg,
	})
}

func (h *Handlers) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	redirectBack := func() { http.Redirect(w, r, "/admin/products", http.StatusSeeOther) }

	p, err := productFromForm(r)
	if err != nil {
		sess.SetError(err.Error())
		h.commit(w, r, sess)
		redirectBack()
		return
	}

	if err := h.products.Create(r.Context(), p); err != nil {
		log.Printf("[Admin] Product create failed: %v", err)
		sess.SetError("could not create product")
	} else {
		h.catalog.Invalidate(r.Context())
		sess.SetSuccess("product created")
	}
	h.commit(w, r, sess)
	redirectBack()
}

func (h *Handlers) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	redirectBack := func() { http.Redirect(w, r, "/admin/products", http.StatusSeeOther) }

	id := strings.TrimSpace(r.PostFormValue("product_id"))
	existing, err := h.products.GetByID(r.Context(), id)
	if errors.Is(err, product.ErrProductNotFound) {
		sess.SetError("product not found")
		h.commit(w, r, sess)
		redirectBack()
		return
	}
	if err != nil {
		log.Printf("[Admin] Product lookup failed for %s: %v", id, err)
		sess.SetError("could not update product")
		h.commit(w, r, sess)
		redirectBack()
		return
	}

	price, err := strconv.ParseInt(r.PostFormValue("price"), 10, 64)
	if err != nil {
		sess.SetError(product.ErrInvalidPrice.Error())
		h.commit(w, r, sess)
		redirectBack()
		return
	}
	stock, _ := strconv.Atoi(r.PostFormValue("stock"))

	// Edit in place so ID and CreatedAt survive the update.
	existing.Name = strings.TrimSpace(r.PostFormValue("name"))
	existing.Category = strings.TrimSpace(r.PostFormValue("category"))
	existing.Description = strings.TrimSpace(r.PostFormValue("description"))
	existing.ImageURL = strings.TrimSpace(r.PostFormValue("image_url"))
	existing.Price = price
	existing.Stock = stock
	existing.UpdatedAt = time.Now()

	if err := existing.Validate(); err != nil {
		sess.SetError(err.Error())
		h.commit(w, r, sess)
		redirectBack()
		return
	}

	if err := h.products.Update(r.Context(), existing); err != nil {
		log.Printf("[Admin] Product update failed for %s: %v", id, err)
		sess.SetError("could not update product")
	} else {
		h.catalog.Invalidate(r.Context())
		sess.SetSuccess("product updated")
	}
	h.commit(w, r, sess)
	redirectBack()
}

func (h *Handlers) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	redirectBack := func() { http.Redirect(w, r, "/admin/products", http.StatusSeeOther) }

	id := strings.TrimSpace(r.PostFormValue("product_id"))
	err := h.products.Delete(r.Context(), id)
	switch {
	case errors.Is(err, product.ErrProductNotFound):
		sess.SetError("product not found")
	case err != nil:
		log.Printf("[Admin] Product delete failed for %s: %v", id, err)
		sess.SetError("could not delete product")
	default:
		h.catalog.Invalidate(r.Context())
		sess.SetSuccess("product deleted")
	}
	h.commit(w, r, sess)
	redirectBack()
}

// Admin contact messages

func (h *Handlers) AdminListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messages.List(r.Context())
	if err != nil {
		log.Printf("[Admin] Message listing failed: %v", err)
		http.Error(w, "could not load messages", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func productFromForm(r *http.Request) (*product.Product, error) {
	price, err := strconv.ParseInt(r.PostFormValue("price"), 10, 64)
	if err != nil {
		return nil, product.ErrInvalidPrice
	}
	stock, _ := strconv.Atoi(r.PostFormValue("stock"))

	return product.New(
		strings.TrimSpace(r.PostFormValue("name")),
		strings.TrimSpace(r.PostFormValue("category")),
		strings.TrimSpace(r.PostFormValue("description")),
		strings.TrimSpace(r.PostFormValue("image_url")),
		price,
		stock,
	)
}
