// Package web is the HTTP surface: storefront, account, and admin routes.
// Mutations arrive as form posts and answer with redirect-after-post; views
// return JSON read models for the rendering layer.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/storefront/internal/checkout"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/query"
	"github.com/example/storefront/internal/session"
	"github.com/example/storefront/internal/store"
	"github.com/example/storefront/internal/web/middleware"
	"github.com/google/uuid"
)

// Catalog is the product read side; satisfied by catalog.Service.
type Catalog interface {
	ListAll(ctx context.Context) ([]product.Product, error)
	Search(ctx context.Context, query string) ([]product.Product, error)
	GetByID(ctx context.Context, id string) (*product.Product, error)
	Invalidate(ctx context.Context)
}

// Authenticator is the account service; satisfied by auth.Service.
type Authenticator interface {
	Register(ctx context.Context, name, email, password string) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

type Handlers struct {
	sessions *session.Manager
	catalog  Catalog
	accounts Authenticator
	checkout *checkout.Orchestrator
	orders   store.OrderStore
	products store.ProductStore
	users    store.UserStore
	messages store.MessageStore
	query    *query.Service
}

func NewHandlers(
	sessions *session.Manager,
	cat Catalog,
	accounts Authenticator,
	orch *checkout.Orchestrator,
	orders store.OrderStore,
	products store.ProductStore,
	users store.UserStore,
	messages store.MessageStore,
	querySvc *query.Service,
) *Handlers {
	return &Handlers{
		sessions: sessions,
		catalog:  cat,
		accounts: accounts,
		checkout: orch,
		orders:   orders,
		products: products,
		users:    users,
		messages: messages,
		query:    querySvc,
	}
}

// commit persists the session before the response is written. A failed
// commit loses at most one request's mutations; the request still answers.
func (h *Handlers) commit(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		log.Printf("[Web] Session commit failed: %v", err)
	}
}

// Storefront

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	q := r.URL.Query().Get("q")
	products, err := h.catalog.Search(r.Context(), q)
	if err != nil {
		log.Printf("[Web] Product listing failed: %v", err)
		http.Error(w, "could not load products", http.StatusInternalServerError)
		return
	}

	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"products":        products,
		"cart_count":      len(sess.CartItems),
		"success_message": success,
		"error_message":   errMsg,
	})
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/products/")
	p, err := h.catalog.GetByID(r.Context(), id)
	if errors.Is(err, product.ErrProductNotFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[Web] Product lookup failed for %s: %v", id, err)
		http.Error(w, "could not load product", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Cart

// priceSessionCart runs a fresh pricing pass against the live catalog and
// refreshes the session's advisory cache.
func (h *Handlers) priceSessionCart(ctx context.Context, sess *session.Session) ([]cart.PricedLine, int64, error) {
	products, err := h.catalog.ListAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	priced := cart.Price(sess.CartItems, products)
	total := cart.Total(priced)
	sess.SetCartCache(priced, total)
	return priced, total, nil
}

func (h *Handlers) ViewCart(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	priced, total, err := h.priceSessionCart(r.Context(), sess)
	if err != nil {
		log.Printf("[Web] Cart pricing failed: %v", err)
		http.Error(w, "could not load cart", http.StatusInternalServerError)
		return
	}

	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"items":           priced,
		"total":           total,
		"success_message": success,
		"error_message":   errMsg,
	})
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	productID := strings.TrimSpace(r.PostFormValue("product_id"))
	if productID == "" {
		sess.SetError("no product selected")
		h.commit(w, r, sess)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if _, err := h.catalog.GetByID(r.Context(), productID); err != nil {
		sess.SetError("product not found")
		h.commit(w, r, sess)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	sess.CartItems = cart.Add(sess.CartItems, productID)
	sess.SetSuccess("added to cart")
	h.commit(w, r, sess)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handlers) AlterQuantity(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	productID := strings.TrimSpace(r.PostFormValue("product_id"))
	quantity, err := strconv.Atoi(r.PostFormValue("quantity"))
	if productID == "" || err != nil {
		sess.SetError("invalid quantity update")
		h.commit(w, r, sess)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	sess.CartItems = cart.SetQuantity(sess.CartItems, productID, quantity)
	sess.SetSuccess("quantity updated")
	h.commit(w, r, sess)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *Handlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	productID := strings.TrimSpace(r.PostFormValue("product_id"))
	sess.CartItems = cart.Remove(sess.CartItems, productID)
	sess.SetSuccess("item removed")
	h.commit(w, r, sess)
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Checkout

func (h *Handlers) ViewCheckout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	priced, total, err := h.priceSessionCart(r.Context(), sess)
	if err != nil {
		log.Printf("[Web] Checkout pricing failed: %v", err)
		http.Error(w, "could not load checkout", http.StatusInternalServerError)
		return
	}

	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"items":            priced,
		"total":            total,
		"user":             sess.User,
		"shipping_prefill": h.lastShippingInfo(r.Context(), sess.User.ID),
		"success_message":  success,
		"error_message":    errMsg,
	})
}

// lastShippingInfo returns the shipping address of the user's most recent
// order, for prefilling the checkout form. Best effort: a lookup failure just
// means no prefill.
func (h *Handlers) lastShippingInfo(ctx context.Context, userID string) *order.ShippingInfo {
	orders, err := h.orders.GetByUser(ctx, userID)
	if err != nil {
		log.Printf("[Web] Shipping prefill lookup failed for %s: %v", userID, err)
		return nil
	}
	var latest *order.Order
	for i := range orders {
		if latest == nil || orders[i].CreatedAt.After(latest.CreatedAt) {
			latest = &orders[i]
		}
	}
	if latest == nil {
		return nil
	}
	info := latest.ShippingAddress
	return &info
}

func (h *Handlers) SubmitCheckout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	form := checkout.Input{
		Name:          r.PostFormValue("name"),
		Email:         r.PostFormValue("email"),
		Address:       r.PostFormValue("address"),
		City:          r.PostFormValue("city"),
		PostalCode:    r.PostFormValue("postal_code"),
		Country:       r.PostFormValue("country"),
		PaymentMethod: r.PostFormValue("payment_method"),
		PhoneNumber:   r.PostFormValue("phone_number"),
	}

	valid, err := form.Validate()
	if err != nil {
		h.failCheckout(w, r, sess, err)
		return
	}

	// Re-price from the live catalog; the session cache is advisory only.
	priced, _, err := h.priceSessionCart(r.Context(), sess)
	if err != nil {
		log.Printf("[Web] Checkout pricing failed: %v", err)
		h.failCheckout(w, r, sess, errors.New("could not load cart"))
		return
	}

	ord, err := h.checkout.Submit(r.Context(), sess.User.ID, priced, valid)
	if err != nil {
		h.failCheckout(w, r, sess, err)
		return
	}

	// Cart clears only after the order write is acknowledged.
	sess.ClearCart()
	sess.SetSuccess("order placed")
	h.commit(w, r, sess)
	http.Redirect(w, r, "/orders/confirmation/"+ord.ID, http.StatusSeeOther)
}

func (h *Handlers) failCheckout(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	sess.SetError(checkout.UserMessage(err))
	h.commit(w, r, sess)
	http.Redirect(w, r, "/checkout", http.StatusSeeOther)
}

// Orders

func (h *Handlers) OrderConfirmation(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	id := extractPathParam(r.URL.Path, "/orders/confirmation/")

	ord, err := h.orders.GetByID(r.Context(), id)
	if errors.Is(err, order.ErrOrderNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[Web] Order lookup failed for %s: %v", id, err)
		http.Error(w, "could not load order", http.StatusInternalServerError)
		return
	}
	if ord.UserID != sess.User.ID && !sess.IsAdmin() {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"order":           ord,
		"success_message": success,
		"error_message":   errMsg,
	})
}

func (h *Handlers) MyOrders(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	orders, err := h.orders.GetByUser(r.Context(), sess.User.ID)
	if err != nil {
		log.Printf("[Web] Order listing failed for %s: %v", sess.User.ID, err)
		http.Error(w, "could not load orders", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

// TrackOrder returns an order's status to its owner (or an admin).
func (h *Handlers) TrackOrder(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		http.Error(w, "order id is required", http.StatusBadRequest)
		return
	}

	ord, err := h.orders.GetByID(r.Context(), id)
	if errors.Is(err, order.ErrOrderNotFound) {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("[Web] Order tracking failed for %s: %v", id, err)
		http.Error(w, "could not load order", http.StatusInternalServerError)
		return
	}
	if ord.UserID != sess.User.ID && !sess.IsAdmin() {
		http.Error(w, "order not found", http.StatusNotFound)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"order_id":   ord.ID,
		"status":     ord.Status,
		"created_at": ord.CreatedAt,
	})
}

// Contact

func (h *Handlers) ViewContact(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())
	success, errMsg := sess.PopFlashes()
	h.commit(w, r, sess)
	respondJSON(w, http.StatusOK, map[string]any{
		"success_message": success,
		"error_message":   errMsg,
	})
}

func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	sess := middleware.FromContext(r.Context())

	msg := store.Message{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(r.PostFormValue("name")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Body:      strings.TrimSpace(r.PostFormValue("message")),
		CreatedAt: time.Now(),
	}
	if msg.Name == "" || msg.Email == "" || msg.Body == "" {
		sess.SetError("all contact fields are required")
		h.commit(w, r, sess)
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	if err := h.messages.Add(r.Context(), &msg); err != nil {
		log.Printf("[Web] Contact message save failed: %v", err)
		sess.SetError("could not send your message, please try again")
	} else {
		sess.SetSuccess("message sent, we will get back to you")
	}
	h.commit(w, r, sess)
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// Helpers

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}
