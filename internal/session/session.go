// Package session stores per-browser state (cart, identity, flash messages)
// as JSON documents in Redis, referenced by an opaque signed cookie. Load
// hands each request its own copy; nothing is shared between concurrent
// requests until Save commits the copy back.
package session

import (
	"github.com/example/storefront/internal/domain/cart"
)

// UserInfo is the authenticated identity carried in the session.
type UserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is the request-scoped session document.
type Session struct {
	ID        string            `json:"id"`
	User      *UserInfo         `json:"user,omitempty"`
	CartItems cart.Cart         `json:"cart_items,omitempty"`
	CartCache []cart.PricedLine `json:"cart_cache,omitempty"`
	CartTotal int64             `json:"cart_total,omitempty"`
	Success   string            `json:"success_message,omitempty"`
	Error     string            `json:"error_message,omitempty"`
}

func (s *Session) LoggedIn() bool {
	return s.User != nil
}

func (s *Session) IsAdmin() bool {
	return s.User != nil && s.User.Role == "admin"
}

// SetSuccess queues a one-shot success flash message.
func (s *Session) SetSuccess(msg string) { s.Success = msg }

// SetError queues a one-shot error flash message.
func (s *Session) SetError(msg string) { s.Error = msg }

// PopFlashes returns and clears the one-shot messages. The caller must Save
// for the consumption to stick.
func (s *Session) PopFlashes() (success, errMsg string) {
	success, errMsg = s.Success, s.Error
	s.Success, s.Error = "", ""
	return success, errMsg
}

// SetCartCache stores the advisory priced-cart snapshot. It is a cache of
// the last pricing pass, never an input to order creation.
func (s *Session) SetCartCache(priced []cart.PricedLine, total int64) {
	s.CartCache = priced
	s.CartTotal = total
}

// ClearCart empties the cart lines and the advisory cache, done after a
// successfully persisted checkout.
func (s *Session) ClearCart() {
	s.CartItems = nil
	s.CartCache = nil
	s.CartTotal = 0
}

// Logout drops the identity but keeps the cart, so a shopper who logs back
// in does not lose their lines.
func (s *Session) Logout() {
	s.User = nil
}
