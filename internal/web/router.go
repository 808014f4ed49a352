package web

import (
	"log"
	"net/http"

	"github.com/example/storefront/internal/session"
	"github.com/example/storefront/internal/web/middleware"
)

func NewRouter(handlers *Handlers, sessions *session.Manager) http.Handler {
	mux := http.NewServeMux()

	// Storefront
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		switch r.Method {
		case http.MethodGet:
			handlers.ListProducts(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetProduct(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Cart
	mux.HandleFunc("/cart", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ViewCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/cart/add", postOnly(handlers.AddToCart))
	mux.HandleFunc("/cart/alter_quantity", postOnly(handlers.AlterQuantity))
	mux.HandleFunc("/cart/remove_item", postOnly(handlers.RemoveItem))

	// Checkout and orders (login required)
	mux.Handle("/checkout", middleware.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ViewCheckout(w, r)
		case http.MethodPost:
			handlers.SubmitCheckout(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))
	mux.Handle("/orders/confirmation/", middleware.RequireUser(getOnly(handlers.OrderConfirmation)))
	mux.Handle("/my-orders", middleware.RequireUser(getOnly(handlers.MyOrders)))
	mux.Handle("/track", middleware.RequireUser(getOnly(handlers.TrackOrder)))

	// Account
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ViewLogin(w, r)
		case http.MethodPost:
			handlers.Login(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/signup", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ViewLogin(w, r)
		case http.MethodPost:
			handlers.Signup(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/logout", postOnly(handlers.Logout))

	// Contact
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ViewContact(w, r)
		case http.MethodPost:
			handlers.SubmitContact(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Admin back office
	admin := http.NewServeMux()
	admin.HandleFunc("/admin/dashboard", getOnlyFunc(handlers.AdminDashboard))
	admin.HandleFunc("/admin/revenue", getOnlyFunc(handlers.AdminRevenue))
	admin.HandleFunc("/admin/orders", getOnlyFunc(handlers.AdminListOrders))
	admin.HandleFunc("/admin/orders/status", postOnly(handlers.AdminUpdateOrderStatus))
	admin.HandleFunc("/admin/users", getOnlyFunc(handlers.AdminListUsers))
	admin.HandleFunc("/admin/users/toggle_role", postOnly(handlers.AdminToggleUserRole))
	admin.HandleFunc("/admin/users/delete", postOnly(handlers.AdminDeleteUser))
	admin.HandleFunc("/admin/products", getOnlyFunc(handlers.AdminListProducts))
	admin.HandleFunc("/admin/products/create", postOnly(handlers.AdminCreateProduct))
	admin.HandleFunc("/admin/products/update", postOnly(handlers.AdminUpdateProduct))
	admin.HandleFunc("/admin/products/delete", postOnly(handlers.AdminDeleteProduct))
	admin.HandleFunc("/admin/messages", getOnlyFunc(handlers.AdminListMessages))
	mux.Handle("/admin/", middleware.RequireAdmin(admin))

	withSession := middleware.WithSession(sessions)
	return withLogging(withSession(mux))
}

func postOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func getOnly(h http.HandlerFunc) http.Handler {
	return http.HandlerFunc(getOnlyFunc(h))
}

func getOnlyFunc(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[Web] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
