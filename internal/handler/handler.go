// Package handler implements the storefront HTTP API. Request and response
// bodies are encoded with go-faster/jx so money fields can be emitted as raw
// two-decimal JSON numbers.
package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/urban-deals/internal/domain/cart"
	"github.com/xenking/urban-deals/internal/domain/catalog"
	"github.com/xenking/urban-deals/internal/domain/order"
	"github.com/xenking/urban-deals/internal/domain/user"
	"github.com/xenking/urban-deals/internal/domain/voucher"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to product image filenames in responses.
	// When empty, image names are returned as stored in the database.
	ImageBaseURL string
	// UserID is the account all requests operate on. The storefront is a
	// single-user demo; there is no authentication layer.
	UserID int64
}

// Handler serves the storefront API, delegating business logic to the domain
// repositories and the order service.
type Handler struct {
	products     catalog.Repository
	carts        cart.Repository
	users        user.Repository
	vouchers     voucher.Repository
	orders       order.Repository
	orderService *order.Service
	imageBaseURL string
	userID       int64
}

// New constructs a Handler with the required domain dependencies.
func New(
	cfg Config,
	products catalog.Repository,
	carts cart.Repository,
	users user.Repository,
	vouchers voucher.Repository,
	orders order.Repository,
	orderService *order.Service,
) *Handler {
	userID := cfg.UserID
	if userID == 0 {
		userID = user.DefaultID
	}
	return &Handler{
		products:     products,
		carts:        carts,
		users:        users,
		vouchers:     vouchers,
		orders:       orders,
		orderService: orderService,
		imageBaseURL: cfg.ImageBaseURL,
		userID:       userID,
	}
}

// Register attaches all API routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{productId}", h.getProduct)

	mux.HandleFunc("GET /api/user", h.getUser)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addCartItem)
	mux.HandleFunc("PUT /api/cart/items/{productId}", h.setCartItemQty)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", h.removeCartItem)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("PUT /api/cart/voucher", h.applyVoucher)
	mux.HandleFunc("DELETE /api/cart/voucher", h.clearVoucher)

	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{orderId}", h.getOrder)
	mux.HandleFunc("POST /api/orders", h.createOrder)
}

// respondError maps domain errors onto HTTP status codes with a {code,
// message} JSON body. Unknown errors become opaque 500s and are logged.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrInvalidPayment),
		errors.Is(err, cart.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, voucher.ErrNotFound):
		writeError(w, http.StatusUnprocessableEntity, "invalid voucher code")
	case errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, user.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		var (
			validationErr   *order.ValidationError
			notFoundErr     *order.ProductNotFoundError
			insufficientErr *order.InsufficientFundsError
		)
		switch {
		case errors.As(err, &validationErr):
			writeError(w, http.StatusUnprocessableEntity, validationErr.Error())
		case errors.As(err, &notFoundErr):
			writeError(w, http.StatusUnprocessableEntity, notFoundErr.Error())
		case errors.As(err, &insufficientErr):
			writeError(w, http.StatusUnprocessableEntity, insufficientErr.Error())
		default:
			zctx.From(r.Context()).Error("request failed",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
	}
}

func (h *Handler) imageURL(name string) string {
	if name == "" {
		return ""
	}
	return h.imageBaseURL + name
}
