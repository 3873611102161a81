package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/urban-deals/internal/domain/pricing"
	"github.com/xenking/urban-deals/internal/domain/voucher"
)

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	h.renderCart(w, r, http.StatusOK)
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var (
		productID int64
		qty       int
	)
	ok := decodeBody(w, r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "productId":
				productID, err = d.Int64()
			case "qty":
				qty, err = d.Int()
			default:
				err = d.Skip()
			}
			return err
		})
	})
	if !ok {
		return
	}

	ctx := r.Context()

	// Reject references to unknown products up front instead of storing a
	// line that can never be priced.
	if _, err := h.products.GetByID(ctx, productID); err != nil {
		h.respondError(w, r, err)
		return
	}

	c, err := h.carts.Get(ctx, h.userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := c.Add(productID, qty); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.carts.Save(ctx, h.userID, c); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.renderCart(w, r, http.StatusOK)
}

func (h *Handler) setCartItemQty(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var qty int
	ok := decodeBody(w, r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "qty":
				qty, err = d.Int()
			default:
				err = d.Skip()
			}
			return err
		})
	})
	if !ok {
		return
	}

	ctx := r.Context()
	c, err := h.carts.Get(ctx, h.userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := c.SetQty(productID, qty); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.carts.Save(ctx, h.userID, c); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.renderCart(w, r, http.StatusOK)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ctx := r.Context()
	c, err := h.carts.Get(ctx, h.userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := c.Remove(productID); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.carts.Save(ctx, h.userID, c); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.renderCart(w, r, http.StatusOK)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.carts.Clear(r.Context(), h.userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) applyVoucher(w http.ResponseWriter, r *http.Request) {
	var voucherID string
	ok := decodeBody(w, r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "voucherId":
				voucherID, err = d.Str()
			default:
				err = d.Skip()
			}
			return err
		})
	})
	if !ok {
		return
	}

	ctx := r.Context()

	// The voucher must be one the user actually owns.
	if _, err := h.vouchers.GetForUser(ctx, h.userID, voucherID); err != nil {
		h.respondError(w, r, err)
		return
	}
	if err := h.users.SetAppliedVoucher(ctx, h.userID, voucherID); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.renderCart(w, r, http.StatusOK)
}

func (h *Handler) clearVoucher(w http.ResponseWriter, r *http.Request) {
	if err := h.users.ClearAppliedVoucher(r.Context(), h.userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// renderCart prices the current cart and writes the full cart view: resolved
// lines, the totals breakdown, and warnings for lines whose product has
// vanished from the catalog. Such lines are reported, never silently hidden.
func (h *Handler) renderCart(w http.ResponseWriter, r *http.Request, status int) {
	ctx := r.Context()

	c, err := h.carts.Get(ctx, h.userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	products, err := h.products.GetByIDs(ctx, c.ProductIDs())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	items, missing := pricing.Resolve(c.Lines, products)

	v, err := h.appliedVoucher(ctx)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	totals := pricing.Compute(items, v)

	writeJSON(w, status, func(e *jx.Encoder) {
		e.ObjStart()

		e.FieldStart("lines")
		e.ArrStart()
		for _, it := range items {
			e.ObjStart()
			fieldInt64(e, "productId", it.Product.ID)
			fieldStr(e, "name", it.Product.Name)
			fieldStr(e, "image", h.imageURL(it.Product.Image))
			fieldInt(e, "qty", it.Qty)
			fieldMoney(e, "price", it.Product.Price)
			fieldMoney(e, "unitPrice", it.UnitSale)
			fieldMoney(e, "lineTotal", it.LineTotal())
			e.ObjEnd()
		}
		e.ArrEnd()

		e.FieldStart("appliedVoucherId")
		if v == nil {
			e.Null()
		} else {
			e.Str(v.ID)
		}

		e.FieldStart("totals")
		encodeBreakdown(e, totals)

		if len(missing) > 0 {
			e.FieldStart("missingProductIds")
			e.ArrStart()
			for _, id := range missing {
				e.Int64(id)
			}
			e.ArrEnd()
		}

		e.ObjEnd()
	})
}

// appliedVoucher resolves the user's applied voucher for cart display.
// A stale selection renders as no voucher.
func (h *Handler) appliedVoucher(ctx context.Context) (*voucher.Voucher, error) {
	u, err := h.users.Get(ctx, h.userID)
	if err != nil {
		return nil, err
	}
	if u.AppliedVoucherID == "" {
		return nil, nil
	}
	v, err := h.vouchers.GetForUser(ctx, h.userID, u.AppliedVoucherID)
	if err != nil {
		if errors.Is(err, voucher.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func encodeBreakdown(e *jx.Encoder, b pricing.Breakdown) {
	e.ObjStart()
	fieldInt(e, "itemsCount", b.ItemsCount)
	fieldMoney(e, "subtotal", b.Subtotal)
	fieldMoney(e, "productDiscount", b.ProductDiscount)
	fieldMoney(e, "discountedTotal", b.DiscountedTotal)
	fieldMoney(e, "voucherDiscount", b.VoucherDiscount)
	fieldMoney(e, "finalTotal", b.FinalTotal)
	e.ObjEnd()
}
