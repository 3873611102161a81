package handler

import (
	"net/http"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/xenking/urban-deals/internal/domain/catalog"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, p := range products {
			h.encodeProduct(e, p)
		}
		e.ArrEnd()
	})
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("productId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeProduct(e, *p)
	})
}

// encodeProduct writes a product with both the list price and the discounted
// sale price, so clients never recompute discounts themselves.
func (h *Handler) encodeProduct(e *jx.Encoder, p catalog.Product) {
	e.ObjStart()
	fieldInt64(e, "id", p.ID)
	fieldStr(e, "name", p.Name)
	fieldStr(e, "description", p.Description)
	fieldMoney(e, "price", p.Price)
	fieldDecimal(e, "discountPct", p.DiscountPct)
	fieldMoney(e, "salePrice", p.DiscountedUnitPrice())
	fieldStr(e, "image", h.imageURL(p.Image))
	e.ObjEnd()
}
