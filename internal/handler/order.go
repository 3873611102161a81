package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/urban-deals/internal/domain/order"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context(), h.userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for i := range orders {
			h.encodeOrder(e, &orders[i], false)
		}
		e.ArrEnd()
	})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), h.userID, r.PathValue("orderId"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		h.encodeOrder(e, o, true)
	})
}

// createOrder is the checkout endpoint. The client sends only contact details
// and a payment method; cart contents, voucher and totals come from persisted
// state so the server is the single source of pricing truth.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req order.PlaceOrderRequest
	req.UserID = h.userID

	ok := decodeBody(w, r, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "customer":
				return d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "fullName":
						req.Customer.FullName, err = d.Str()
					case "phone":
						req.Customer.Phone, err = d.Str()
					case "email":
						req.Customer.Email, err = d.Str()
					case "city":
						req.Customer.City, err = d.Str()
					case "address":
						req.Customer.Address, err = d.Str()
					case "note":
						req.Customer.Note, err = d.Str()
					default:
						err = d.Skip()
					}
					return err
				})
			case "payment":
				p, err := d.Str()
				req.Payment = order.PaymentMethod(p)
				return err
			default:
				return d.Skip()
			}
		})
	})
	if !ok {
		return
	}

	o, err := h.orderService.PlaceOrder(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		h.encodeOrder(e, o, true)
	})
}

// encodeOrder writes an order. Line items are included only for single-order
// responses; the history listing stays lean.
func (h *Handler) encodeOrder(e *jx.Encoder, o *order.Order, withItems bool) {
	e.ObjStart()
	fieldStr(e, "id", o.ID)
	fieldTime(e, "createdAt", o.CreatedAt)

	e.FieldStart("customer")
	e.ObjStart()
	fieldStr(e, "fullName", o.Customer.FullName)
	fieldStr(e, "phone", o.Customer.Phone)
	fieldStr(e, "email", o.Customer.Email)
	fieldStr(e, "city", o.Customer.City)
	fieldStr(e, "address", o.Customer.Address)
	fieldStr(e, "note", o.Customer.Note)
	e.ObjEnd()

	fieldStr(e, "payment", string(o.Payment))

	e.FieldStart("voucherId")
	if o.VoucherID == "" {
		e.Null()
	} else {
		e.Str(o.VoucherID)
	}

	if withItems {
		e.FieldStart("items")
		e.ArrStart()
		for _, it := range o.Items {
			e.ObjStart()
			fieldInt64(e, "productId", it.ProductID)
			fieldStr(e, "name", it.Name)
			fieldStr(e, "image", h.imageURL(it.Image))
			fieldInt(e, "qty", it.Qty)
			fieldMoney(e, "unitPrice", it.UnitPrice)
			fieldMoney(e, "lineTotal", it.LineTotal)
			e.ObjEnd()
		}
		e.ArrEnd()
	}

	e.FieldStart("totals")
	encodeBreakdown(e, o.Totals)

	fieldMoney(e, "walletBefore", o.WalletBefore)
	fieldMoney(e, "walletAfter", o.WalletAfter)
	e.ObjEnd()
}
