package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/urban-deals/internal/domain/voucher"
)

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	u, err := h.users.Get(ctx, h.userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	vouchers, err := h.vouchers.ListForUser(ctx, h.userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		fieldInt64(e, "id", u.ID)
		fieldStr(e, "firstName", u.FirstName)
		fieldStr(e, "lastName", u.LastName)
		fieldMoney(e, "wallet", u.Wallet)
		e.FieldStart("appliedVoucherId")
		if u.AppliedVoucherID == "" {
			e.Null()
		} else {
			e.Str(u.AppliedVoucherID)
		}
		e.FieldStart("vouchers")
		e.ArrStart()
		for _, v := range vouchers {
			encodeVoucher(e, v)
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

func encodeVoucher(e *jx.Encoder, v voucher.Voucher) {
	e.ObjStart()
	fieldStr(e, "id", v.ID)
	fieldStr(e, "title", v.Title)
	fieldDecimal(e, "percent", v.Percent)
	e.ObjEnd()
}
