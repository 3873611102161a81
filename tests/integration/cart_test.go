//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestCartFlow(t *testing.T) {
	resetState(t)

	// Add 2x earbuds (120, 25% off -> 90 each).
	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 1, "qty": 2})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add item: expected 200, got %d", resp.StatusCode)
	}
	c := decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if len(c.Lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(c.Lines))
	}
	if c.Lines[0].Qty != 2 || c.Lines[0].UnitPrice != 90 {
		t.Errorf("line: got qty=%d unitPrice=%v, want qty=2 unitPrice=90", c.Lines[0].Qty, c.Lines[0].UnitPrice)
	}
	if c.Totals.Subtotal != 240 || c.Totals.FinalTotal != 180 {
		t.Errorf("totals: got subtotal=%v finalTotal=%v, want 240/180", c.Totals.Subtotal, c.Totals.FinalTotal)
	}

	// Adding the same product again merges into the existing line.
	resp = doPost(t, "/api/cart/items", map[string]any{"productId": 1, "qty": 1})
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Lines) != 1 || c.Lines[0].Qty != 3 {
		t.Fatalf("merge: got %d lines, qty %d; want 1 line qty 3", len(c.Lines), c.Lines[0].Qty)
	}

	// Set quantity directly.
	resp = doPut(t, "/api/cart/items/1", map[string]any{"qty": 1})
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if c.Lines[0].Qty != 1 {
		t.Fatalf("set qty: got %d, want 1", c.Lines[0].Qty)
	}

	// Apply a 10% voucher: 90 -> 81.
	resp = doPut(t, "/api/cart/voucher", map[string]any{"voucherId": "V10"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("apply voucher: expected 200, got %d", resp.StatusCode)
	}
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()

	if c.AppliedVoucherID == nil || *c.AppliedVoucherID != "V10" {
		t.Fatalf("appliedVoucherId: got %v, want V10", c.AppliedVoucherID)
	}
	if c.Totals.VoucherDiscount != 9 || c.Totals.FinalTotal != 81 {
		t.Errorf("totals: got voucherDiscount=%v finalTotal=%v, want 9/81", c.Totals.VoucherDiscount, c.Totals.FinalTotal)
	}

	// Remove the voucher and the line.
	resp = doDelete(t, "/api/cart/voucher")
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("clear voucher: expected 204, got %d", resp.StatusCode)
	}

	resp = doDelete(t, "/api/cart/items/1")
	c = decodeJSON[cartResponse](t, resp)
	resp.Body.Close()
	if len(c.Lines) != 0 {
		t.Fatalf("remove: got %d lines, want 0", len(c.Lines))
	}
}

func TestCart_InvalidQuantity(t *testing.T) {
	resetState(t)

	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 1, "qty": 0})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestCart_UnknownProduct(t *testing.T) {
	resetState(t)

	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 999, "qty": 1})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCart_UnknownVoucher(t *testing.T) {
	resetState(t)

	resp := doPut(t, "/api/cart/voucher", map[string]any{"voucherId": "NOPE"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	errResp := decodeJSON[errorResponse](t, resp)
	if errResp.Message != "invalid voucher code" {
		t.Errorf("message: got %q, want %q", errResp.Message, "invalid voucher code")
	}
}
