//go:build integration

package integration

import (
	"math"
	"net/http"
	"strings"
	"testing"
)

var validCustomer = customerRequest{
	FullName: "John Doe",
	Phone:    "123456789",
	Email:    "john@example.com",
	City:     "Berlin",
	Address:  "Main Street 1",
}

func TestCreateOrder_Cash(t *testing.T) {
	resetState(t)

	// Thermo mug: 45, no discount.
	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 6, "qty": 1})
	resp.Body.Close()

	resp = doPost(t, "/api/orders", orderRequest{Customer: validCustomer, Payment: "cash"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	o := decodeJSON[orderResponse](t, resp)
	if !strings.HasPrefix(o.ID, "ORD-") {
		t.Errorf("id: got %q, want ORD- prefix", o.ID)
	}
	if o.Totals.FinalTotal != 45 {
		t.Errorf("finalTotal: got %v, want 45", o.Totals.FinalTotal)
	}
	// Cash payment leaves the wallet untouched.
	if o.WalletAfter != o.WalletBefore {
		t.Errorf("wallet changed on cash payment: %v -> %v", o.WalletBefore, o.WalletAfter)
	}
	if len(o.Items) != 1 || o.Items[0].Name != "Thermo Mug Steel 450ml" {
		t.Errorf("items: got %+v", o.Items)
	}

	// The cart is cleared after checkout.
	cartResp := doGet(t, "/api/cart")
	defer cartResp.Body.Close()
	c := decodeJSON[cartResponse](t, cartResp)
	if len(c.Lines) != 0 {
		t.Errorf("cart not cleared: %d lines remain", len(c.Lines))
	}
}

func TestCreateOrder_WalletWithVoucher(t *testing.T) {
	resetState(t)

	userResp := doGet(t, "/api/user")
	u := decodeJSON[userResponse](t, userResp)
	userResp.Body.Close()

	// Resistance bands: 35, 10% off -> 31.50. With V10: 31.50 - 3.15 = 28.35.
	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 7, "qty": 1})
	resp.Body.Close()
	resp = doPut(t, "/api/cart/voucher", map[string]any{"voucherId": "V10"})
	resp.Body.Close()

	resp = doPost(t, "/api/orders", orderRequest{Customer: validCustomer, Payment: "wallet"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	o := decodeJSON[orderResponse](t, resp)
	if o.Totals.FinalTotal != 28.35 {
		t.Errorf("finalTotal: got %v, want 28.35", o.Totals.FinalTotal)
	}
	if o.VoucherID == nil || *o.VoucherID != "V10" {
		t.Errorf("voucherId: got %v, want V10", o.VoucherID)
	}
	if o.WalletBefore != u.Wallet {
		t.Errorf("walletBefore: got %v, want %v", o.WalletBefore, u.Wallet)
	}
	if want := round2(u.Wallet - 28.35); o.WalletAfter != want {
		t.Errorf("walletAfter: got %v, want %v", o.WalletAfter, want)
	}

	// The wallet debit and voucher reset are persisted.
	userResp = doGet(t, "/api/user")
	defer userResp.Body.Close()
	after := decodeJSON[userResponse](t, userResp)
	if after.Wallet != o.WalletAfter {
		t.Errorf("persisted wallet: got %v, want %v", after.Wallet, o.WalletAfter)
	}
	if after.AppliedVoucherID != nil {
		t.Errorf("applied voucher not reset: %v", *after.AppliedVoucherID)
	}
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	resetState(t)

	resp := doPost(t, "/api/orders", orderRequest{Customer: validCustomer, Payment: "cash"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestCreateOrder_InvalidCustomer(t *testing.T) {
	resetState(t)

	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 6, "qty": 1})
	resp.Body.Close()

	bad := validCustomer
	bad.Email = "not-an-email"
	resp = doPost(t, "/api/orders", orderRequest{Customer: bad, Payment: "cash"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	// The cart survives a failed checkout.
	cartResp := doGet(t, "/api/cart")
	defer cartResp.Body.Close()
	c := decodeJSON[cartResponse](t, cartResp)
	if len(c.Lines) != 1 {
		t.Errorf("cart lost after failed checkout: %d lines", len(c.Lines))
	}
}

func TestOrderHistory(t *testing.T) {
	resetState(t)

	resp := doPost(t, "/api/cart/items", map[string]any{"productId": 6, "qty": 1})
	resp.Body.Close()
	resp = doPost(t, "/api/orders", orderRequest{Customer: validCustomer, Payment: "cash"})
	created := decodeJSON[orderResponse](t, resp)
	resp.Body.Close()

	listResp := doGet(t, "/api/orders")
	defer listResp.Body.Close()
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", listResp.StatusCode)
	}
	orders := decodeJSON[[]orderResponse](t, listResp)
	if len(orders) == 0 {
		t.Fatal("expected at least one order in history")
	}

	getResp := doGet(t, "/api/orders/"+created.ID)
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.StatusCode)
	}
	o := decodeJSON[orderResponse](t, getResp)
	if o.ID != created.ID {
		t.Errorf("id: got %q, want %q", o.ID, created.ID)
	}
	if len(o.Items) != 1 {
		t.Errorf("items: got %d, want 1", len(o.Items))
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	resp := doGet(t, "/api/orders/ORD-0")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
