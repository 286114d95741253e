package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nss-bloodbank/backend/internal/devotp"
	"nss-bloodbank/backend/internal/otp"
	"nss-bloodbank/backend/internal/otp/repository"
)

func newHandler(t *testing.T) (*Handler, *devotp.MemoryStore) {
	t.Helper()
	dev := devotp.NewMemoryStore()
	gate := otp.NewGate(repository.NewMemoryRepository(), otp.DevSender{Store: dev}, otp.Options{ResendInterval: time.Minute}, nil)
	return New(gate, dev), dev
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/otp", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, r)
	return rec
}

func TestSendVerifyFlow(t *testing.T) {
	h, dev := newHandler(t)

	rec := post(h.Send, `{"target":"98765 43210"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("send status = %d, body %s", rec.Code, rec.Body)
	}
	var receipt otp.Receipt
	if err := json.Unmarshal(rec.Body.Bytes(), &receipt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if receipt.Target != "+919876543210" {
		t.Errorf("target = %q", receipt.Target)
	}
	if strings.Contains(rec.Body.String(), `"code"`) {
		t.Error("send response must not carry the code")
	}

	code, ok := dev.Get(context.Background(), receipt.Target)
	if !ok {
		t.Fatal("dev store should hold the code")
	}

	rec = post(h.Verify, `{"target":"+919876543210","code":"`+wrong(code)+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong code status = %d", rec.Code)
	}
	rec = post(h.Verify, `{"target":"+919876543210","code":"`+code+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("verify status = %d, body %s", rec.Code, rec.Body)
	}
	rec = post(h.Verify, `{"target":"+919876543210","code":"`+code+`"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("reused code status = %d, want 400", rec.Code)
	}
}

func wrong(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}

func TestSend_Errors(t *testing.T) {
	h, _ := newHandler(t)

	if rec := post(h.Send, `{"target":"not a target"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid target status = %d", rec.Code)
	}
	if rec := post(h.Send, `{"target":"a@example.com"`); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", rec.Code)
	}
	if rec := post(h.Send, `{"target":"a@example.com"}`); rec.Code != http.StatusOK {
		t.Fatalf("first send status = %d", rec.Code)
	}
	if rec := post(h.Send, `{"target":"a@example.com"}`); rec.Code != http.StatusTooManyRequests {
		t.Errorf("resend status = %d, want 429", rec.Code)
	}
}

func TestDevOTP(t *testing.T) {
	h, dev := newHandler(t)
	dev.Put(context.Background(), "a@example.com", "123456", time.Now().Add(time.Minute))

	rec := httptest.NewRecorder()
	h.DevOTP(rec, httptest.NewRequest(http.MethodGet, "/dev/otp?target=A@Example.com", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"123456"`) {
		t.Errorf("dev otp = %d %s", rec.Code, rec.Body)
	}

	rec = httptest.NewRecorder()
	h.DevOTP(rec, httptest.NewRequest(http.MethodGet, "/dev/otp?target=b@example.com", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing code status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	New(nil, nil).DevOTP(rec, httptest.NewRequest(http.MethodGet, "/dev/otp?target=a@example.com", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled dev store status = %d", rec.Code)
	}
}
