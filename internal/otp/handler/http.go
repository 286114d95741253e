// Package handler exposes the OTP gate over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"

	"nss-bloodbank/backend/internal/devotp"
	"nss-bloodbank/backend/internal/otp"
	"nss-bloodbank/backend/internal/platform/httpjson"
)

// Gate is the part of *otp.Gate used by the handler.
type Gate interface {
	SendCode(ctx context.Context, rawTarget string) (*otp.Receipt, error)
	VerifyCode(ctx context.Context, rawTarget, candidate string) error
}

// Handler serves /api/otp/send, /api/otp/verify and, when a dev store is set, /dev/otp.
type Handler struct {
	gate Gate
	dev  devotp.Store
}

// New returns a Handler. dev may be nil; then DevOTP answers 404.
func New(gate Gate, dev devotp.Store) *Handler {
	return &Handler{gate: gate, dev: dev}
}

type sendRequest struct {
	Target string `json:"target"`
}

type verifyRequest struct {
	Target string `json:"target"`
	Code   string `json:"code"`
}

type verifyResponse struct {
	Verified bool   `json:"verified"`
	Target   string `json:"target"`
}

type devOTPResponse struct {
	Target string `json:"target"`
	Code   string `json:"code"`
}

// Send issues a code to a phone number or email address.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	receipt, err := h.gate.SendCode(r.Context(), req.Target)
	if err != nil {
		WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, receipt)
}

// Verify checks a candidate code. A successful verification consumes the challenge.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.gate.VerifyCode(r.Context(), req.Target, req.Code); err != nil {
		WriteError(w, err)
		return
	}
	target, _, _ := otp.NormalizeTarget(req.Target)
	httpjson.Write(w, http.StatusOK, verifyResponse{Verified: true, Target: target})
}

// DevOTP returns the latest plain code for ?target=. Development only.
func (h *Handler) DevOTP(w http.ResponseWriter, r *http.Request) {
	if h.dev == nil {
		httpjson.Error(w, http.StatusNotFound, "not found")
		return
	}
	target, _, err := otp.NormalizeTarget(r.URL.Query().Get("target"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	code, ok := h.dev.Get(r.Context(), target)
	if !ok {
		httpjson.Error(w, http.StatusNotFound, "no code for target")
		return
	}
	httpjson.Write(w, http.StatusOK, devOTPResponse{Target: target, Code: code})
}

// WriteError maps gate errors to HTTP statuses.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, otp.ErrInvalidTarget):
		httpjson.Error(w, http.StatusBadRequest, "invalid phone number or email")
	case errors.Is(err, otp.ErrInvalidCode):
		httpjson.Error(w, http.StatusBadRequest, "invalid code")
	case errors.Is(err, otp.ErrExpired):
		httpjson.Error(w, http.StatusGone, "code expired, request a new one")
	case errors.Is(err, otp.ErrTooManyAttempts):
		httpjson.Error(w, http.StatusTooManyRequests, "too many attempts, request a new code")
	case errors.Is(err, otp.ErrRateLimited):
		httpjson.Error(w, http.StatusTooManyRequests, "code requested too recently")
	case errors.Is(err, otp.ErrDelivery):
		httpjson.Error(w, http.StatusBadGateway, "could not deliver code")
	default:
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
