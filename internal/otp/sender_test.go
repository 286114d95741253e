package otp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"nss-bloodbank/backend/internal/devotp"
	"nss-bloodbank/backend/internal/otp/domain"
)

type fakeSMS struct {
	phone, code string
}

func (f *fakeSMS) SendOTP(_ context.Context, phone, code string) error {
	f.phone, f.code = phone, code
	return nil
}

func TestRouter(t *testing.T) {
	ctx := context.Background()
	exp := time.Now().Add(time.Minute)
	sms := &fakeSMS{}
	email := &captureSender{}
	r := Router{SMS: SMSSender{Client: sms}, Email: email}

	if err := r.Send(ctx, domain.ChannelSMS, phone, "123456", exp); err != nil {
		t.Fatalf("Send sms: %v", err)
	}
	if sms.phone != phone || sms.code != "123456" {
		t.Errorf("sms got %q/%q", sms.phone, sms.code)
	}
	if err := r.Send(ctx, domain.ChannelEmail, "a@b.c", "654321", exp); err != nil {
		t.Fatalf("Send email: %v", err)
	}
	if email.last("a@b.c") != "654321" {
		t.Error("email sender not used")
	}

	if err := (Router{}).Send(ctx, domain.ChannelSMS, phone, "1", exp); !errors.Is(err, ErrNoSender) {
		t.Errorf("empty router err = %v, want ErrNoSender", err)
	}
	if err := (SMSSender{Client: sms}).Send(ctx, domain.ChannelEmail, "a@b.c", "1", exp); !errors.Is(err, ErrNoSender) {
		t.Errorf("SMSSender email err = %v, want ErrNoSender", err)
	}
}

func TestLogSender_DoesNotLogCode(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := LogSender{Logger: zap.New(core)}
	if err := s.Send(context.Background(), domain.ChannelSMS, phone, "987654", time.Now()); err != nil {
		t.Fatalf("Send: %v", err)
	}
	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	for k, v := range entries[0].ContextMap() {
		if s, ok := v.(string); ok && strings.Contains(s, "987654") {
			t.Errorf("field %s leaks the code", k)
		}
		if s, ok := v.(string); ok && strings.Contains(s, "98765432") {
			t.Errorf("field %s leaks the full phone number", k)
		}
	}
}

func TestDevSenderAndMulti(t *testing.T) {
	ctx := context.Background()
	store := devotp.NewMemoryStore()
	m := Multi{LogSender{}, DevSender{Store: store}}
	if err := m.Send(ctx, domain.ChannelEmail, "a@b.c", "246810", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if code, ok := store.Get(ctx, "a@b.c"); !ok || code != "246810" {
		t.Errorf("dev store = %q, %v", code, ok)
	}
}
