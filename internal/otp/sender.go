package otp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"nss-bloodbank/backend/internal/devotp"
	"nss-bloodbank/backend/internal/otp/domain"
)

// Sender delivers a plain code to a normalized target.
type Sender interface {
	Send(ctx context.Context, channel domain.Channel, target, code string, expiresAt time.Time) error
}

// SMSClient is implemented by the gateways in package sms.
type SMSClient interface {
	SendOTP(ctx context.Context, phone, code string) error
}

// ErrNoSender is returned when no sender handles the target's channel.
var ErrNoSender = errors.New("otp: no sender configured for channel")

// SMSSender sends phone codes through an SMS gateway. Email targets are rejected.
type SMSSender struct {
	Client SMSClient
}

func (s SMSSender) Send(ctx context.Context, channel domain.Channel, target, code string, _ time.Time) error {
	if channel != domain.ChannelSMS {
		return ErrNoSender
	}
	return s.Client.SendOTP(ctx, target, code)
}

// LogSender records that a code was issued without the code itself.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, channel domain.Channel, target, _ string, expiresAt time.Time) error {
	if s.Logger != nil {
		s.Logger.Info("otp: code issued",
			zap.String("channel", string(channel)),
			zap.String("target", MaskTarget(target)),
			zap.Time("expires_at", expiresAt))
	}
	return nil
}

// DevSender keeps the plain code in a devotp.Store for GET /dev/otp.
type DevSender struct {
	Store devotp.Store
}

func (s DevSender) Send(ctx context.Context, _ domain.Channel, target, code string, expiresAt time.Time) error {
	s.Store.Put(ctx, target, code, expiresAt)
	return nil
}

// Router picks a sender per channel. A nil entry falls back to Fallback.
type Router struct {
	SMS      Sender
	Email    Sender
	Fallback Sender
}

func (r Router) Send(ctx context.Context, channel domain.Channel, target, code string, expiresAt time.Time) error {
	var s Sender
	switch channel {
	case domain.ChannelSMS:
		s = r.SMS
	case domain.ChannelEmail:
		s = r.Email
	}
	if s == nil {
		s = r.Fallback
	}
	if s == nil {
		return ErrNoSender
	}
	return s.Send(ctx, channel, target, code, expiresAt)
}

// Multi delivers to every sender in order and stops at the first error.
type Multi []Sender

func (m Multi) Send(ctx context.Context, channel domain.Channel, target, code string, expiresAt time.Time) error {
	for _, s := range m {
		if err := s.Send(ctx, channel, target, code, expiresAt); err != nil {
			return err
		}
	}
	return nil
}
