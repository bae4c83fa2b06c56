package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/i18n"
	"github.com/onlinestore/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildOrderConfirmationContent(t *testing.T) {
	input := OrderConfirmationEmailInput{
		OrderID:         12,
		FullName:        "Alice Smith",
		Status:          "pending",
		ShippingAddress: "1 Infinite Loop, Cupertino",
		TotalAmount:     models.NewMoneyFromDecimal(decimal.RequireFromString("59.97")),
		Lines: []OrderConfirmationLine{
			{
				ProductName: "Keyboard",
				Quantity:    3,
				UnitPrice:   models.NewMoneyFromDecimal(decimal.RequireFromString("19.99")),
				Subtotal:    models.NewMoneyFromDecimal(decimal.RequireFromString("59.97")),
			},
		},
	}

	tests := []struct {
		name                string
		locale              string
		wantSubjectContains []string
		wantBodyContains    []string
	}{
		{
			name:                "en",
			locale:              i18n.LocaleEN,
			wantSubjectContains: []string{"Order #12 confirmed"},
			wantBodyContains: []string{
				"Hi Alice Smith,",
				"it is now pending",
				"- Keyboard x 3 @ 19.99 = 59.97",
				"Total: 59.97",
				"Shipping to: 1 Infinite Loop, Cupertino",
			},
		},
		{
			name:                "zh",
			locale:              "zh-CN",
			wantSubjectContains: []string{"订单 #12 已确认"},
			wantBodyContains: []string{
				"待处理",
				"合计：59.97",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOrderConfirmationContent(input, tt.locale)
			for _, expected := range tt.wantSubjectContains {
				if !strings.Contains(subject, expected) {
					t.Fatalf("subject missing %q: %s", expected, subject)
				}
			}
			for _, expected := range tt.wantBodyContains {
				if !strings.Contains(body, expected) {
					t.Fatalf("body missing %q: %s", expected, body)
				}
			}
		})
	}
}

func TestSendOrderConfirmationRequiresConfig(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false})
	if disabled.Enabled() {
		t.Fatalf("expected disabled email service")
	}
	if err := disabled.SendOrderConfirmation("a@example.com", OrderConfirmationEmailInput{OrderID: 1}, ""); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}

	incomplete := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := incomplete.SendOrderConfirmation("a@example.com", OrderConfirmationEmailInput{OrderID: 1}, ""); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}

	configured := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 25, From: "shop@example.com"})
	if !configured.Enabled() {
		t.Fatalf("expected configured email service enabled")
	}
	if err := configured.SendOrderConfirmation("not-an-email", OrderConfirmationEmailInput{OrderID: 1}, ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestBuildEmailMessageHeaders(t *testing.T) {
	from := buildFromAddress("shop@example.com", "Online Store")
	msg := buildEmailMessage(from, "a@example.com", "Order #1 confirmed", "body")
	for _, expected := range []string{"From: ", "To: a@example.com\r\n", "Content-Type: text/plain; charset=UTF-8\r\n", "\r\n\r\nbody"} {
		if !strings.Contains(msg, expected) {
			t.Fatalf("message missing %q: %s", expected, msg)
		}
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "smtp_550_no_such_recipient",
			err:  errors.New("550 No such recipient here"),
			want: true,
		},
		{
			name: "smtp_user_unknown",
			err:  errors.New("SMTP 5.1.1 user unknown"),
			want: true,
		},
		{
			name: "smtp_550_mailbox_unavailable",
			err:  errors.New("550 mailbox unavailable"),
			want: true,
		},
		{
			name: "network_timeout",
			err:  errors.New("dial tcp timeout"),
			want: false,
		},
		{
			name: "nil_error",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isEmailRecipientRejected(tt.err); got != tt.want {
				t.Fatalf("isEmailRecipientRejected() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := errors.New("550 No such recipient here")
	if got := normalizeEmailSendError(rejected); !errors.Is(got, ErrEmailRecipientRejected) {
		t.Fatalf("normalizeEmailSendError() expected ErrEmailRecipientRejected, got %v", got)
	}

	networkErr := errors.New("dial tcp timeout")
	if got := normalizeEmailSendError(networkErr); !errors.Is(got, networkErr) {
		t.Fatalf("normalizeEmailSendError() should keep original error, got %v", got)
	}

	if got := normalizeEmailSendError(nil); got != nil {
		t.Fatalf("normalizeEmailSendError(nil) should be nil, got %v", got)
	}
}
