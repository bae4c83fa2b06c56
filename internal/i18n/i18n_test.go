package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTFallsBackToEnglishAndKey(t *testing.T) {
	if got := T(LocaleZH, "error.cart_empty"); got != "购物车为空" {
		t.Fatalf("unexpected zh message: %s", got)
	}
	if got := T("fr-FR", "error.cart_empty"); got != "Cart is empty." {
		t.Fatalf("unexpected fallback message: %s", got)
	}
	if got := T(LocaleEN, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("expected key fallback, got %s", got)
	}
}

func TestSprintfFormatsArgs(t *testing.T) {
	if got := Sprintf(LocaleEN, "error.insufficient_stock", "Laptop"); got != "Insufficient stock for product Laptop." {
		t.Fatalf("unexpected message: %s", got)
	}
	if got := Sprintf(LocaleEN, "error.product_not_found_id", 42); got != "Product 42 not found." {
		t.Fatalf("unexpected message: %s", got)
	}
}

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		header string
		value  string
		want   string
	}{
		{"", "", LocaleEN},
		{"Accept-Language", "zh-CN,zh;q=0.9,en;q=0.8", LocaleZH},
		{"Accept-Language", "en-GB;q=0.8", LocaleEN},
		{"X-Locale", "zh-TW", LocaleZH},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			c.Request.Header.Set(tc.header, tc.value)
		}
		if got := ResolveLocale(c); got != tc.want {
			t.Fatalf("header %s=%q: got %s want %s", tc.header, tc.value, got, tc.want)
		}
	}
	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context should resolve default, got %s", got)
	}
}
