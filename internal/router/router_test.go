package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/onlinestore/internal/config"
	"github.com/onlinestore/internal/models"
	"github.com/onlinestore/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const (
	testAdminEmail    = "admin@onlinestore.test"
	testAdminPassword = "Admin123!"
)

type apiEnvelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
	} `json:"pagination"`
}

type authPayload struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
	UserID       uint   `json:"user_id"`
}

func setupRouterTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT: config.JWTConfig{
			SecretKey:          "router-test-secret",
			Issuer:             "onlinestore-test",
			AccessTokenMinutes: 20,
			RefreshTokenDays:   7,
		},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:      6,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		},
		Admin: config.AdminConfig{
			Email:    testAdminEmail,
			Password: testAdminPassword,
			FullName: "Store Admin",
		},
	}
	container := provider.NewContainer(cfg)
	t.Cleanup(container.Close)
	return SetupRouter(cfg, container)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env apiEnvelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s failed: %v body=%s", method, path, err, w.Body.String())
		}
	}
	return w, env
}

func decodeData(t *testing.T, env apiEnvelope, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data failed: %v data=%s", err, string(env.Data))
	}
}

func registerCustomer(t *testing.T, r *gin.Engine, email string) authPayload {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/Auth/register", "", gin.H{
		"full_name":        "Jane Customer",
		"email":            email,
		"password":         "secret1!",
		"confirm_password": "secret1!",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register status want 201 got %d body=%s", w.Code, w.Body.String())
	}
	var auth authPayload
	decodeData(t, env, &auth)
	return auth
}

func loginAdmin(t *testing.T, r *gin.Engine) authPayload {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/api/Auth/login", "", gin.H{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin login status want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var auth authPayload
	decodeData(t, env, &auth)
	if auth.Role != "admin" {
		t.Fatalf("admin role want admin got %s", auth.Role)
	}
	return auth
}

func TestStorefrontCheckoutFlow(t *testing.T) {
	r := setupRouterTestEngine(t)
	admin := loginAdmin(t, r)
	customer := registerCustomer(t, r, "jane@example.com")
	if customer.Role != "customer" || customer.Token == "" || customer.RefreshToken == "" {
		t.Fatalf("unexpected register payload: %+v", customer)
	}

	w, env := doJSON(t, r, http.MethodPost, "/api/Categories", admin.Token, gin.H{"name": "Games"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category want 201 got %d body=%s", w.Code, w.Body.String())
	}
	var category struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &category)

	w, env = doJSON(t, r, http.MethodPost, "/api/Products", admin.Token, gin.H{
		"name":           "Chess Set",
		"price":          "19.99",
		"stock_quantity": 5,
		"category_id":    category.ID,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create product want 201 got %d body=%s", w.Code, w.Body.String())
	}
	var product struct {
		ID           uint   `json:"id"`
		CategoryName string `json:"category_name"`
	}
	decodeData(t, env, &product)
	if product.CategoryName != "Games" {
		t.Fatalf("category name want Games got %s", product.CategoryName)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/Products", customer.Token, gin.H{
		"name":        "Forbidden",
		"price":       "1.00",
		"category_id": category.ID,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer create product want 403 got %d", w.Code)
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/Products?q=chess", "", nil)
	if w.Code != http.StatusOK || env.Pagination.Total != 1 {
		t.Fatalf("public product list want 1 item got status=%d total=%d", w.Code, env.Pagination.Total)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/Cart", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous cart want 401 got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/Cart/items", customer.Token, gin.H{"product_id": product.ID, "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("add cart item want 200 got %d body=%s", w.Code, w.Body.String())
	}
	w, env = doJSON(t, r, http.MethodPost, "/api/Cart/items", customer.Token, gin.H{"product_id": product.ID, "quantity": 9})
	if w.Code != http.StatusConflict {
		t.Fatalf("over-stock add want 409 got %d", w.Code)
	}
	if env.Msg != "Insufficient stock for product Chess Set." {
		t.Fatalf("unexpected stock message: %s", env.Msg)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/Orders/checkout", customer.Token, gin.H{"shipping_address": "short"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short address want 400 got %d", w.Code)
	}

	w, env = doJSON(t, r, http.MethodPost, "/api/Orders/checkout", customer.Token, gin.H{"shipping_address": "1 Main Street, Springfield"})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout want 201 got %d body=%s", w.Code, w.Body.String())
	}
	var order struct {
		ID          uint   `json:"id"`
		Status      string `json:"status"`
		TotalAmount string `json:"total_amount"`
		Items       []struct {
			ProductName string `json:"product_name"`
			Quantity    int    `json:"quantity"`
		} `json:"items"`
	}
	decodeData(t, env, &order)
	if order.TotalAmount != "39.98" || order.Status != "pending" || len(order.Items) != 1 {
		t.Fatalf("unexpected order: %+v", order)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/Orders/checkout", customer.Token, gin.H{"shipping_address": "1 Main Street, Springfield"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty cart checkout want 400 got %d", w.Code)
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/Orders/my?pageNumber=1&pageSize=5", customer.Token, nil)
	if w.Code != http.StatusOK || env.Pagination.Total != 1 {
		t.Fatalf("my orders want 1 got status=%d total=%d", w.Code, env.Pagination.Total)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/Orders/admin", customer.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer admin orders want 403 got %d", w.Code)
	}
	w, env = doJSON(t, r, http.MethodGet, "/api/Orders/admin?email=JANE", admin.Token, nil)
	if w.Code != http.StatusOK || env.Pagination.Total != 1 {
		t.Fatalf("admin orders want 1 got status=%d total=%d", w.Code, env.Pagination.Total)
	}
	var adminOrders []struct {
		CustomerEmail string `json:"customer_email"`
	}
	decodeData(t, env, &adminOrders)
	if len(adminOrders) != 1 || adminOrders[0].CustomerEmail != "jane@example.com" {
		t.Fatalf("admin order should carry customer email: %+v", adminOrders)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/api/Orders/admin?dateFrom=2024-13-01", admin.Token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date want 400 got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/Products/%d", product.ID), admin.Token, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("delete ordered product want 409 got %d", w.Code)
	}
}

func TestRefreshTokenSingleUseOverHTTP(t *testing.T) {
	r := setupRouterTestEngine(t)
	customer := registerCustomer(t, r, "rotate@example.com")

	w, env := doJSON(t, r, http.MethodPost, "/api/Auth/refresh", "", gin.H{"refresh_token": customer.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("first refresh want 200 got %d body=%s", w.Code, w.Body.String())
	}
	var rotated authPayload
	decodeData(t, env, &rotated)
	if rotated.RefreshToken == "" || rotated.RefreshToken == customer.RefreshToken {
		t.Fatalf("refresh should rotate token")
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/Auth/refresh", "", gin.H{"refresh_token": customer.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("reused refresh want 401 got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/Auth/logout", "", gin.H{"refresh_token": rotated.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("logout want 200 got %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodPost, "/api/Auth/refresh", "", gin.H{"refresh_token": rotated.RefreshToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout want 401 got %d", w.Code)
	}
}

func TestProfileAndLoginAudit(t *testing.T) {
	r := setupRouterTestEngine(t)
	customer := registerCustomer(t, r, "audit@example.com")

	w, env := doJSON(t, r, http.MethodGet, "/api/Auth/profile", customer.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("profile want 200 got %d", w.Code)
	}
	var profile struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
		Role     string `json:"role"`
	}
	decodeData(t, env, &profile)
	if profile.Email != "audit@example.com" || profile.Role != "customer" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/Auth/login", "", gin.H{"email": "audit@example.com", "password": "wrong-pass1!"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login want 401 got %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/Admin/login-logs", customer.Token, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("customer login logs want 403 got %d", w.Code)
	}

	admin := loginAdmin(t, r)
	w, env = doJSON(t, r, http.MethodGet, "/api/Admin/login-logs?email=audit@example.com&status=failed", admin.Token, nil)
	if w.Code != http.StatusOK || env.Pagination.Total != 1 {
		t.Fatalf("failed login log want 1 got status=%d total=%d", w.Code, env.Pagination.Total)
	}

	w, env = doJSON(t, r, http.MethodGet, "/api/Admin/permissions", admin.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("permission catalog want 200 got %d", w.Code)
	}
	var catalog []permissionCatalogItem
	decodeData(t, env, &catalog)
	byPermission := make(map[string]permissionCatalogItem, len(catalog))
	for _, item := range catalog {
		byPermission[item.Permission] = item
	}
	if item, ok := byPermission["POST:/orders/checkout"]; !ok || item.SkipAuthz || item.Module != "orders" ||
		strings.Join(item.Roles, ",") != "admin,customer" {
		t.Fatalf("unexpected checkout entry: %+v ok=%v", item, ok)
	}
	if item := byPermission["GET:/admin/login-logs"]; strings.Join(item.Roles, ",") != "admin" || item.Module != "login-logs" {
		t.Fatalf("unexpected login logs entry: %+v", item)
	}
	for _, anonymous := range []string{"POST:/auth/login", "GET:/products", "GET:/categories/:id"} {
		if item, ok := byPermission[anonymous]; !ok || !item.SkipAuthz || len(item.Roles) != 0 {
			t.Fatalf("anonymous route %s should be listed with skip_authz: %+v ok=%v", anonymous, item, ok)
		}
	}
	if item := byPermission["POST:/products"]; item.SkipAuthz {
		t.Fatalf("product creation must require authorization")
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := setupRouterTestEngine(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health want 200 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestDerivePermissionModule(t *testing.T) {
	cases := map[string]string{
		"/admin/login-logs":      "login-logs",
		"/orders/checkout":       "orders",
		"/cart/items/:productid": "cart",
		"/":                      "system",
	}
	for in, want := range cases {
		if got := derivePermissionModule(in); got != want {
			t.Fatalf("module for %s want %s got %s", in, want, got)
		}
	}
}
