package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/models"
	"github.com/forcosplay/costume-shop/internal/repo"
	"github.com/forcosplay/costume-shop/internal/service"
	"github.com/forcosplay/costume-shop/internal/testdb"
	middleware "github.com/forcosplay/costume-shop/pkg/middleware/auth"
	"github.com/forcosplay/costume-shop/pkg/tokens"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	E  *echo.Echo
	DB *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testdb.New(t)
	r := &repo.GormRepo{DB: db}
	now := service.Clock(func() time.Time { return time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC) })

	e := echo.New()
	Register(e, &Deps{
		CartHandler: &CartHTTP{
			Svc:      service.NewCartService(r, nil, nil),
			Payments: &service.PaymentService{Repo: r},
		},
		OrderHandler: &OrderHTTP{
			Checkout: &service.CheckoutService{Repo: r, Now: now},
			Rentals:  &service.RentalService{Repo: r, Now: now},
			Admin:    &service.OrderAdminService{Repo: r},
		},
		AccountHandler: &AccountHTTP{Svc: &service.AccountService{Repo: r, JWTSecret: testSecret}},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		Auth:           middleware.NewAuthMiddleware(testSecret, r),
	})
	return &testEnv{E: e, DB: db}
}

func (env *testEnv) token(t *testing.T, a *models.Account) string {
	t.Helper()
	tok, err := tokens.NewAccessToken(a.ID, a.Email, a.Name, a.Role, time.Now().Add(time.Hour), testSecret)
	require.NoError(t, err)
	return tok
}

func (env *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", "", "").Code)
}

func TestCart_RequiresToken(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/user/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	acc := testdb.Account(t, env.DB, "a@example.com", middleware.RoleUser)
	tok := env.token(t, acc)
	suit := testdb.Costume(t, env.DB, models.Costume{Name: "Suit", SalePrice: 300, RentalPrice: 40, Available: true, Quantity: 3})

	rec := env.do(t, http.MethodGet, "/api/user/cart", tok, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/cart", tok, `{"cart":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/cart", tok,
		`{"cart":[{"id":`+itoa(suit.ID)+`,"count":2,"size":"M","selectedPurchaseType":"PURCHASE"}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Add Cart Success", body["message"])
	assert.EqualValues(t, 600, body["totalPrice"])

	rec = env.do(t, http.MethodGet, "/api/user/cart", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.EqualValues(t, 600, body["cartTotal"])
	assert.Len(t, body["products"], 1)

	rec = env.do(t, http.MethodDelete, "/api/user/cart", tok, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/user/cart", tok, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no cart found", decode(t, rec)["message"])
}

func TestCart_UnavailableCostumeIs400(t *testing.T) {
	env := newTestEnv(t)
	acc := testdb.Account(t, env.DB, "a@example.com", middleware.RoleUser)
	hidden := testdb.Costume(t, env.DB, models.Costume{Name: "Hidden", SalePrice: 10, Available: false, Quantity: 3})

	rec := env.do(t, http.MethodPost, "/api/user/cart", env.token(t, acc),
		`{"cart":[{"id":`+itoa(hidden.ID)+`,"count":1}]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckout_StatusCodes(t *testing.T) {
	env := newTestEnv(t)
	acc := testdb.Account(t, env.DB, "a@example.com", middleware.RoleUser)
	tok := env.token(t, acc)
	witch := testdb.Costume(t, env.DB, models.Costume{Name: "Witch", SalePrice: 50, Available: true, Quantity: 1})

	rec := env.do(t, http.MethodPost, "/api/user/order", tok, `{"paymentIntent":{"id":"pi_1","amount":5000}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/cart", tok, `{"cart":[{"id":`+itoa(witch.ID)+`,"count":1}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, env.DB.Model(&models.Costume{}).Where("id = ?", witch.ID).Update("quantity", 0).Error)

	rec = env.do(t, http.MethodPost, "/api/user/order", tok, `{"paymentIntent":{"id":"pi_1","amount":5000}}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.NoError(t, env.DB.Model(&models.Costume{}).Where("id = ?", witch.ID).Update("quantity", 1).Error)
	rec = env.do(t, http.MethodPost, "/api/user/order", tok,
		`{"paymentIntent":{"id":"pi_1","amount":5000,"status":"succeeded","currency":"THB"}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Order placed successfully", body["message"])
	order := body["order"].(map[string]any)
	assert.Equal(t, "thb", order["currency"])

	rec = env.do(t, http.MethodGet, "/api/user/order", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["orders"], 1)
}

func TestRentals_ReturnAndAdminStatus(t *testing.T) {
	env := newTestEnv(t)
	acc := testdb.Account(t, env.DB, "a@example.com", middleware.RoleUser)
	other := testdb.Account(t, env.DB, "b@example.com", middleware.RoleUser)
	admin := testdb.Account(t, env.DB, "admin@example.com", middleware.RoleAdmin)
	tok := env.token(t, acc)
	cape := testdb.Costume(t, env.DB, models.Costume{Name: "Cape", SalePrice: 90, RentalPrice: 25, Available: true, Quantity: 2})

	rec := env.do(t, http.MethodGet, "/api/user/rentals", tok, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/cart", tok,
		`{"cart":[{"id":`+itoa(cape.ID)+`,"count":1,"selectedPurchaseType":"RENTAL","rentalDuration":3}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/user/order", tok, `{"paymentIntent":{"id":"pi_rent","amount":2500}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	orderID := uint(decode(t, rec)["order"].(map[string]any)["id"].(float64))

	rec = env.do(t, http.MethodGet, "/api/user/rentals", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rentals []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rentals))
	require.Len(t, rentals, 1)
	assert.Equal(t, "Cape", rentals[0]["product"])
	assert.Equal(t, domain.RentalStatusRented, rentals[0]["rentalStatus"])

	statusPath := "/api/user/rentals/" + itoa(orderID) + "/status"
	rec = env.do(t, http.MethodPut, statusPath, tok, `{"rentalStatus":"Overdue"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminTok := env.token(t, admin)
	rec = env.do(t, http.MethodPut, statusPath, adminTok, `{"rentalStatus":"Lost"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/return-rental", env.token(t, other), `{"orderId":`+itoa(orderID)+`}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/return-rental", tok, `{"orderId":999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/user/return-rental", tok, `{"orderId":`+itoa(orderID)+`}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, env.DB.Preload("Lines").First(&order, orderID).Error)
	assert.Equal(t, domain.OrderStatusReturned, order.Status)
	require.NotNil(t, order.Lines[0].RentalStatus)
	assert.Equal(t, domain.RentalStatusReturned, *order.Lines[0].RentalStatus)

	rec = env.do(t, http.MethodPut, statusPath, adminTok, `{"rentalStatus":"Rented"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["updated"])
}

func TestAccount_RegisterLoginAndAdminGate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/register", "", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/register", "", `{"name":"Ann","email":"ann@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/login", "", `{"email":"ann@example.com","password":"wrong!!"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/login", "", `{"email":"ann@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderSetCookie), "accessToken=")
	tok, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, tok)

	rec = env.do(t, http.MethodPost, "/api/current-user", tok, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/current-admin", tok, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/users", tok, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCatalog_AdminCRUD(t *testing.T) {
	env := newTestEnv(t)
	admin := testdb.Account(t, env.DB, "admin@example.com", middleware.RoleAdmin)
	user := testdb.Account(t, env.DB, "a@example.com", middleware.RoleUser)
	body := `{"name":"Pirate","description":"hat and coat","salePrice":120,"rentalPrice":30,"quantity":4}`

	rec := env.do(t, http.MethodPost, "/api/costumes", env.token(t, user), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	adminTok := env.token(t, admin)
	rec = env.do(t, http.MethodPost, "/api/costumes", adminTok, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := uint(decode(t, rec)["id"].(float64))

	rec = env.do(t, http.MethodGet, "/api/costume/"+itoa(id), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pirate", decode(t, rec)["name"])

	rec = env.do(t, http.MethodGet, "/api/costumes/10", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/costumes/search?q=pirate", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["total"])

	rec = env.do(t, http.MethodDelete, "/api/costume/"+itoa(id), adminTok, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/costume/"+itoa(id), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestUnknownAPIPathIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/no-such-route", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	user := testdb.Account(t, env.DB, "a@example.com", middleware.RoleUser)
	rec = env.do(t, http.MethodPost, "/api/user/nothing-here", env.token(t, user), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
