package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/handler"
	"github.com/iliyamo/shop-backend/internal/mail"
	"github.com/iliyamo/shop-backend/internal/model"
	"github.com/iliyamo/shop-backend/internal/service"
	"github.com/iliyamo/shop-backend/internal/utils"
)

type userTable map[string]model.User

func (u userTable) FindByID(_ context.Context, id uint64) (model.User, error) {
	for _, x := range u {
		if x.ID == id {
			return x, nil
		}
	}
	return model.User{}, apperror.NotFound("user not found")
}

func (u userTable) FindByUsername(_ context.Context, name string) (model.User, error) {
	if x, ok := u[name]; ok {
		return x, nil
	}
	return model.User{}, apperror.NotFound("user not found")
}

type statsStub struct{ service.StatisticsStore }

func (statsStub) ClientSpending(context.Context) ([]model.ClientSpending, error) {
	c := model.Client{ID: 1, Name: "Ann", Surname: "Lee", Age: 30, Cash: decimal.NewFromInt(10)}
	return []model.ClientSpending{{Client: c, Total: decimal.NewFromInt(100)}}, nil
}

type fixture struct {
	srv    http.Handler
	tokens *service.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := utils.HashPassword("password1", 4)
	require.NoError(t, err)
	users := userTable{
		"worker": {ID: 1, Username: "worker", PasswordHash: hash, Enabled: true, Role: model.RoleWorker},
		"admin":  {ID: 2, Username: "admin", PasswordHash: hash, Enabled: true, Role: model.RoleAdmin},
	}
	tokens := service.NewTokenService(utils.NewTokenCodec([]byte("router-secret")), users, service.TokenConfig{
		AccessTTL: time.Minute, RefreshTTL: time.Hour, Prefix: "Bearer ",
	})
	e := New(Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(users, tokens), tokens, 86400),
		Users:    handler.NewUserHandler(service.NewUserService(nil, nil, mail.LogSender{}, service.UserConfig{})),
		Clients:  handler.NewClientHandler(service.NewClientService(nil)),
		Products: handler.NewProductHandler(service.NewProductService(nil)),
		Orders:   handler.NewOrderHandler(service.NewOrderService(nil, nil, nil)),
		Shop:     handler.NewShopHandler(service.NewShopService(statsStub{})),
	}, Options{Tokens: tokens})
	return &fixture{srv: e, tokens: tokens}
}

func (f *fixture) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) login(t *testing.T, username string) service.TokenPair {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/login", `{"username":"`+username+`","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorBody {
	t.Helper()
	var body handler.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestLoginSetsCookiesAndBody(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/login", `{"username":"worker","password":"password1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	require.Contains(t, cookies, handler.AccessTokenCookie)
	require.Contains(t, cookies, handler.RefreshTokenCookie)
	assert.Equal(t, pair.AccessToken, cookies[handler.AccessTokenCookie].Value)
	assert.Equal(t, 86400, cookies[handler.AccessTokenCookie].MaxAge)
	assert.Equal(t, http.SameSiteStrictMode, cookies[handler.RefreshTokenCookie].SameSite)
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/login", `{"username":"worker","password":"nope"}`, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "Bad credentials", body.Message)
	assert.Equal(t, "/login", body.Path)
	assert.Equal(t, http.StatusForbidden, body.Status)
	assert.Equal(t, "Forbidden", body.Error)
}

func TestShopRequiresAuthentication(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/shop/clients/top", "", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Full authentication is required to access this resource", decodeError(t, rec).Message)
}

func TestWorkerReadsShopButNotClients(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, "worker")

	rec := f.do(t, http.MethodGet, "/shop/clients/top", "", pair.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var clients []model.Client
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &clients))
	require.Len(t, clients, 1)
	assert.Equal(t, "Ann", clients[0].Name)

	rec = f.do(t, http.MethodGet, "/clients/1", "", pair.AccessToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access Denied", decodeError(t, rec).Message)
}

func TestInvalidTokenRejectedEvenOnPublicRoute(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", "garbage")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "JWT is malformed", decodeError(t, rec).Message)
}

func TestRefreshEndpoint(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, "admin")

	rec := f.do(t, http.MethodPost, "/users/login/refresh", `{"token":"`+pair.RefreshToken+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var next service.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &next))

	p, err := f.tokens.ParseAccessToken(context.Background(), "Bearer "+next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Username)
}

func TestCategoryFilterValidation(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, "worker")
	rec := f.do(t, http.MethodGet, "/shop/clients/top/category?category=", "", pair.AccessToken)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Category cannot be empty", decodeError(t, rec).Message)
}

func TestOperationalEndpoints(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = f.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shop_http_requests_total")
}

func TestUnknownRouteIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	pair := f.login(t, "admin")
	rec = f.do(t, http.MethodGet, "/nowhere", "", pair.AccessToken)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRefreshTokenIsNotABearerCredential(t *testing.T) {
	f := newFixture(t)
	pair := f.login(t, "worker")

	rec := f.do(t, http.MethodGet, "/shop/clients/top", "", pair.RefreshToken)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "refresh token cannot be used as an access token", decodeError(t, rec).Message)

	rec = f.do(t, http.MethodGet, "/shop/clients/top", "", pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
