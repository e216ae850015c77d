package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/agro_shop/internal/models"
	"github.com/Skotchmaster/agro_shop/internal/repo"
	"github.com/Skotchmaster/agro_shop/internal/service"
	"github.com/Skotchmaster/agro_shop/internal/session"
	"github.com/Skotchmaster/agro_shop/internal/testdb"
)

type testApp struct {
	e        *echo.Echo
	repo     *repo.GormRepo
	sessions *session.Manager
}

func newDeps(r *repo.GormRepo, sm *session.Manager) *Deps {
	return &Deps{
		Repo:      r,
		Sessions:  sm,
		Auth:      &service.AuthService{Repo: r},
		Catalog:   &service.CatalogService{Repo: r},
		Cart:      &service.CartService{Repo: r},
		Favorites: &service.FavoriteService{Repo: r},
		Orders:    &service.OrderService{Repo: r},
	}
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	r := repo.New(testdb.New(t), "")
	sm := session.NewManager([]byte("test-session-secret"), time.Hour, false)
	e := echo.New()
	Register(e, newDeps(r, sm))
	return &testApp{e: e, repo: r, sessions: sm}
}

// signIn stores a user and returns a session token for it.
func (a *testApp) signIn(t *testing.T, openID string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, a.repo.UpsertUser(ctx, repo.UpsertUserInput{OpenID: openID}))
	u, err := a.repo.GetUserByOpenID(ctx, openID)
	require.NoError(t, err)
	token, _, err := a.sessions.Issue(u)
	require.NoError(t, err)
	return u, token
}

func (a *testApp) product(t *testing.T, name, description string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:        name,
		Description: description,
		Category:    "machinery",
		Price:       models.MustMoney("1000.00"),
		Stock:       5,
		IsActive:    true,
	}
	require.NoError(t, a.repo.CreateProduct(context.Background(), p))
	return p
}

func (a *testApp) query(t *testing.T, proc, input, token string) *httptest.ResponseRecorder {
	t.Helper()
	target := RPCPrefix + "/" + proc
	if input != "" {
		target += "?input=" + url.QueryEscape(input)
	}
	return a.do(httptest.NewRequest(http.MethodGet, target, nil), token)
}

func (a *testApp) mutate(t *testing.T, proc, input, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, RPCPrefix+"/"+proc, strings.NewReader(input))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return a.do(req, token)
}

func (a *testApp) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

type result[T any] struct {
	Result *struct {
		Data T `json:"data"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
		Data    struct {
			Code       string `json:"code"`
			HTTPStatus int    `json:"httpStatus"`
			Path       string `json:"path"`
		} `json:"data"`
	} `json:"error"`
}

func data[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var r result[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	require.NotNil(t, r.Result, rec.Body.String())
	return r.Result.Data
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var r result[json.RawMessage]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r), rec.Body.String())
	require.NotNil(t, r.Error, rec.Body.String())
	return r.Error.Data.Code
}

func uintStr(v uint) string { return strconv.FormatUint(uint64(v), 10) }
