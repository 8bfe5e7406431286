package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/asset-tracker/internal/audit"
	"github.com/BruksfildServices01/asset-tracker/internal/auth"
	"github.com/BruksfildServices01/asset-tracker/internal/barcode"
	"github.com/BruksfildServices01/asset-tracker/internal/config"
	"github.com/BruksfildServices01/asset-tracker/internal/db/dbtest"
	"github.com/BruksfildServices01/asset-tracker/internal/mailer"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
	"github.com/BruksfildServices01/asset-tracker/internal/storage"
	"github.com/BruksfildServices01/asset-tracker/internal/validators"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) last() (mailer.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return mailer.Message{}, false
	}
	return m.sent[len(m.sent)-1], true
}

type testAPI struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	issuer *auth.Issuer
	mail   *fakeMailer
	store  *storage.Local
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validators.Register())

	conn := dbtest.New(t)

	cfg := &config.Config{
		App: config.AppConfig{AllowedOrigins: []string{"*"}},
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			Issuer:           "asset-tracker-test",
			AccessTTL:        time.Hour,
			RefreshTTL:       24 * time.Hour,
			PasswordResetTTL: time.Hour,
		},
		Mail: config.MailConfig{PasswordResetURL: "http://localhost:5000/reset-password"},
	}

	store, err := storage.NewLocal(t.TempDir(), "/media/")
	require.NoError(t, err)

	dispatcher := audit.NewDispatcher(audit.New(conn), zerolog.Nop())
	t.Cleanup(dispatcher.Close)

	api := &testAPI{
		t:      t,
		db:     conn,
		router: gin.New(),
		issuer: auth.NewIssuer(cfg.JWT),
		mail:   &fakeMailer{},
		store:  store,
	}

	RegisterRoutes(api.router, Deps{
		DB:        conn,
		Config:    cfg,
		Log:       zerolog.Nop(),
		Issuer:    api.issuer,
		Blacklist: auth.NewGormBlacklist(conn),
		Storage:   store,
		Mailer:    api.mail,
		Audit:     dispatcher,
		Barcodes:  barcode.NewGenerator(barcode.FormatPNG),
	})
	return api
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) token(u models.User) string {
	a.t.Helper()
	role := models.RoleUser
	if u.Profile != nil {
		role = u.Profile.Role
	}
	tok, err := a.issuer.IssueAccess(u.ID, role, time.Now())
	require.NoError(a.t, err)
	return tok
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type errorBody struct {
	Code string `json:"error_code"`
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	return decode[errorBody](t, w).Code
}
