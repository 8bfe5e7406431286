package routes

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/asset-tracker/internal/db/dbtest"
	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

func registerBody(username, email, password, password2 string) map[string]any {
	return map[string]any{
		"username":   username,
		"email":      email,
		"password":   password,
		"password2":  password2,
		"first_name": "Jane",
		"last_name":  "Doe",
	}
}

type loginBody struct {
	Message string `json:"message"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Profile  struct {
			Role string `json:"role"`
		} `json:"profile"`
	} `json:"user"`
}

func TestRegisterCreatesUserWithProfile(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/auth/register/", "", registerBody("jane", "Jane@Example.com", "longpassword", "longpassword"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Registration successful")
	assert.NotContains(t, w.Body.String(), "password")

	var user models.User
	require.NoError(t, api.db.Preload("Profile").Where("username = ?", "jane").First(&user).Error)
	assert.Equal(t, "jane@example.com", user.Email)
	require.NotNil(t, user.Profile)
	assert.Equal(t, models.RoleUser, user.Profile.Role)
}

func TestRegisterRejectsPasswordMismatch(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/auth/register/", "", registerBody("jane", "jane@example.com", "longpassword", "different1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password_mismatch", errorCode(t, w))

	var count int64
	require.NoError(t, api.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	api := newTestAPI(t)
	dbtest.CreateUser(t, api.db, "taken", models.RoleUser, nil)

	w := api.do(http.MethodPost, "/api/auth/register/", "", registerBody("taken", "other@example.com", "longpassword", "longpassword"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "username_already_exists", errorCode(t, w))

	w = api.do(http.MethodPost, "/api/auth/register/", "", registerBody("fresh", "TAKEN@example.com", "longpassword", "longpassword"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email_already_exists", errorCode(t, w))
}

func TestRegisterRejectsUnknownDepartment(t *testing.T) {
	api := newTestAPI(t)

	body := registerBody("jane", "jane@example.com", "longpassword", "longpassword")
	body["department_id"] = 42

	w := api.do(http.MethodPost, "/api/auth/register/", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "department_not_found", errorCode(t, w))
}

func TestLoginWithUsernameOrEmail(t *testing.T) {
	api := newTestAPI(t)
	dbtest.CreateUser(t, api.db, "jdoe", models.RoleAdmin, nil)

	for _, login := range []string{"jdoe", "jdoe@example.com", "JDOE@Example.com"} {
		w := api.do(http.MethodPost, "/api/auth/login/", "", map[string]string{
			"username_or_email": login,
			"password":          dbtest.Password,
		})
		require.Equal(t, http.StatusOK, w.Code, login)

		body := decode[loginBody](t, w)
		assert.Equal(t, "Login successful", body.Message)
		assert.NotEmpty(t, body.Access)
		assert.NotEmpty(t, body.Refresh)
		assert.Equal(t, "jdoe", body.User.Username)
		assert.Equal(t, models.RoleAdmin, body.User.Profile.Role)
	}

	var user models.User
	require.NoError(t, api.db.Where("username = ?", "jdoe").First(&user).Error)
	assert.NotNil(t, user.LastLogin)
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	api := newTestAPI(t)
	u := dbtest.CreateUser(t, api.db, "jdoe", models.RoleUser, nil)

	cases := map[string]map[string]string{
		"wrong password": {"username_or_email": "jdoe", "password": "nope-nope"},
		"unknown user":   {"username_or_email": "ghost", "password": dbtest.Password},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/api/auth/login/", "", body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "invalid_credentials", errorCode(t, w))
		})
	}

	require.NoError(t, api.db.Model(&u).Update("is_active", false).Error)
	w := api.do(http.MethodPost, "/api/auth/login/", "", map[string]string{"username_or_email": "jdoe", "password": dbtest.Password})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func login(t *testing.T, api *testAPI, username string) loginBody {
	w := api.do(http.MethodPost, "/api/auth/login/", "", map[string]string{
		"username_or_email": username,
		"password":          dbtest.Password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[loginBody](t, w)
}

func TestLogoutBlacklistsRefreshToken(t *testing.T) {
	api := newTestAPI(t)
	dbtest.CreateUser(t, api.db, "jdoe", models.RoleUser, nil)
	tokens := login(t, api, "jdoe")

	w := api.do(http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": tokens.Refresh})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/auth/logout/", tokens.Access, map[string]string{"refresh_token": tokens.Refresh})
	assert.Equal(t, http.StatusResetContent, w.Code)

	w = api.do(http.MethodPost, "/api/auth/token/refresh/", "", map[string]string{"refresh": tokens.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token_blacklisted", errorCode(t, w))
}

func TestLogoutValidation(t *testing.T) {
	api := newTestAPI(t)
	dbtest.CreateUser(t, api.db, "jdoe", models.RoleUser, nil)
	dbtest.CreateUser(t, api.db, "other", models.RoleUser, nil)
	mine := login(t, api, "jdoe")
	theirs := login(t, api, "other")

	w := api.do(http.MethodPost, "/api/auth/logout/", mine.Access, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "refresh_token_required", errorCode(t, w))

	w = api.do(http.MethodPost, "/api/auth/logout/", mine.Access, map[string]string{"refresh_token": "garbage"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/auth/logout/", mine.Access, map[string]string{"refresh_token": theirs.Refresh})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/auth/logout/", "", map[string]string{"refresh_token": mine.Refresh})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	api := newTestAPI(t)
	u := dbtest.CreateUser(t, api.db, "jdoe", models.RoleUser, nil)

	w := api.do(http.MethodPost, "/api/auth/password-reset/", "", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user_not_found", errorCode(t, w))

	w = api.do(http.MethodPost, "/api/auth/password-reset/", "", map[string]string{"email": u.Email})
	require.Equal(t, http.StatusOK, w.Code)

	msg, ok := api.mail.last()
	require.True(t, ok)
	assert.Equal(t, u.Email, msg.To)

	link := extractLink(t, msg.Text)
	assert.True(t, strings.HasPrefix(link.String(), "http://localhost:5000/reset-password?"))
	uid, token := link.Query().Get("uid"), link.Query().Get("token")

	w = api.do(http.MethodPost, "/api/auth/password-reset/confirm/", "", map[string]string{
		"uid": uid, "token": token, "new_password": "brand-new-pass", "confirm_password": "mismatch-pass",
	})
	assert.Equal(t, "password_mismatch", errorCode(t, w))

	w = api.do(http.MethodPost, "/api/auth/password-reset/confirm/", "", map[string]string{
		"uid": "999", "token": token, "new_password": "brand-new-pass", "confirm_password": "brand-new-pass",
	})
	assert.Equal(t, "invalid_token", errorCode(t, w))

	w = api.do(http.MethodPost, "/api/auth/password-reset/confirm/", "", map[string]string{
		"uid": uid, "token": token, "new_password": "brand-new-pass", "confirm_password": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// the token is bound to the old password hash
	w = api.do(http.MethodPost, "/api/auth/password-reset/confirm/", "", map[string]string{
		"uid": uid, "token": token, "new_password": "another-pass", "confirm_password": "another-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_token", errorCode(t, w))

	w = api.do(http.MethodPost, "/api/auth/login/", "", map[string]string{"username_or_email": "jdoe", "password": "brand-new-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func extractLink(t *testing.T, text string) *url.URL {
	t.Helper()
	for _, field := range strings.Fields(text) {
		if strings.HasPrefix(field, "http") {
			u, err := url.Parse(field)
			require.NoError(t, err)
			return u
		}
	}
	t.Fatalf("no link in %q", text)
	return nil
}

func TestPasswordChange(t *testing.T) {
	api := newTestAPI(t)
	u := dbtest.CreateUser(t, api.db, "jdoe", models.RoleUser, nil)
	tok := api.token(u)

	w := api.do(http.MethodPost, "/api/auth/password-change/", tok, map[string]string{
		"old_password": "wrong-old", "new_password": "brand-new-pass", "confirm_password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "wrong_old_password", errorCode(t, w))

	w = api.do(http.MethodPost, "/api/auth/password-change/", tok, map[string]string{
		"old_password": dbtest.Password, "new_password": "brand-new-pass", "confirm_password": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/auth/login/", "", map[string]string{"username_or_email": "jdoe", "password": "brand-new-pass"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMeReturnsProfile(t *testing.T) {
	api := newTestAPI(t)
	dept := dbtest.CreateDepartment(t, api.db, "Finance")
	u := dbtest.CreateUser(t, api.db, "jdoe", models.RoleUser, &dept.ID)

	w := api.do(http.MethodGet, "/api/me", api.token(u), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"jdoe"`)
	assert.Contains(t, w.Body.String(), `"name":"Finance"`)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/me", "", nil).Code)
}
