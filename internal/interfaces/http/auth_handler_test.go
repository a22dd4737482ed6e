package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/AmalManoj-243/salesorderandpos/internal/application/auth"
	apphttp "github.com/AmalManoj-243/salesorderandpos/internal/interfaces/http"
	"github.com/AmalManoj-243/salesorderandpos/pkg/config"
	pkgjwt "github.com/AmalManoj-243/salesorderandpos/pkg/jwt"
)

func buildLoginApp(t *testing.T) *fiber.App {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave123"), bcrypt.MinCost)
	require.NoError(t, err)

	uc := auth.NewAuthUseCase([]config.DeviceUser{{
		Username:        "cajero1",
		Name:            "Cajero Uno",
		PasswordHash:    string(hash),
		SalesPersonID:   "7",
		SalesPersonName: "Cajero Uno",
		WarehouseID:     "W9",
	}}, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})

	app := fiber.New()
	app.Post("/api/auth/login", apphttp.NewAuthHandler(uc).Login)
	return app
}

func postLogin(t *testing.T, app *fiber.App, username, password string) *http.Response {
	t.Helper()
	raw, err := json.Marshal(fiber.Map{"username": username, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Credenciales correctas → token con los claims de sesión del usuario.
func TestLogin_Exitoso(t *testing.T) {
	app := buildLoginApp(t)
	resp := postLogin(t, app, "cajero1", "clave123")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Token       string `json:"token"`
		WarehouseID string `json:"warehouse_id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "W9", body.WarehouseID)

	claims, err := pkgjwt.Parse(testJWTSecret, body.Token)
	require.NoError(t, err)
	assert.Equal(t, "cajero1", claims.UserID)
	assert.Equal(t, "W9", claims.WarehouseID)
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	app := buildLoginApp(t)
	resp := postLogin(t, app, "cajero1", "mala")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_UsuarioDesconocido(t *testing.T) {
	app := buildLoginApp(t)
	resp := postLogin(t, app, "nadie", "clave123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogin_CamposVacios(t *testing.T) {
	app := buildLoginApp(t)
	resp := postLogin(t, app, "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
