package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	DB   DBConfig
	JWT  JWTConfig
	Odoo OdooConfig
	POS  POSConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig configuración de PostgreSQL (persistencia durable de carritos).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN construye el connection string con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig configuración de JWT.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
}

// OdooConfig configuración del backend de ventas (JSON-RPC).
type OdooConfig struct {
	URL            string // endpoint JSON-RPC, ej. https://erp.example.com/jsonrpc
	Database       string
	Username       string
	APIKey         string
	TimeoutSeconds int // timeout por llamada remota
}

// DeviceUser usuario de dispositivo POS (cajero/vendedor). El password va
// hasheado con bcrypt; la bodega del usuario es el primer fallback de
// warehouse_id al colocar órdenes.
type DeviceUser struct {
	Username        string `json:"username"`
	Name            string `json:"name"`
	PasswordHash    string `json:"password_hash"`
	SalesPersonID   string `json:"sales_person_id"`
	SalesPersonName string `json:"sales_person_name"`
	WarehouseID     string `json:"warehouse_id"`
}

// POSConfig configuración propia del punto de venta.
type POSConfig struct {
	DefaultWarehouseID string // último fallback de warehouse_id
	Currency           string // código de moneda para montos formateados
	DisplayDecimals    int    // precisión de presentación (el motor no redondea)
	Users              []DeviceUser
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, HTTP_PORT, ODOO_URL, POS_USERS, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	users, err := parseUsers(getString(v, "POS_USERS", "[]"))
	if err != nil {
		return nil, fmt.Errorf("POS_USERS inválido: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "salesorderandpos"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "salesorderandpos"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "salesorderandpos"),
		},
		Odoo: OdooConfig{
			URL:            getString(v, "ODOO_URL", ""),
			Database:       getString(v, "ODOO_DATABASE", ""),
			Username:       getString(v, "ODOO_USERNAME", ""),
			APIKey:         getString(v, "ODOO_API_KEY", ""),
			TimeoutSeconds: getInt(v, "ODOO_TIMEOUT_SECONDS", 30),
		},
		POS: POSConfig{
			DefaultWarehouseID: getString(v, "POS_DEFAULT_WAREHOUSE_ID", "1"),
			Currency:           getString(v, "POS_CURRENCY", "AED"),
			DisplayDecimals:    getInt(v, "POS_DISPLAY_DECIMALS", 3),
			Users:              users,
		},
	}

	return cfg, nil
}

// parseUsers decodifica la lista de usuarios de dispositivo desde JSON.
func parseUsers(raw string) ([]DeviceUser, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var users []DeviceUser
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
