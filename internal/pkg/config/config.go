package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Payment  PaymentConfig
	Broker   BrokerConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"25200"` // 7*60*60
}

type JWTConfig struct {
	Secret              string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration string `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"24h"`
}

// CheckoutConfig carries the storefront pricing policy knobs.
type CheckoutConfig struct {
	ShippingFlatCents int64 `envconfig:"SHIPPING_FLAT_CENTS" default:"30000"`
	// PromotionTable maps promotion codes to percent discounts, e.g. "SAVE10:10,SAVE20:20"
	PromotionTable map[string]string `envconfig:"PROMOTION_TABLE" default:""`
}

// PaymentConfig holds per-provider shared secrets and endpoints.
// Secrets are optional at startup; a provider without one refuses to build
// redirects at call time and the checkout degrades to the fallback URL.
type PaymentConfig struct {
	BaseReturnURL string `envconfig:"PAYMENT_BASE_RETURN_URL" default:"http://localhost:8080/api/payments/callback"`

	VNPayTmnCode    string `envconfig:"VNPAY_TMN_CODE" default:""`
	VNPayHashSecret string `envconfig:"VNPAY_HASH_SECRET" default:""`
	VNPayPayURL     string `envconfig:"VNPAY_PAY_URL" default:"https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"`

	MomoPartnerCode string `envconfig:"MOMO_PARTNER_CODE" default:""`
	MomoAccessKey   string `envconfig:"MOMO_ACCESS_KEY" default:""`
	MomoSecretKey   string `envconfig:"MOMO_SECRET_KEY" default:""`
	MomoEndpoint    string `envconfig:"MOMO_ENDPOINT" default:"https://test-payment.momo.vn/v2/gateway/api/create"`
}

type BrokerConfig struct {
	URL      string `envconfig:"BROKER_URL" default:""`
	Exchange string `envconfig:"BROKER_EXCHANGE" default:"storefront_events"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Ho_Chi_Minh",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Ho_Chi_Minh",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 25200,
		},
		Checkout: CheckoutConfig{
			ShippingFlatCents: 30000,
			PromotionTable:    map[string]string{"SAVE10": "10"},
		},
	}
}
