package configs

import (
	"os"

	"github.com/joho/godotenv"
)

// Load reads .env into the process environment. A missing file is fine in
// production where everything comes from the real environment.
func Load() {
	_ = godotenv.Load()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func EnvMongoURI() string {
	return getEnv("MONGO_URI", "mongodb://localhost:27017")
}

func EnvDBName() string {
	return getEnv("DB_NAME", "ambika")
}

func EnvPort() string {
	return getEnv("PORT", "5000")
}

func EnvAppEnv() string {
	return getEnv("APP_ENV", "development")
}

func EnvJWTSecret() string {
	return getEnv("JWT_SECRET", "")
}

func EnvStripeSecretKey() string {
	return getEnv("STRIPE_SECRET_KEY", "")
}

func EnvStripeWebhookSecret() string {
	return getEnv("STRIPE_WEBHOOK_SECRET", "")
}

func EnvRazorpayKeyId() string {
	return getEnv("RAZORPAY_KEY_ID", "")
}

func EnvRazorpayKeySecret() string {
	return getEnv("RAZORPAY_KEY_SECRET", "")
}

func EnvMerchantUPIId() string {
	return getEnv("MERCHANT_UPI_ID", "")
}

func EnvMerchantName() string {
	return getEnv("MERCHANT_NAME", "Ambika International")
}

func EnvFrontendURL() string {
	return getEnv("FRONTEND_URL", "http://localhost:3000")
}

// EnvRedisAddr is optional; an empty value disables the redis-backed cache.
func EnvRedisAddr() string {
	return getEnv("REDIS_ADDR", "")
}
