package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// CMS paths, relative to the CMS api prefix.
	LoginEndpoint    = "/auth/local"
	RegisterEndpoint = "/auth/local/register"
	JwtUserEndpoint  = "/users/me"

	// Keys of the browser-scoped slots, kept per session id.
	TokenSlotKey = "auth.jwt"
	CartSlotKey  = "cart"

	PlaceholderImage = "/placeholder.svg"
	DefaultTitle     = "No Title"
	DefaultDesc      = "No description available"
	NotAvailable     = "N/A"

	MaxPriceCeiling = 15000
	MinPriceCeiling = 1500

	DetailFetchRetries = 3
	DetailFetchDelay   = time.Second

	DATE_FORMAT       = "2006-01-02"
	TIME_PARSE_FORMAT = "2006-01-02 15:04:05 -07:00"
	// en-US numeric locale string with 2-digit hour and minute
	SUBMISSION_DATE_FORMAT = "1/2/2006, 03:04 PM"
)

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// CMSOrigin is the CMS base url, also used to absolutize media urls.
func CMSOrigin() string {
	return strings.TrimRight(getenv("STRAPI_URL", "http://localhost:1337"), "/")
}

// CMSBaseURL is the origin with the api prefix appended.
func CMSBaseURL() string {
	return CMSOrigin() + getenv("STRAPI_API_PREFIX", "/api")
}

func APIEnv() string {
	return getenv("API_ENV", "local")
}

func IsLocal() bool {
	return APIEnv() == "local"
}

func ServerPort() string {
	return getenv("PORT", "9090")
}

func CatalogRefreshInterval() time.Duration {
	return time.Duration(getenvInt("CATALOG_REFRESH_SECONDS", 300)) * time.Second
}

func CatalogCacheTTL() time.Duration {
	return time.Duration(getenvInt("CATALOG_CACHE_SECONDS", 600)) * time.Second
}

func SessionTTL() time.Duration {
	return time.Duration(getenvInt("SESSION_TTL_HOURS", 24)) * time.Hour
}

func HTTPTimeout() time.Duration {
	return time.Duration(getenvInt("CMS_TIMEOUT_SECONDS", 15)) * time.Second
}

func MailDriver() string {
	return getenv("MAIL_DRIVER", "")
}

func MailFrom() string {
	return getenv("MAIL_FROM", "bookings@localhost")
}

func MailFromName() string {
	return getenv("MAIL_FROM_NAME", "Tour Bookings")
}

func SlipBucket() string {
	return os.Getenv("S3_SLIP_BUCKET")
}

func PromptPayID() string {
	return os.Getenv("PROMPTPAY_ID")
}

func TempDir() string {
	return getenv("TEMP_DIR", os.TempDir())
}
