package config

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	Env          string
	JWTSecret    string

	RequestTimeout time.Duration

	Storage StorageConfig

	SendgridAPIKey string
	MailFrom       string

	KafkaBrokers string
	KafkaTopic   string

	// AuditSchedule is the cron spec for the mirror divergence scan. Empty disables it.
	AuditSchedule string

	// EnforcePendingTransitions rejects reschedule, cancel and prescription
	// attachment on appointments that are no longer pending.
	EnforcePendingTransitions bool
	// EnforceDoctorAvailability rejects bookings outside the doctor's enabled slots
	EnforceDoctorAvailability bool
	// AdminMirrorAppendProfiles keeps the legacy behaviour of pushing a fresh
	// nested profile copy on every profile update instead of replacing it.
	AdminMirrorAppendProfiles bool
}

// StorageConfig holds the object storage settings
type StorageConfig struct {
	Backend       string
	Host          string
	Zone          string
	AccessKey     string
	PublicHost    string
	CloudinaryURL string
}

// New sets up all config related services
func New() *Config {
	// a missing .env file is normal outside local development
	_ = godotenv.Load()

	env := os.Getenv("ENV")
	logger, err := setLogger(env)
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:                       os.Getenv("DB_URI"),
		DatabaseName:              os.Getenv("DB_NAME"),
		BaseURL:                   os.Getenv("BASE_URL"),
		Port:                      os.Getenv("PORT"),
		Env:                       env,
		JWTSecret:                 os.Getenv("JWT_SECRET"),
		RequestTimeout:            durationEnv("REQUEST_TIMEOUT", 30*time.Second),
		SendgridAPIKey:            os.Getenv("SENDGRID_API_KEY"),
		MailFrom:                  getEnv("MAIL_FROM", "no-reply@telehealth.app"),
		KafkaBrokers:              os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:                getEnv("KAFKA_TOPIC", "propagation"),
		AuditSchedule:             os.Getenv("AUDIT_SCHEDULE"),
		EnforcePendingTransitions: boolEnv("ENFORCE_PENDING_TRANSITIONS", false),
		EnforceDoctorAvailability: boolEnv("ENFORCE_DOCTOR_AVAILABILITY", false),
		AdminMirrorAppendProfiles: boolEnv("ADMIN_MIRROR_APPEND_PROFILES", false),
		Storage: StorageConfig{
			Backend:       getEnv("STORAGE_BACKEND", "bunny"),
			Host:          getEnv("STORAGE_HOST", "storage.bunnycdn.com"),
			Zone:          os.Getenv("STORAGE_ZONE"),
			AccessKey:     os.Getenv("STORAGE_ACCESS_KEY"),
			PublicHost:    os.Getenv("STORAGE_PUBLIC_HOST"),
			CloudinaryURL: os.Getenv("CLOUDINARY_URL"),
		},
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().Errorw(message, "status", httpStatusCode, "error", err)
	w.WriteHeader(httpStatusCode)
	body := map[string]string{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	_ = json.NewEncoder(w).Encode(body)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
