package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	BaseURL     string
	APITimeout  time.Duration
	StorageDir  string
	LogLevel    string
	UserAgent   string
	GeocoderURL string

	PlatformOS      string
	PlatformVersion int
	DeviceLatitude  float64
	DeviceLongitude float64

	// Development backend.
	Port      string
	DBUrl     string
	JWTSecret string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not found, using environment and defaults")
	}

	return Config{
		BaseURL:         getString("BASE_URL", "http://localhost:8080"),
		APITimeout:      getDuration("API_TIMEOUT", 10*time.Second),
		StorageDir:      getString("STORAGE_DIR", defaultStorageDir()),
		LogLevel:        getString("LOG_LEVEL", "info"),
		UserAgent:       getString("USER_AGENT", "FoodApp/1.0"),
		GeocoderURL:     getString("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		PlatformOS:      getString("PLATFORM_OS", "android"),
		PlatformVersion: getInt("PLATFORM_VERSION", 34),
		DeviceLatitude:  getFloat("DEVICE_LAT", 0),
		DeviceLongitude: getFloat("DEVICE_LON", 0),
		Port:            getString("PORT", "8080"),
		DBUrl:           os.Getenv("DB_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
	}
}

func defaultStorageDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".foodapp"
	}
	return dir + string(os.PathSeparator) + "foodapp"
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
