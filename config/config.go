package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config stores the application configuration. Everything comes from the
// environment; the database schema, library tree and identity provider are
// all owned by the wider radio-station system, so nothing is persisted
// locally beyond these pointers at it.
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis (session store)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// SessionSecret signs the session cookie. SessionMaxAge is in seconds.
	SessionSecret string
	SessionMaxAge int

	// LibraryRoot is the base directory of the scanned music library.
	// Removed songs are relocated under LibraryRoot/removed.
	LibraryRoot string

	// OAuth / identity provider (Discord guild-membership check).
	OpenIDClientID     string
	OpenIDClientSecret string
	DiscordAPIBase     string
	DiscordGuildID     string
	DiscordStaffRoleID string

	// Bluesky posting credentials (password grant against the PDS host).
	BskyHandle   string
	BskyPassword string
	BskyPDSHost  string

	// OCRemixCatalogURL is the base URL of the public remix catalog.
	OCRemixCatalogURL string

	// Scheme is the preferred URL scheme for externally visible URLs
	// (the OAuth redirect URI in particular).
	Scheme string
	Port   int

	LogPath  string
	LogLevel string
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value.
func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// Load loads configuration from environment variables (via .env file) or defaults.
func Load() *Config {
	// godotenv.Load() will not override existing env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on existing environment variables and defaults.")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "127.0.0.1"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "rainwave"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "rainwave"),

		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionMaxAge: getEnvInt("SESSION_MAX_AGE", 30*24*60*60),

		LibraryRoot: getEnv("LIBRARY_ROOT", "/srv/music"),

		OpenIDClientID:     os.Getenv("OPENID_CLIENT_ID"),
		OpenIDClientSecret: os.Getenv("OPENID_CLIENT_SECRET"),
		DiscordAPIBase:     getEnv("DISCORD_API_BASE", "https://discord.com"),
		DiscordGuildID:     os.Getenv("DISCORD_GUILD_ID"),
		DiscordStaffRoleID: os.Getenv("DISCORD_ROLE_ID_STAFF"),

		BskyHandle:   os.Getenv("BSKY_HANDLE"),
		BskyPassword: os.Getenv("BSKY_PASSWORD"),
		BskyPDSHost:  getEnv("BSKY_PDS_HOST", "https://bsky.social"),

		OCRemixCatalogURL: getEnv("OCREMIX_CATALOG_URL", "https://williamjacksn.github.io/ocremix-data"),

		Scheme: getEnv("SCHEME", "https"),
		Port:   getEnvInt("PORT", 8080),

		LogPath:  getEnv("LOG_PATH", ""),
		LogLevel: getEnv("LOG_LEVEL", "debug"),
	}
}
