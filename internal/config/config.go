// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Dataset  DatasetConfig
	Database DatabaseConfig
	Weather  WeatherConfig
	Gemini   GeminiConfig
	Cache    CacheConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatasetConfig struct {
	// Backend selects where sales history is read from: "csv" or "postgres".
	Backend       string
	SalesFile     string
	InventoryFile string
	ModelsDir     string
	OutputDir     string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type WeatherConfig struct {
	APIKey         string
	BaseURL        string
	Latitude       float64
	Longitude      float64
	TimeoutSeconds int
}

type GeminiConfig struct {
	APIKey         string
	Model          string
	TimeoutSeconds int
}

type CacheConfig struct {
	Enabled           bool
	RedisURL          string
	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	WeatherTTLSeconds int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_READ_TIMEOUT", 15)
		viper.SetDefault("SERVER_WRITE_TIMEOUT", 30)
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("DATASET_BACKEND", "csv")
		viper.SetDefault("DATASET_SALES_FILE", "./data/daily_sales_dataset.csv")
		viper.SetDefault("DATASET_INVENTORY_FILE", "./data/inventory_batches.csv")
		viper.SetDefault("DATASET_MODELS_DIR", "./models")
		viper.SetDefault("DATASET_OUTPUT_DIR", "./output")
		viper.SetDefault("DB_HOST", "localhost")
		viper.SetDefault("DB_PORT", "5432")
		viper.SetDefault("DB_USER", "postgres")
		viper.SetDefault("DB_PASSWORD", "postgres")
		viper.SetDefault("DB_NAME", "wasteless")
		viper.SetDefault("DB_SSLMODE", "disable")
		viper.SetDefault("OPENWEATHER_API_KEY", "")
		viper.SetDefault("OPENWEATHER_BASE_URL", "https://api.openweathermap.org/data/2.5/forecast/daily")
		// Cambridge, Boston
		viper.SetDefault("WEATHER_LAT", 42.3736)
		viper.SetDefault("WEATHER_LON", -71.1097)
		viper.SetDefault("WEATHER_TIMEOUT_SECONDS", 10)
		viper.SetDefault("GEMINI_API_KEY", "")
		viper.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
		viper.SetDefault("GEMINI_TIMEOUT_SECONDS", 30)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_WEATHER_TTL_SECONDS", 3600)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_ACCESS_KEY", "")
		viper.SetDefault("STORAGE_SECRET_KEY", "")
		viper.SetDefault("STORAGE_BUCKET", "wasteless-data")
		viper.SetDefault("STORAGE_USE_SSL", true)

		// Read from environment variables
		viper.AutomaticEnv()

		ensureDir(viper.GetString("DATASET_OUTPUT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Dataset: DatasetConfig{
				Backend:       viper.GetString("DATASET_BACKEND"),
				SalesFile:     viper.GetString("DATASET_SALES_FILE"),
				InventoryFile: viper.GetString("DATASET_INVENTORY_FILE"),
				ModelsDir:     viper.GetString("DATASET_MODELS_DIR"),
				OutputDir:     viper.GetString("DATASET_OUTPUT_DIR"),
			},
			Database: DatabaseConfig{
				Host:     viper.GetString("DB_HOST"),
				Port:     viper.GetString("DB_PORT"),
				User:     viper.GetString("DB_USER"),
				Password: viper.GetString("DB_PASSWORD"),
				DBName:   viper.GetString("DB_NAME"),
				SSLMode:  viper.GetString("DB_SSLMODE"),
			},
			Weather: WeatherConfig{
				APIKey:         viper.GetString("OPENWEATHER_API_KEY"),
				BaseURL:        viper.GetString("OPENWEATHER_BASE_URL"),
				Latitude:       viper.GetFloat64("WEATHER_LAT"),
				Longitude:      viper.GetFloat64("WEATHER_LON"),
				TimeoutSeconds: viper.GetInt("WEATHER_TIMEOUT_SECONDS"),
			},
			Gemini: GeminiConfig{
				APIKey:         viper.GetString("GEMINI_API_KEY"),
				Model:          viper.GetString("GEMINI_MODEL"),
				TimeoutSeconds: viper.GetInt("GEMINI_TIMEOUT_SECONDS"),
			},
			Cache: CacheConfig{
				Enabled:           viper.GetBool("CACHE_ENABLED"),
				RedisURL:          viper.GetString("REDIS_URL"),
				RedisHost:         viper.GetString("REDIS_HOST"),
				RedisPort:         viper.GetString("REDIS_PORT"),
				RedisPassword:     viper.GetString("REDIS_PASSWORD"),
				RedisDB:           viper.GetInt("REDIS_DB"),
				WeatherTTLSeconds: viper.GetInt("CACHE_WEATHER_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
