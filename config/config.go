package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode         string `mapstructure:"mode"`
	Repositories struct {
		Postgres struct {
			Host              string `mapstructure:"host"`
			Password          string `mapstructure:"password"`
			Port              string `mapstructure:"port"`
			Username          string `mapstructure:"username"`
			DB                string `mapstructure:"db"`
			SSLMODE           string `mapstructure:"SSLMODE"`
			MAXCONWAITINGTIME int    `mapstructure:"MAXCONWAITINGTIME"`
		} `mapstructure:"postgres"`
		Redis struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"repositories"`
	Server struct {
		HTTPPort       string        `mapstructure:"HTTPPort"`
		Timeout        time.Duration `mapstructure:"HTTPTimeout"`
		ReadTimeout    time.Duration `mapstructure:"readTimeout"`
		WriteTimeout   time.Duration `mapstructure:"writeTimeout"`
		AllowedOrigins []string      `mapstructure:"allowedOrigins"`
		RateLimit      int           `mapstructure:"rateLimit"`
	} `mapstructure:"server"`
	Providers Providers `mapstructure:"providers"`
	Identity  Identity  `mapstructure:"identity"`
	Cache     struct {
		GeocodeTTL     time.Duration `mapstructure:"geocodeTTL"`
		PlaceSearchTTL time.Duration `mapstructure:"placeSearchTTL"`
	} `mapstructure:"cache"`
}

// Providers holds the credentials and endpoints of every outbound service.
// It is passed by value into the clients; nothing reads provider settings
// from the environment after startup.
type Providers struct {
	GoogleMaps struct {
		APIKey   string        `mapstructure:"apiKey"`
		BaseURL  string        `mapstructure:"baseURL"`
		Language string        `mapstructure:"language"`
		Timeout  time.Duration `mapstructure:"timeout"`
	} `mapstructure:"googleMaps"`
	OpenAI struct {
		APIKey            string        `mapstructure:"apiKey"`
		BaseURL           string        `mapstructure:"baseURL"`
		Model             string        `mapstructure:"model"`
		RequestsPerSecond float64       `mapstructure:"requestsPerSecond"`
		Timeout           time.Duration `mapstructure:"timeout"`
	} `mapstructure:"openai"`
	Gemini struct {
		APIKey  string        `mapstructure:"apiKey"`
		Model   string        `mapstructure:"model"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"gemini"`
}

type Identity struct {
	ProjectID    string        `mapstructure:"projectID"`
	JWKSURL      string        `mapstructure:"jwksURL"`
	IssuerPrefix string        `mapstructure:"issuerPrefix"`
	KeysTTL      time.Duration `mapstructure:"keysTTL"`

	MinRefreshInterval time.Duration `mapstructure:"minRefreshInterval"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// PROVIDERS_OPENAI_APIKEY overrides providers.openai.apiKey, and so on.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	bindSecrets(v)

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	fmt.Println("Successfully loaded app configs...")
	return config, nil
}

// bindSecrets maps the conventional variable names from .env onto config keys.
func bindSecrets(v *viper.Viper) {
	_ = v.BindEnv("providers.googleMaps.apiKey", "GOOGLE_MAPS_API_KEY")
	_ = v.BindEnv("providers.openai.apiKey", "OPENAI_API_KEY")
	_ = v.BindEnv("providers.gemini.apiKey", "GOOGLE_GEMINI_API_KEY")
	_ = v.BindEnv("identity.projectID", "FIREBASE_PROJECT_ID")
	_ = v.BindEnv("repositories.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("repositories.redis.addr", "REDIS_ADDR")
}
