package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingToken indica que no hay token del bot ni en el YAML ni en el entorno.
var ErrMissingToken = errors.New("discord token is required (set DISCORD_TOKEN)")

// Config es la configuración completa del bot.
type Config struct {
	Refresh     RefreshConfig  `yaml:"refresh"`
	API         APIConfig      `yaml:"api"`
	CatalogFile string         `yaml:"catalog_file"` // vacío = catálogo por defecto
	Storage     StorageConfig  `yaml:"storage"`
	Discord     DiscordConfig  `yaml:"discord"`
	Sessions    SessionsConfig `yaml:"sessions"`
	HTTP        HTTPConfig     `yaml:"http"`
	Log         LogConfig      `yaml:"log"`
}

// RefreshConfig controla cada cuánto se vuelven a pedir precios.
type RefreshConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

// APIConfig contiene el acceso a la API de subastas.
type APIConfig struct {
	BaseURL           string  `yaml:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MaxRetries        *int    `yaml:"max_retries"` // nil = default; 0 desactiva reintentos
}

// StorageConfig controla dónde se persiste el último snapshot.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// DiscordConfig contiene las credenciales y el prefijo del bot.
type DiscordConfig struct {
	Token   string `yaml:"token"`
	GuildID string `yaml:"guild_id"` // vacío = comando global
	Prefix  string `yaml:"prefix"`
}

// SessionsConfig controla cuánto se puede reordenar un resultado.
type SessionsConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

// HTTPConfig controla la API de estado. Addr vacío la desactiva.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// Validate comprueba lo necesario para arrancar el bot de chat.
func (c *Config) Validate() error {
	if c.Discord.Token == "" {
		return fmt.Errorf("config.Validate: %w", ErrMissingToken)
	}
	return nil
}

// RefreshInterval devuelve el intervalo de refresco como time.Duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Refresh.IntervalSeconds) * time.Second
}

// APITimeout devuelve el timeout por petición.
func (c *Config) APITimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// SessionTTL devuelve cuánto vive una sesión de resultados.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Sessions.TTLMinutes) * time.Minute
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DISCORD_TOKEN"); v != "" {
		cfg.Discord.Token = v
	}
	if v := os.Getenv("DISCORD_GUILD_ID"); v != "" {
		cfg.Discord.GuildID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Refresh.IntervalSeconds <= 0 {
		cfg.Refresh.IntervalSeconds = 60
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://sky.coflnet.com/api/auctions/tag"
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 5
	}
	if cfg.API.RequestsPerSecond <= 0 {
		cfg.API.RequestsPerSecond = 10
	}
	if cfg.API.MaxRetries == nil || *cfg.API.MaxRetries < 0 {
		retries := 1
		cfg.API.MaxRetries = &retries
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "bingobot.db"
	}
	if cfg.Discord.Prefix == "" {
		cfg.Discord.Prefix = "!"
	}
	if cfg.Sessions.TTLMinutes <= 0 {
		cfg.Sessions.TTLMinutes = 15
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
