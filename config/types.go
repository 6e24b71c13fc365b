package config

import "github.com/theoremus-urban-solutions/gtfs-insurance-advisor/risk"

// ServerConfig contains server configuration
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// GTFSConfig contains GTFS static feed configuration.
// StaticURL may be an http(s) URL, a zip file or a directory.
type GTFSConfig struct {
	StaticURL string `yaml:"staticURL"`
	AgencyID  string `yaml:"agency_id"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	TripUpdatesURL string `yaml:"tripUpdatesURL"`
	TimeoutMS      int    `yaml:"timeoutMS" validate:"gte=0"`
}

// DataConfig locates the flat files read by the serving path
type DataConfig struct {
	RiskTable     string `yaml:"riskTable" validate:"required"`
	PolicyCatalog string `yaml:"policyCatalog" validate:"required"`
	Lines         string `yaml:"lines" validate:"required"`
}

// LLMConfig describes the OpenAI-compatible chat completion endpoint
type LLMConfig struct {
	Endpoint    string  `yaml:"endpoint" validate:"required,url"`
	Model       string  `yaml:"model" validate:"required"`
	APIKey      string  `yaml:"apiKey"`
	MaxTokens   int     `yaml:"maxTokens" validate:"gt=0"`
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=2"`
	TimeoutMS   int     `yaml:"timeoutMS" validate:"gt=0"`
}

// RiskConfig controls risk table generation. Seed 0 means time-seeded jitter.
type RiskConfig struct {
	Seed   uint64      `yaml:"seed"`
	Params risk.Params `yaml:"params"`
}

// LoggingConfig sets the log level (debug, info, warn, error)
type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server" validate:"required"`
	GTFS    GTFSConfig    `yaml:"gtfs"`
	GTFSRT  GTFSRTConfig  `yaml:"gtfsrt"`
	Data    DataConfig    `yaml:"data"`
	LLM     LLMConfig     `yaml:"llm"`
	Risk    RiskConfig    `yaml:"risk"`
	Logging LoggingConfig `yaml:"logging"`
}

// Default returns the configuration used when no file overrides a field.
func Default() AppConfig {
	return AppConfig{
		Server: ServerConfig{Port: 8000},
		GTFS:   GTFSConfig{StaticURL: "gtfs"},
		GTFSRT: GTFSRTConfig{TimeoutMS: 10000},
		Data: DataConfig{
			RiskTable:     "data/route_probs.json",
			PolicyCatalog: "data/policies.json",
			Lines:         "data/lines.geojson",
		},
		LLM: LLMConfig{
			Endpoint:    "https://router.huggingface.co/v1/chat/completions",
			Model:       "HuggingFaceH4/zephyr-7b-beta",
			MaxTokens:   400,
			Temperature: 0.6,
			TimeoutMS:   20000,
		},
		Risk:    RiskConfig{Params: risk.DefaultParams()},
		Logging: LoggingConfig{Level: "info"},
	}
}
