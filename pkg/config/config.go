package config

import (
	"time"
)

type DB struct {
	// Driver is one of postgres, sqlite or memory.
	Driver string `envconfig:"DRIVER" default:"postgres"`
	Url    string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	TokenHeader string `envconfig:"TOKEN_HEADER" default:"x-access-token"`
	Jwt         *Jwt   `envconfig:"JWT"`
}

// Whitelist selects where issued session tokens are kept.
type Whitelist struct {
	Driver        string        `envconfig:"DRIVER" default:"database"`
	TTL           time.Duration `envconfig:"TTL" default:"24h"`
	SweepInterval time.Duration `envconfig:"SWEEP_INTERVAL" default:"1h"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	KeyPrefix    string        `envconfig:"KEY_PREFIX" default:"saveblue:"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

type Events struct {
	Driver       string `envconfig:"DRIVER" default:"memory"`
	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"saveblue.events"`
	SASLUsername string `envconfig:"KAFKA_SASL_USERNAME"`
	SASLPassword string `envconfig:"KAFKA_SASL_PASSWORD"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Taxonomy struct {
	// Path to a TOML category file. Empty uses the built-in taxonomy.
	Path string `envconfig:"PATH"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[saveblue]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	Whitelist *Whitelist `envconfig:"WHITELIST"`
	Redis     *Redis     `envconfig:"REDIS"`
	Events    *Events    `envconfig:"EVENTS"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Taxonomy  *Taxonomy  `envconfig:"TAXONOMY"`
}
