package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Gateway GatewayConfig
	Hive    HiveConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=hive_ai"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// GatewayConfig locates the messaging gateway connector.
type GatewayConfig struct {
	BaseURL string `env:"GATEWAY_URL, default=http://localhost:8090"`
	Token   string `env:"GATEWAY_TOKEN"`
}

// HiveConfig carries the role names, channel names, and sweep cadences the
// automation operates on. Protected roles are never stripped from a stored
// drone; the list is |-separated because role names may contain commas.
type HiveConfig struct {
	DroneRole      string   `env:"HIVE_DRONE_ROLE,      default=Drone"`
	StoredRole     string   `env:"HIVE_STORED_ROLE,     default=Stored"`
	ElevatedRole   string   `env:"HIVE_ELEVATED_ROLE,   default=Hive Mxtress"`
	ProtectedRoles []string `env:"HIVE_PROTECTED_ROLES, delimiter=|, default=Hive Mxtress|Moderation|@everyone|Nitro Booster|Patreon Supporters"`

	OrdersChannel   string `env:"HIVE_ORDERS_CHANNEL,   default=orders-reporting"`
	FacilityChannel string `env:"HIVE_FACILITY_CHANNEL, default=storage-facility"`
	ChambersChannel string `env:"HIVE_CHAMBERS_CHANNEL, default=storage-chambers"`

	OrderSweepInterval   time.Duration `env:"HIVE_ORDER_SWEEP_INTERVAL,   default=1m"`
	ReleaseSweepInterval time.Duration `env:"HIVE_RELEASE_SWEEP_INTERVAL, default=1m"`
	ReportInterval       time.Duration `env:"HIVE_REPORT_INTERVAL,        default=1h"`

	MessageWorkers int `env:"HIVE_MESSAGE_WORKERS, default=4"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
