package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Kafka         KafkaConfig
	Reports       ReportsConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"GESTOR_APP_ENV" required:"true"`
	Port            string        `envconfig:"GESTOR_APP_PORT" default:"8000"`
	Version         string        `envconfig:"GESTOR_APP_VERSION" default:"1.0.0"`
	LogLevel        string        `envconfig:"GESTOR_LOG_LEVEL" default:"info"`
	LogWarnStack    bool          `envconfig:"GESTOR_LOG_WARN_STACK" default:"false"`
	ReadTimeout     time.Duration `envconfig:"GESTOR_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"GESTOR_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"GESTOR_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GESTOR_DB_DSN"`
	Driver string `envconfig:"GESTOR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GESTOR_DB_HOST"`
	Port     int    `envconfig:"GESTOR_DB_PORT"`
	User     string `envconfig:"GESTOR_DB_USER"`
	Password string `envconfig:"GESTOR_DB_PASSWORD"`
	Name     string `envconfig:"GESTOR_DB_NAME"`
	SSLMode  string `envconfig:"GESTOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GESTOR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GESTOR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GESTOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GESTOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// NormalizedDriver lower-cases the driver and maps common aliases.
func (db DBConfig) NormalizedDriver() string {
	switch d := strings.ToLower(strings.TrimSpace(db.Driver)); d {
	case "", "postgresql", "pg":
		return DriverPostgres
	case "mariadb":
		return DriverMySQL
	case "sqlite3":
		return DriverSQLite
	default:
		return d
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"GESTOR_REDIS_URL"`
	Address      string        `envconfig:"GESTOR_REDIS_ADDR"`
	Password     string        `envconfig:"GESTOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"GESTOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GESTOR_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GESTOR_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GESTOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GESTOR_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"GESTOR_REDIS_WRITE_TIMEOUT" default:"3s"`
}

// Enabled reports whether any redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"GESTOR_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GESTOR_JWT_ISSUER" default:"gestor-pedidos"`
	ExpirationMinutes int    `envconfig:"GESTOR_JWT_EXPIRATION_MINUTES" default:"480"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GESTOR_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GESTOR_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GESTOR_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GESTOR_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GESTOR_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow    time.Duration `envconfig:"GESTOR_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit int           `envconfig:"GESTOR_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit   int           `envconfig:"GESTOR_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type KafkaConfig struct {
	Brokers    []string `envconfig:"GESTOR_KAFKA_BROKERS"`
	Topic      string   `envconfig:"GESTOR_KAFKA_TOPIC" default:"gestor.pedidos"`
	BufferSize int      `envconfig:"GESTOR_KAFKA_BUFFER_SIZE" default:"256"`
}

// Enabled reports whether at least one broker was configured.
func (k KafkaConfig) Enabled() bool {
	for _, b := range k.Brokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}

type ReportsConfig struct {
	CriticalCacheTTL time.Duration `envconfig:"GESTOR_REPORTS_CRITICAL_CACHE_TTL" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate           bool `envconfig:"GESTOR_AUTO_MIGRATE" default:"false"`
	AtomicOrders          bool `envconfig:"GESTOR_FEATURE_ATOMIC_ORDERS" default:"true"`
	GuardedStockDecrement bool `envconfig:"GESTOR_FEATURE_GUARDED_STOCK_DECREMENT" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	driver := db.NormalizedDriver()
	if driver == DriverSQLite {
		db.DSN = defaultSQLiteDSN
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range dbPartEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	switch driver {
	case DriverPostgres:
		db.DSN = db.postgresURL()
	case DriverMySQL:
		db.DSN = db.mysqlDSN()
	default:
		return fmt.Errorf("unsupported %s %q", EnvDBDriver, db.Driver)
	}
	return nil
}

func (db *DBConfig) postgresURL() string {
	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}
	port := db.Port
	if port == 0 {
		port = 5432
	}
	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   db.Host + ":" + strconv.Itoa(port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (db *DBConfig) mysqlDSN() string {
	port := db.Port
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = db.User
	cfg.Passwd = db.Password
	cfg.Net = "tcp"
	cfg.Addr = db.Host + ":" + strconv.Itoa(port)
	cfg.DBName = db.Name
	cfg.ParseTime = true
	cfg.Loc = time.Local
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}
