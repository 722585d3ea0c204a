package config

const (
	EnvPrefix = "GESTOR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:gestor.db?cache=shared&_fk=1"
)

const (
	EnvAppEnv      = "GESTOR_APP_ENV"
	EnvPort        = "GESTOR_APP_PORT"
	EnvDBDSN       = "GESTOR_DB_DSN"
	EnvDBDriver    = "GESTOR_DB_DRIVER"
	EnvDBHost      = "GESTOR_DB_HOST"
	EnvDBPort      = "GESTOR_DB_PORT"
	EnvDBUser      = "GESTOR_DB_USER"
	EnvDBPassword  = "GESTOR_DB_PASSWORD"
	EnvDBName      = "GESTOR_DB_NAME"
	EnvRedisURL    = "GESTOR_REDIS_URL"
	EnvJWTSecret   = "GESTOR_JWT_SECRET"
	EnvKafkaBroker = "GESTOR_KAFKA_BROKERS"
)

var dbPartEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
