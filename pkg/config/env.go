package config

const (
	EnvPrefix = "WESTWOOD"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv  = "WESTWOOD_APP_ENV"
	EnvAppPort = "WESTWOOD_APP_PORT"
	EnvDBDSN   = "WESTWOOD_DB_DSN"
	EnvDBHost  = "WESTWOOD_DB_HOST"
	EnvDBUser  = "WESTWOOD_DB_USER"
	EnvDBName  = "WESTWOOD_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
