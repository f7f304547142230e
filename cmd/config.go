package cmd

type Config struct {
	HTTPPort        string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBSslMode       string
	JWTSecret       string
	LogLevel        string
	Environment     string
	StaleAfterHours int
}
