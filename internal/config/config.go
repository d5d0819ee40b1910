package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Banco de dados
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis
	RedisHost     string
	RedisPort     int
	RedisPassword string

	// JWT
	JWTSecret string

	// API
	APIPort    int
	BaseDomain string
	AppURL     string

	// Asaas (gateway de pagamento)
	AsaasAPIKey string
	AsaasEnv    string // "sandbox" ou "producao"

	// Nuvem Fiscal
	NuvemFiscalClientID     string
	NuvemFiscalClientSecret string
	NuvemFiscalAmbiente     string // "homologacao" ou "producao"
}

// Load carrega .env (se existir) e monta a configuração a partir das
// variáveis de ambiente, com defaults de desenvolvimento.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Println("AVISO: JWT_SECRET não definida - sessões não sobrevivem a restarts")
	}
	if os.Getenv("ASAAS_API_KEY") == "" {
		log.Println("AVISO: ASAAS_API_KEY não definida - integração de pagamentos indisponível")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "thebest"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnvInt("REDIS_PORT", 6379),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: jwtSecret,

		APIPort:    getEnvInt("API_PORT", 8080),
		BaseDomain: getEnv("BASE_DOMAIN", "thebest.app.br"),
		AppURL:     getEnv("APP_URL", "http://localhost:8080"),

		AsaasAPIKey: os.Getenv("ASAAS_API_KEY"),
		AsaasEnv:    getEnv("ASAAS_ENV", "sandbox"),

		NuvemFiscalClientID:     os.Getenv("NUVEM_FISCAL_CLIENT_ID"),
		NuvemFiscalClientSecret: os.Getenv("NUVEM_FISCAL_CLIENT_SECRET"),
		NuvemFiscalAmbiente:     getEnv("NUVEM_FISCAL_AMBIENTE", "homologacao"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
