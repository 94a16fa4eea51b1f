package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa a configuração da aplicação (leitura via Viper de env e opcionalmente arquivo).
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	NFe  NFeConfig
}

// AppConfig configuração geral da aplicação.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuração do cliente HTTP usado na comunicação com a SEFAZ.
type HTTPConfig struct {
	TimeoutSeconds int
}

// Timeout devolve o timeout do cliente HTTP.
func (c HTTPConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// NFeConfig configuração de emissão de NF-e/NFC-e.
type NFeConfig struct {
	UF               string // Sigla da UF do emitente. Ex: SP
	Ambiente         int    // 1 = Produção, 2 = Homologação
	Modelo           int    // 55 = NF-e, 65 = NFC-e
	CertPath         string // Caminho do certificado .p12/.pfx ou .pem
	CertKeyPath      string // Caminho da chave privada .pem (se CertPath for só o certificado)
	CertPassword     string // Senha do .p12
	CSC              string // Código de Segurança do Contribuinte (QR Code da NFC-e)
	CSCId            string // Identificador do CSC
	Contingencia     bool   // true = emite via SVC-AN quando a nota não fixa o tpEmis
	IBSCBSDesativado bool   // true = suprime o grupo IBSCBSTot antes da data de corte
}

// Load lê a configuração de variáveis de ambiente (e opcionalmente de arquivo).
// As env vars têm prioridade. Nomes esperados: APP_ENV, NFE_UF, NFE_CERT_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: arquivo de configuração (.env ou config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos erro se não existir

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos erro se não existir

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "dfe"),
			LogLevel: getString(v, "APP_LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: getInt(v, "HTTP_TIMEOUT_SECONDS", 60),
		},
		NFe: NFeConfig{
			UF:               getString(v, "NFE_UF", "SP"),
			Ambiente:         getInt(v, "NFE_AMBIENTE", 2),
			Modelo:           getInt(v, "NFE_MODELO", 55),
			CertPath:         getString(v, "NFE_CERT_PATH", ""),
			CertKeyPath:      getString(v, "NFE_CERT_KEY_PATH", ""),
			CertPassword:     getString(v, "NFE_CERT_PASSWORD", ""),
			CSC:              getString(v, "NFE_CSC", ""),
			CSCId:            getString(v, "NFE_CSC_ID", ""),
			Contingencia:     getBool(v, "NFE_CONTINGENCIA", false),
			IBSCBSDesativado: getBool(v, "NFE_IBSCBS_DESATIVADO", false),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, _ := strconv.Atoi(v.GetString(key))
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
