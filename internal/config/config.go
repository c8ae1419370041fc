package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type SMSTrafficConfig struct {
	APIURL     string `yaml:"api_url"`
	Login      string `yaml:"login"`
	Password   string `yaml:"password"`
	Originator string `yaml:"originator"`
	DryRun     bool   `yaml:"dry_run"`
}

// SMSAuthConfig — явные настройки выдачи и проверки одноразовых кодов.
// Передаётся в сервис при создании, глобального состояния нет.
type SMSAuthConfig struct {
	CodeLength        int  `yaml:"code_length"`         // ширина кода, по умолчанию 4
	CodeTTLMinutes    int  `yaml:"code_ttl_minutes"`    // окно действия кода и кулдаун повторной отправки
	SendWindowMinutes int  `yaml:"send_window_minutes"` // окно общего лимита отправок
	SendLimit         int  `yaml:"send_limit"`          // максимум отправок в окне
	MaxAttempts       int  `yaml:"max_attempts"`        // максимум попыток ввода на один код
	Debug             bool `yaml:"debug"`               // фиксированный код вместо случайного
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	AccessTTLMin    int    `yaml:"access_ttl_minutes"`
	RefreshTTLHours int    `yaml:"refresh_ttl_hours"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	SMSTraffic SMSTrafficConfig `yaml:"sms_traffic"`
	SMSAuth    SMSAuthConfig    `yaml:"sms_auth"`
	Auth       AuthConfig       `yaml:"auth"`
	PageSize   int              `yaml:"page_size"`
}

func LoadConfig() *Config {
	// .env — локальные секреты, отсутствие файла не ошибка
	_ = godotenv.Load()

	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	// секреты из окружения имеют приоритет над yaml
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("SMS_TRAFFIC_LOGIN"); v != "" {
		cfg.SMSTraffic.Login = v
	}
	if v := os.Getenv("SMS_TRAFFIC_PASSWORD"); v != "" {
		cfg.SMSTraffic.Password = v
	}
	if v := os.Getenv("DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SMSAuth.Debug = b
		}
	}

	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.SMSAuth.CodeLength == 0 {
		cfg.SMSAuth.CodeLength = 4
	}
	if cfg.SMSAuth.CodeTTLMinutes == 0 {
		cfg.SMSAuth.CodeTTLMinutes = 1
	}
	if cfg.SMSAuth.SendWindowMinutes == 0 {
		cfg.SMSAuth.SendWindowMinutes = 60
	}
	if cfg.SMSAuth.SendLimit == 0 {
		cfg.SMSAuth.SendLimit = 5
	}
	if cfg.SMSAuth.MaxAttempts == 0 {
		cfg.SMSAuth.MaxAttempts = 3
	}
	if cfg.Auth.AccessTTLMin == 0 {
		cfg.Auth.AccessTTLMin = 15
	}
	if cfg.Auth.RefreshTTLHours == 0 {
		cfg.Auth.RefreshTTLHours = 30 * 24
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = 10
	}
	if cfg.SMSTraffic.APIURL == "" {
		cfg.SMSTraffic.APIURL = "https://api.smstraffic.ru/multi.php"
	}
}
