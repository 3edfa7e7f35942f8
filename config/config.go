package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Config defines the app configuration.
type Config struct {
	Server struct {
		Port     int    `yaml:"port" env:"PORT" env-default:"4000"`
		Env      string `yaml:"env" env:"ENV" env-default:"development"`
		LogLevel string `yaml:"log_level" env:"LOGLEVEL" env-default:"info"`
	} `yaml:"server"`
	Database struct {
		DSN          string `yaml:"dsn" env:"DSN"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"MAXOPENCONNS" env-default:"25"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"MAXIDLECONNS" env-default:"25"`
		MaxIdleTime  string `yaml:"max_idle_time" env:"MAXIDLETIME" env-default:"15m"`
		AutoMigrate  bool   `yaml:"automigrate" env:"AUTOMIGRATE" env-default:"true"`
	} `yaml:"database"`
	SMTP struct {
		Host     string `yaml:"host" env:"SMTPHOST"`
		Port     int    `yaml:"port" env:"SMTPPORT" env-default:"25"`
		Username string `yaml:"username" env:"SMTPUSERNAME"`
		Password string `yaml:"password" env:"SMTPPASSWORD"`
		Sender   string `yaml:"sender" env:"SMTPSENDER" env-default:"Libraria <no-reply@libraria.local>"`
	} `yaml:"smtp"`
	S3 struct {
		AccessKeyID     string `yaml:"access_key_id" env:"ACCESSKEYID"`
		SecretAccessKey string `yaml:"secret_access_key" env:"SECRETACCESSKEY"`
		Region          string `yaml:"region" env:"REGION"`
		Bucket          string `yaml:"bucket" env:"BUCKET"`
	} `yaml:"s3"`
	Limiter struct {
		RPS     float64 `yaml:"rps" env:"RPS" env-default:"4"`
		Burst   int     `yaml:"burst" env:"BURST" env-default:"8"`
		Enabled bool    `yaml:"enabled" env:"LENABLED" env-default:"true"`
	} `yaml:"limiter"`
	Cors struct {
		TrustedOrigins []string `yaml:"trusted_origins" env:"TRUSTEDORIGINS" env-separator:" "`
	} `yaml:"cors"`
	Metrics struct {
		Enabled bool `yaml:"enabled" env:"MENABLED"`
	} `yaml:"metrics"`
	BasicAuth struct {
		Username string `yaml:"username" env:"USERNAME"`
		Password string `yaml:"password" env:"PASSWORD"`
	} `yaml:"basic_auth"`
	Auth struct {
		Secret     string        `yaml:"secret" env:"AUTHSECRET"`
		Issuer     string        `yaml:"issuer" env:"AUTHISSUER" env-default:"libraria"`
		AccessTTL  time.Duration `yaml:"access_ttl" env:"ACCESSTTL" env-default:"15m"`
		RefreshTTL time.Duration `yaml:"refresh_ttl" env:"REFRESHTTL" env-default:"168h"`
	} `yaml:"auth"`
	Policy struct {
		LoanDays        int    `yaml:"loan_days" env:"LOANDAYS" env-default:"14"`
		FinePerDay      string `yaml:"fine_per_day" env:"FINEPERDAY" env-default:"50"`
		Rounding        string `yaml:"rounding" env:"FINEROUNDING" env-default:"ceil"`
		MaxOpenLendings int    `yaml:"max_open_lendings" env:"MAXOPENLENDINGS" env-default:"0"`
	} `yaml:"policy"`
	Catalog struct {
		LookupURL string `yaml:"lookup_url" env:"CATALOGLOOKUPURL"`
	} `yaml:"catalog"`
	Admin struct {
		Name     string `yaml:"name" env:"ADMINNAME" env-default:"Administrator"`
		Email    string `yaml:"email" env:"ADMINEMAIL"`
		Password string `yaml:"password" env:"ADMINPASSWORD"`
	} `yaml:"admin"`
}

// Validate reports settings that would leave the server unable to start.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn must be provided"))
	}
	if _, err := time.ParseDuration(c.Database.MaxIdleTime); err != nil {
		errs = append(errs, fmt.Errorf("database.max_idle_time: %w", err))
	}
	if len(c.Auth.Secret) < 32 {
		errs = append(errs, errors.New("auth.secret must be at least 32 bytes long"))
	}
	if c.Policy.LoanDays < 1 {
		errs = append(errs, errors.New("policy.loan_days must be at least 1"))
	}
	fine, err := decimal.NewFromString(c.Policy.FinePerDay)
	if err != nil {
		errs = append(errs, fmt.Errorf("policy.fine_per_day: %w", err))
	} else if fine.IsNegative() {
		errs = append(errs, errors.New("policy.fine_per_day must not be negative"))
	}
	if c.Policy.Rounding != "ceil" && c.Policy.Rounding != "floor" {
		errs = append(errs, fmt.Errorf("policy.rounding %q must be ceil or floor", c.Policy.Rounding))
	}
	return errors.Join(errs...)
}
