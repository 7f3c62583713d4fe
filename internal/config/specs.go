package config

import (
	"fmt"
	"net/url"
	"time"
)

const redacted = "******"

// EnvSpec is the basic environment configuration setup needed for the app to start
type EnvSpec struct {
	OtelGRPCEndpoint string `envconfig:"otel_grpc_endpoint"`
	OtelHTTPEndpoint string `envconfig:"otel_http_endpoint"`
	TracingEnabled   bool   `envconfig:"tracing_enabled" default:"true"`

	KratosPublicURL string `envconfig:"kratos_public_url" required:"true"`
	KratosAdminURL  string `envconfig:"kratos_admin_url" required:"true"`

	RecoveryLinkLifetime string `envconfig:"recovery_link_lifetime" default:"24h"`

	LogLevel string `envconfig:"log_level" default:"error"`
	Debug    bool   `envconfig:"debug" default:"false"`

	Port int `envconfig:"port" default:"8080"`

	DSN string `envconfig:"DSN" required:"true"`

	DBMaxConns        int32         `envconfig:"db_max_conns" default:"25"`
	DBMinConns        int32         `envconfig:"db_min_conns" default:"2"`
	DBMaxConnLifetime time.Duration `envconfig:"db_max_conn_lifetime" default:"1h"`
	DBMaxConnIdleTime time.Duration `envconfig:"db_max_conn_idle_time" default:"30m"`

	// SessionBackend selects the durable snapshot storage: postgres, redis or memory
	SessionBackend  string        `envconfig:"session_backend" default:"postgres"`
	SessionSecret   string        `envconfig:"session_secret" required:"true"`
	SessionLifetime time.Duration `envconfig:"session_lifetime" default:"12h"`
	SessionMaxIdle  time.Duration `envconfig:"session_max_idle" default:"30m"`
	CookieSecure    bool          `envconfig:"cookie_secure" default:"true"`
	SweepSchedule   string        `envconfig:"sweep_schedule" default:"@every 5m"`

	RedisAddr     string `envconfig:"redis_addr" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"redis_password"`
	RedisDB       int    `envconfig:"redis_db" default:"0"`

	LoginRatePerMinute int `envconfig:"login_rate_per_minute" default:"10"`
	LoginBurst         int `envconfig:"login_burst" default:"5"`

	CORSAllowedOrigins []string `envconfig:"cors_allowed_origins" default:"*"`

	AuthorizationSpec
}

// AuthorizationSpec configures the OpenFGA grant mirror. The CLI reads it on
// its own, without the settings only the server needs.
type AuthorizationSpec struct {
	AuthorizationEnabled bool   `envconfig:"authorization_enabled" default:"false"`
	OpenfgaApiURL        string `envconfig:"openfga_api_url"`
	OpenfgaApiToken      string `envconfig:"openfga_api_token"`
	OpenfgaStoreId       string `envconfig:"openfga_store_id"`
	OpenfgaModelId       string `envconfig:"openfga_authorization_model_id" default:""`
}

// String renders the spec with secrets masked so it can be logged.
func (s EnvSpec) String() string {
	type plain EnvSpec

	c := plain(s)
	c.DSN = redactDSN(c.DSN)
	for _, secret := range []*string{&c.SessionSecret, &c.RedisPassword, &c.OpenfgaApiToken} {
		if *secret != "" {
			*secret = redacted
		}
	}

	return fmt.Sprintf("%+v", c)
}

// redactDSN masks the password of a URL DSN and the whole of any other form.
func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}

	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return redacted
	}

	return u.Redacted()
}
