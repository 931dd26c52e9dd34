package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/USA-RedDragon/obs-remote/cmd"
	"github.com/USA-RedDragon/obs-remote/internal/config"
)

func TestExampleConfig(t *testing.T) {
	t.Parallel()
	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	err := cmd.ParseFlags([]string{"--config", "../../config.example.yaml"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err := config.LoadConfig(cmd)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := testConfig.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if testConfig.OBS.RequestTimeout != 10*time.Second {
		t.Errorf("unexpected OBS request timeout: %s", testConfig.OBS.RequestTimeout)
	}
	if !testConfig.HTTP.Metrics.Enabled {
		t.Error("expected metrics to be enabled by the example config")
	}
	if testConfig.HTTP.Metrics.Port != 8081 {
		t.Errorf("unexpected metrics port: %d", testConfig.HTTP.Metrics.Port)
	}
	if len(testConfig.HTTP.CORSHosts) != 1 {
		t.Errorf("unexpected CORS hosts: %v", testConfig.HTTP.CORSHosts)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	err := cmd.ParseFlags([]string{"--config", ""})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err := config.LoadConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := testConfig.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if testConfig.OBS.URL != config.DefaultOBSURL {
		t.Errorf("unexpected OBS URL: %s", testConfig.OBS.URL)
	}
	if testConfig.OBS.DialTimeout != config.DefaultOBSDialTimeout {
		t.Errorf("unexpected OBS dial timeout: %s", testConfig.OBS.DialTimeout)
	}
	if testConfig.OBS.TextInputKind != config.DefaultOBSTextInputKind {
		t.Errorf("unexpected OBS text input kind: %s", testConfig.OBS.TextInputKind)
	}
	if testConfig.OBS.DefaultTextSource != "DirtyTalk" {
		t.Errorf("unexpected OBS default text source: %s", testConfig.OBS.DefaultTextSource)
	}
	if testConfig.Persistence.Database.Driver != config.DatabaseDriverSQLite {
		t.Errorf("unexpected database driver: %s", testConfig.Persistence.Database.Driver)
	}
	if testConfig.Persistence.Screenshots.Driver != config.ScreenshotsDriverFilesystem {
		t.Errorf("unexpected screenshots driver: %s", testConfig.Persistence.Screenshots.Driver)
	}
	if testConfig.LogLevel != config.LogLevelInfo {
		t.Errorf("unexpected log level: %s", testConfig.LogLevel)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("obs:\n  url: ws://obs.lan:4455\n  password: fromfile\n"), 0600)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	err = cmd.ParseFlags([]string{"--config", path, "--obs.password", "fromflag"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err := config.LoadConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if testConfig.OBS.URL != "ws://obs.lan:4455" {
		t.Errorf("unexpected OBS URL: %s", testConfig.OBS.URL)
	}
	if testConfig.OBS.Password != "fromflag" {
		t.Errorf("unexpected OBS password: %s", testConfig.OBS.Password)
	}
}

func TestMissingOTLPEndpoint(t *testing.T) {
	t.Parallel()

	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	err := cmd.ParseFlags([]string{"--config", "", "--http.tracing.enabled", "true"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err := config.LoadConfig(cmd)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := testConfig.Validate(); !errors.Is(err, config.ErrOTLPEndpointRequired) {
		t.Errorf("unexpected error: %v", err)
	}

	err = cmd.ParseFlags([]string{"--http.tracing.enabled", "true", "--http.tracing.otlp_endpoint", "dummy"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err = config.LoadConfig(cmd)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := testConfig.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvalidOBSURL(t *testing.T) {
	t.Parallel()
	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	err := cmd.ParseFlags([]string{"--config", "", "--obs.url", "http://localhost:4455"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err := config.LoadConfig(cmd)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := testConfig.Validate(); !errors.Is(err, config.ErrOBSURLInvalid) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestInvalidRequestTimeout(t *testing.T) {
	t.Parallel()
	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	err := cmd.ParseFlags([]string{"--config", "", "--obs.request_timeout", "-1s"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err := config.LoadConfig(cmd)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := testConfig.Validate(); !errors.Is(err, config.ErrRequestTimeoutInvalid) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMissingDatabaseHost(t *testing.T) {
	t.Parallel()
	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	err := cmd.ParseFlags([]string{"--config", "", "--persistence.database.driver", "postgres"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err := config.LoadConfig(cmd)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := testConfig.Validate(); !errors.Is(err, config.ErrDBHostRequired) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMissingScreenshotsBucket(t *testing.T) {
	t.Parallel()
	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	err := cmd.ParseFlags([]string{"--config", "", "--persistence.screenshots.driver", "S3"})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	testConfig, err := config.LoadConfig(cmd)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := testConfig.Validate(); !errors.Is(err, config.ErrScreenshotsBucketRequired) {
		t.Errorf("unexpected error: %v", err)
	}
}

// Parallel tests are not allowed with t.Setenv
//
//nolint:golint,paralleltest
func TestEnvConfig(t *testing.T) {
	cmd := cmd.NewCommand("testing", "deadbeef")
	cmd.SetContext(context.Background())
	t.Setenv("CONFIG", "")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP__PORT", "8087")
	t.Setenv("HTTP__METRICS__PORT", "8088")
	t.Setenv("HTTP__METRICS__IPV4_HOST", "0.0.0.0")
	t.Setenv("HTTP__METRICS__IPV6_HOST", "::0")
	t.Setenv("HTTP__IPV4_HOST", "127.0.0.1")
	t.Setenv("HTTP__IPV6_HOST", "::1")
	t.Setenv("HTTP__PPROF__ENABLED", "true")
	t.Setenv("HTTP__TRUSTED_PROXIES", "127.0.0.1,127.0.0.2")
	t.Setenv("HTTP__METRICS__ENABLED", "true")
	t.Setenv("HTTP__TRACING__ENABLED", "true")
	t.Setenv("HTTP__TRACING__OTLP_ENDPOINT", "http://localhost:4317")
	t.Setenv("HTTP__CORS_HOSTS", "http://localhost:8080,http://localhost:8081")
	t.Setenv("OBS__URL", "wss://studio.lan:4455")
	t.Setenv("OBS__PASSWORD", "hunter2")
	t.Setenv("OBS__DIAL_TIMEOUT", "2s")
	t.Setenv("OBS__REQUEST_TIMEOUT", "3s")
	t.Setenv("OBS__TEXT_INPUT_KIND", "text_ft2_source_v2")
	t.Setenv("OBS__DEFAULT_TEXT_SOURCE", "Ticker")
	t.Setenv("PERSISTENCE__DATABASE__DRIVER", "postgres")
	t.Setenv("PERSISTENCE__DATABASE__DATABASE", "obs")
	t.Setenv("PERSISTENCE__DATABASE__HOST", "host")
	t.Setenv("PERSISTENCE__DATABASE__PORT", "5432")
	t.Setenv("PERSISTENCE__DATABASE__USERNAME", "user")
	t.Setenv("PERSISTENCE__DATABASE__PASSWORD", "password")
	t.Setenv("PERSISTENCE__DATABASE__EXTRA_PARAMETERS", "sslmode=require")
	t.Setenv("PERSISTENCE__SCREENSHOTS__DRIVER", "s3")
	t.Setenv("PERSISTENCE__SCREENSHOTS__S3__REGION", "us-east-1")
	t.Setenv("PERSISTENCE__SCREENSHOTS__S3__BUCKET", "shots")
	t.Setenv("PERSISTENCE__SCREENSHOTS__S3__ENDPOINT", "http://minio:9000")
	t.Setenv("NATS__ENABLED", "true")
	t.Setenv("NATS__URL", "nats://nats:4222")
	t.Setenv("NATS__SUBJECT_PREFIX", "studio")
	t.Setenv("AUTH__JWT_SECRET", "changeme")

	config, err := config.LoadConfig(cmd)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if config.LogLevel != "debug" {
		t.Errorf("unexpected log level: %s", config.LogLevel)
	}
	if config.HTTP.Port != 8087 {
		t.Errorf("unexpected HTTP port: %d", config.HTTP.Port)
	}
	if config.HTTP.Metrics.Port != 8088 {
		t.Errorf("unexpected HTTP metrics port: %d", config.HTTP.Metrics.Port)
	}
	if config.HTTP.Metrics.IPV4Host != "0.0.0.0" {
		t.Errorf("unexpected HTTP metrics IPv4 host: %s", config.HTTP.Metrics.IPV4Host)
	}
	if config.HTTP.Metrics.IPV6Host != "::0" {
		t.Errorf("unexpected HTTP metrics IPv6 host: %s", config.HTTP.Metrics.IPV6Host)
	}
	if config.HTTP.IPV4Host != "127.0.0.1" {
		t.Errorf("unexpected HTTP IPv4 host: %s", config.HTTP.IPV4Host)
	}
	if config.HTTP.IPV6Host != "::1" {
		t.Errorf("unexpected HTTP IPv6 host: %s", config.HTTP.IPV6Host)
	}
	if !config.HTTP.PProf.Enabled {
		t.Error("unexpected HTTP pprof enabled")
	}
	if len(config.HTTP.TrustedProxies) != 2 {
		t.Fatalf("unexpected HTTP trusted proxies: %v", config.HTTP.TrustedProxies)
	}
	if config.HTTP.TrustedProxies[1] != "127.0.0.2" {
		t.Errorf("unexpected HTTP trusted proxy: %s", config.HTTP.TrustedProxies[1])
	}
	if !config.HTTP.Metrics.Enabled {
		t.Error("unexpected HTTP metrics enabled")
	}
	if !config.HTTP.Tracing.Enabled {
		t.Error("unexpected HTTP tracing enabled")
	}
	if config.HTTP.Tracing.OTLPEndpoint != "http://localhost:4317" {
		t.Errorf("unexpected HTTP tracing OTLP endpoint: %s", config.HTTP.Tracing.OTLPEndpoint)
	}
	if len(config.HTTP.CORSHosts) != 2 {
		t.Errorf("unexpected HTTP CORS hosts: %v", config.HTTP.CORSHosts)
	}
	if config.OBS.URL != "wss://studio.lan:4455" {
		t.Errorf("unexpected OBS URL: %s", config.OBS.URL)
	}
	if config.OBS.Password != "hunter2" {
		t.Errorf("unexpected OBS password: %s", config.OBS.Password)
	}
	if config.OBS.DialTimeout != 2*time.Second {
		t.Errorf("unexpected OBS dial timeout: %s", config.OBS.DialTimeout)
	}
	if config.OBS.RequestTimeout != 3*time.Second {
		t.Errorf("unexpected OBS request timeout: %s", config.OBS.RequestTimeout)
	}
	if config.OBS.TextInputKind != "text_ft2_source_v2" {
		t.Errorf("unexpected OBS text input kind: %s", config.OBS.TextInputKind)
	}
	if config.OBS.DefaultTextSource != "Ticker" {
		t.Errorf("unexpected OBS default text source: %s", config.OBS.DefaultTextSource)
	}
	if config.Persistence.Database.Driver != "postgres" {
		t.Errorf("unexpected persistence driver: %s", config.Persistence.Database.Driver)
	}
	if config.Persistence.Database.Host != "host" {
		t.Errorf("unexpected persistence host: %s", config.Persistence.Database.Host)
	}
	if config.Persistence.Database.Port != 5432 {
		t.Errorf("unexpected persistence port: %d", config.Persistence.Database.Port)
	}
	if config.Persistence.Database.ExtraParameters != "sslmode=require" {
		t.Errorf("unexpected persistence extra parameters: %s", config.Persistence.Database.ExtraParameters)
	}
	if config.Persistence.Screenshots.Driver != "s3" {
		t.Errorf("unexpected screenshots driver: %s", config.Persistence.Screenshots.Driver)
	}
	if config.Persistence.Screenshots.S3.Bucket != "shots" {
		t.Errorf("unexpected screenshots bucket: %s", config.Persistence.Screenshots.S3.Bucket)
	}
	if config.Persistence.Screenshots.S3.Endpoint != "http://minio:9000" {
		t.Errorf("unexpected screenshots endpoint: %s", config.Persistence.Screenshots.S3.Endpoint)
	}
	if !config.NATS.Enabled {
		t.Error("unexpected NATS enabled")
	}
	if config.NATS.URL != "nats://nats:4222" {
		t.Errorf("unexpected NATS URL: %s", config.NATS.URL)
	}
	if config.NATS.SubjectPrefix != "studio" {
		t.Errorf("unexpected NATS subject prefix: %s", config.NATS.SubjectPrefix)
	}
	if config.Auth.JWTSecret != "changeme" {
		t.Errorf("unexpected JWT secret: %s", config.Auth.JWTSecret)
	}
}
