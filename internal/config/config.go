package config

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel    LogLevel    `json:"log_level" yaml:"log_level"`
	HTTP        HTTP        `json:"http"`
	OBS         OBS         `json:"obs"`
	Persistence Persistence `json:"persistence"`
	NATS        NATS        `json:"nats"`
	Auth        Auth        `json:"auth"`
}

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) Level() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type OBS struct {
	URL               string        `json:"url"`
	Password          string        `json:"password"`
	DialTimeout       time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	RequestTimeout    time.Duration `json:"request_timeout" yaml:"request_timeout"`
	TextInputKind     string        `json:"text_input_kind" yaml:"text_input_kind"`
	DefaultTextSource string        `json:"default_text_source" yaml:"default_text_source"`
}

type Auth struct {
	JWTSecret string `json:"jwt_secret" yaml:"jwt_secret"`
}

type NATS struct {
	Enabled       bool   `json:"enabled"`
	URL           string `json:"url"`
	SubjectPrefix string `json:"subject_prefix" yaml:"subject_prefix"`
}

type Persistence struct {
	Database    Database    `json:"database"`
	Screenshots Screenshots `json:"screenshots"`
}

type DatabaseDriver string

const (
	DatabaseDriverSQLite   DatabaseDriver = "sqlite"
	DatabaseDriverMySQL    DatabaseDriver = "mysql"
	DatabaseDriverPostgres DatabaseDriver = "postgres"
)

type Database struct {
	Driver          DatabaseDriver `json:"driver"`
	Database        string         `json:"database"`
	Username        string         `json:"username"`
	Password        string         `json:"password"`
	Host            string         `json:"host"`
	Port            uint16         `json:"port"`
	ExtraParameters string         `json:"extra_parameters" yaml:"extra_parameters"`
}

type ScreenshotsDriver string

const (
	ScreenshotsDriverFilesystem ScreenshotsDriver = "filesystem"
	ScreenshotsDriverS3         ScreenshotsDriver = "s3"
)

type Screenshots struct {
	Driver    ScreenshotsDriver `json:"driver"`
	Directory string            `json:"directory"`
	S3        S3Options         `json:"s3"`
}

type S3Options struct {
	Region   string `json:"region"`
	Bucket   string `json:"bucket"`
	Endpoint string `json:"endpoint"`
}

type HTTPListener struct {
	IPV4Host string `json:"ipv4_host" yaml:"ipv4_host"`
	IPV6Host string `json:"ipv6_host" yaml:"ipv6_host"`
	Port     uint16 `json:"port"`
}

type Tracing struct {
	Enabled      bool   `json:"enabled"`
	OTLPEndpoint string `json:"otlp_endpoint" yaml:"otlp_endpoint"`
}

type PProf struct {
	Enabled bool `json:"enabled"`
}

type Metrics struct {
	HTTPListener `yaml:",inline"`
	Enabled      bool `json:"enabled"`
}

type HTTP struct {
	HTTPListener   `yaml:",inline"`
	Tracing        Tracing  `json:"tracing"`
	PProf          PProf    `json:"pprof"`
	TrustedProxies []string `json:"trusted_proxies" yaml:"trusted_proxies"`
	Metrics        Metrics  `json:"metrics"`
	CORSHosts      []string `json:"cors_hosts" yaml:"cors_hosts"`
}

//nolint:golint,gochecknoglobals
var (
	ConfigFileKey                         = "config"
	LogLevelKey                           = "log_level"
	HTTPIPV4HostKey                       = "http.ipv4_host"
	HTTPIPV6HostKey                       = "http.ipv6_host"
	HTTPPortKey                           = "http.port"
	HTTPTracingEnabledKey                 = "http.tracing.enabled"
	HTTPTracingOTLPEndKey                 = "http.tracing.otlp_endpoint"
	HTTPPProfEnabledKey                   = "http.pprof.enabled"
	HTTPTrustedProxiesKey                 = "http.trusted_proxies"
	HTTPMetricsEnabledKey                 = "http.metrics.enabled"
	HTTPMetricsIPV4HostKey                = "http.metrics.ipv4_host"
	HTTPMetricsIPV6HostKey                = "http.metrics.ipv6_host"
	HTTPMetricsPortKey                    = "http.metrics.port"
	HTTPCORSHostsKey                      = "http.cors_hosts"
	OBSURLKey                             = "obs.url"
	OBSPasswordKey                        = "obs.password"
	OBSDialTimeoutKey                     = "obs.dial_timeout"
	OBSRequestTimeoutKey                  = "obs.request_timeout"
	OBSTextInputKindKey                   = "obs.text_input_kind"
	OBSDefaultTextSourceKey               = "obs.default_text_source"
	PersistenceDatabaseDriverKey          = "persistence.database.driver"
	PersistenceDatabaseDatabaseKey        = "persistence.database.database"
	PersistenceDatabaseUsernameKey        = "persistence.database.username"
	PersistenceDatabasePasswordKey        = "persistence.database.password"
	PersistenceDatabaseHostKey            = "persistence.database.host"
	PersistenceDatabasePortKey            = "persistence.database.port"
	PersistenceDatabaseExtraParametersKey = "persistence.database.extra_parameters"
	PersistenceScreenshotsDriverKey       = "persistence.screenshots.driver"
	PersistenceScreenshotsDirectoryKey    = "persistence.screenshots.directory"
	PersistenceScreenshotsS3RegionKey     = "persistence.screenshots.s3.region"
	PersistenceScreenshotsS3BucketKey     = "persistence.screenshots.s3.bucket"
	PersistenceScreenshotsS3EndpointKey   = "persistence.screenshots.s3.endpoint"
	NATSEnabledKey                        = "nats.enabled"
	NATSURLKey                            = "nats.url"
	NATSSubjectPrefixKey                  = "nats.subject_prefix"
	//nolint:golint,gosec
	AuthJWTSecretKey = "auth.jwt_secret"
)

const (
	DefaultConfigPath                   = "config.yaml"
	DefaultLogLevel                     = LogLevelInfo
	DefaultHTTPIPV4Host                 = "0.0.0.0"
	DefaultHTTPIPV6Host                 = "::"
	DefaultHTTPPort                     = 8080
	DefaultHTTPMetricsIPV4Host          = "127.0.0.1"
	DefaultHTTPMetricsIPV6Host          = "::1"
	DefaultHTTPMetricsPort              = 8081
	DefaultOBSURL                       = "ws://localhost:4455"
	DefaultOBSDialTimeout               = 5 * time.Second
	DefaultOBSRequestTimeout            = 10 * time.Second
	DefaultOBSTextInputKind             = "text_gdiplus_v2"
	DefaultOBSDefaultTextSource         = "DirtyTalk"
	DefaultPersistenceDatabaseDriver    = DatabaseDriverSQLite
	DefaultPersistenceDatabaseDatabase  = "obs-remote.db"
	DefaultPersistenceScreenshotsDriver = ScreenshotsDriverFilesystem
	DefaultPersistenceScreenshotsDir    = "screenshots/"
	DefaultNATSURL                      = "nats://localhost:4222"
	DefaultNATSSubjectPrefix            = "obs"
)

func RegisterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(ConfigFileKey, "c", DefaultConfigPath, "Config file path")
	cmd.Flags().String(LogLevelKey, string(DefaultLogLevel), "Log level (debug, info, warn, error)")
	cmd.Flags().String(HTTPIPV4HostKey, DefaultHTTPIPV4Host, "HTTP server IPv4 host")
	cmd.Flags().String(HTTPIPV6HostKey, DefaultHTTPIPV6Host, "HTTP server IPv6 host")
	cmd.Flags().Uint16(HTTPPortKey, DefaultHTTPPort, "HTTP server port")
	cmd.Flags().Bool(HTTPTracingEnabledKey, false, "Enable Open Telemetry tracing")
	cmd.Flags().String(HTTPTracingOTLPEndKey, "", "Open Telemetry endpoint")
	cmd.Flags().Bool(HTTPPProfEnabledKey, false, "Enable pprof")
	cmd.Flags().StringSlice(HTTPTrustedProxiesKey, []string{}, "Comma-separated list of trusted proxies")
	cmd.Flags().Bool(HTTPMetricsEnabledKey, false, "Enable metrics server")
	cmd.Flags().String(HTTPMetricsIPV4HostKey, DefaultHTTPMetricsIPV4Host, "Metrics server IPv4 host")
	cmd.Flags().String(HTTPMetricsIPV6HostKey, DefaultHTTPMetricsIPV6Host, "Metrics server IPv6 host")
	cmd.Flags().Uint16(HTTPMetricsPortKey, DefaultHTTPMetricsPort, "Metrics server port")
	cmd.Flags().StringSlice(HTTPCORSHostsKey, []string{}, "Comma-separated list of CORS hosts")
	cmd.Flags().String(OBSURLKey, DefaultOBSURL, "OBS WebSocket URL")
	cmd.Flags().String(OBSPasswordKey, "", "OBS WebSocket password")
	cmd.Flags().Duration(OBSDialTimeoutKey, DefaultOBSDialTimeout, "Timeout for connecting to OBS")
	cmd.Flags().Duration(OBSRequestTimeoutKey, DefaultOBSRequestTimeout, "Timeout for a single OBS request")
	cmd.Flags().String(OBSTextInputKindKey, DefaultOBSTextInputKind, "Input kind listed as text sources")
	cmd.Flags().String(OBSDefaultTextSourceKey, DefaultOBSDefaultTextSource, "Text source updated when none is given")
	cmd.Flags().String(PersistenceDatabaseDriverKey, string(DefaultPersistenceDatabaseDriver), "Database driver")
	cmd.Flags().String(PersistenceDatabaseDatabaseKey, DefaultPersistenceDatabaseDatabase, "Database path")
	cmd.Flags().String(PersistenceDatabaseUsernameKey, "", "Database username")
	cmd.Flags().String(PersistenceDatabasePasswordKey, "", "Database password")
	cmd.Flags().String(PersistenceDatabaseHostKey, "", "Database host")
	cmd.Flags().Uint16(PersistenceDatabasePortKey, 0, "Database port")
	cmd.Flags().String(PersistenceDatabaseExtraParametersKey, "", "Database extra parameters")
	cmd.Flags().String(PersistenceScreenshotsDriverKey, string(DefaultPersistenceScreenshotsDriver), "Screenshot storage driver (filesystem, s3)")
	cmd.Flags().String(PersistenceScreenshotsDirectoryKey, DefaultPersistenceScreenshotsDir, "Screenshot directory")
	cmd.Flags().String(PersistenceScreenshotsS3RegionKey, "", "Screenshot S3 region")
	cmd.Flags().String(PersistenceScreenshotsS3BucketKey, "", "Screenshot S3 bucket")
	cmd.Flags().String(PersistenceScreenshotsS3EndpointKey, "", "Screenshot S3 endpoint")
	cmd.Flags().Bool(NATSEnabledKey, false, "Enable the NATS relay")
	cmd.Flags().String(NATSURLKey, DefaultNATSURL, "NATS server URL")
	cmd.Flags().String(NATSSubjectPrefixKey, DefaultNATSSubjectPrefix, "NATS subject prefix")
	cmd.Flags().String(AuthJWTSecretKey, "", "JWT signing secret, enables API authentication when set")
}

var (
	ErrOBSURLRequired            = errors.New("OBS URL is required")
	ErrOBSURLInvalid             = errors.New("OBS URL must use the ws or wss scheme")
	ErrRequestTimeoutInvalid     = errors.New("OBS request timeout must be positive")
	ErrOTLPEndpointRequired      = errors.New("OTLP endpoint is required when tracing is enabled")
	ErrDBHostRequired            = errors.New("Database host is required")
	ErrDBDatabaseRequired        = errors.New("Database name is required")
	ErrDatabaseDriverRequired    = errors.New("Database driver is required")
	ErrScreenshotsBucketRequired = errors.New("S3 bucket is required for the s3 screenshot driver")
	ErrNATSURLRequired           = errors.New("NATS URL is required when NATS is enabled")
)

func (c *Config) Validate() error {
	if c.OBS.URL == "" {
		return ErrOBSURLRequired
	}
	u, err := url.Parse(c.OBS.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") {
		return ErrOBSURLInvalid
	}
	if c.OBS.RequestTimeout <= 0 {
		return ErrRequestTimeoutInvalid
	}
	if c.HTTP.Tracing.Enabled && c.HTTP.Tracing.OTLPEndpoint == "" {
		return ErrOTLPEndpointRequired
	}
	if c.Persistence.Database.Driver == "" {
		return ErrDatabaseDriverRequired
	}
	if c.Persistence.Database.Driver != DatabaseDriverSQLite && c.Persistence.Database.Host == "" {
		return ErrDBHostRequired
	}
	if c.Persistence.Database.Database == "" {
		return ErrDBDatabaseRequired
	}
	if c.Persistence.Screenshots.Driver == ScreenshotsDriverS3 && c.Persistence.Screenshots.S3.Bucket == "" {
		return ErrScreenshotsBucketRequired
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return ErrNATSURLRequired
	}

	return nil
}

func LoadConfig(cmd *cobra.Command) (*Config, error) {
	var config Config

	// Load flags from envs
	ctx, cancel := context.WithCancelCause(cmd.Context())
	defer cancel(nil)
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if ctx.Err() != nil {
			return
		}
		optName := strings.ReplaceAll(strings.ReplaceAll(strings.ToUpper(f.Name), "-", "_"), ".", "__")
		if val, ok := os.LookupEnv(optName); !f.Changed && ok {
			if err := f.Value.Set(val); err != nil {
				cancel(err)
			}
			f.Changed = true
		}
	})
	if ctx.Err() != nil {
		return &config, fmt.Errorf("failed to load env: %w", context.Cause(ctx))
	}

	configPath, err := cmd.Flags().GetString(ConfigFileKey)
	if err != nil {
		return &config, fmt.Errorf("failed to get config path: %w", err)
	}
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return &config, fmt.Errorf("failed to read config: %w", err)
		} else if err == nil {
			if err := yaml.Unmarshal(data, &config); err != nil {
				return &config, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	err = overrideFlags(&config, cmd)
	if err != nil {
		return &config, fmt.Errorf("failed to override flags: %w", err)
	}

	applyDefaults(&config)

	return &config, nil
}

func applyDefaults(config *Config) {
	if config.LogLevel == "" {
		config.LogLevel = DefaultLogLevel
	}
	if config.HTTP.IPV4Host == "" {
		config.HTTP.IPV4Host = DefaultHTTPIPV4Host
	}
	if config.HTTP.IPV6Host == "" {
		config.HTTP.IPV6Host = DefaultHTTPIPV6Host
	}
	if config.HTTP.Port == 0 {
		config.HTTP.Port = DefaultHTTPPort
	}
	if config.HTTP.Metrics.IPV4Host == "" {
		config.HTTP.Metrics.IPV4Host = DefaultHTTPMetricsIPV4Host
	}
	if config.HTTP.Metrics.IPV6Host == "" {
		config.HTTP.Metrics.IPV6Host = DefaultHTTPMetricsIPV6Host
	}
	if config.HTTP.Metrics.Port == 0 {
		config.HTTP.Metrics.Port = DefaultHTTPMetricsPort
	}
	if config.OBS.URL == "" {
		config.OBS.URL = DefaultOBSURL
	}
	if config.OBS.DialTimeout == 0 {
		config.OBS.DialTimeout = DefaultOBSDialTimeout
	}
	if config.OBS.RequestTimeout == 0 {
		config.OBS.RequestTimeout = DefaultOBSRequestTimeout
	}
	if config.OBS.TextInputKind == "" {
		config.OBS.TextInputKind = DefaultOBSTextInputKind
	}
	if config.OBS.DefaultTextSource == "" {
		config.OBS.DefaultTextSource = DefaultOBSDefaultTextSource
	}
	if config.Persistence.Database.Driver == "" {
		config.Persistence.Database.Driver = DefaultPersistenceDatabaseDriver
	}
	if config.Persistence.Database.Database == "" {
		config.Persistence.Database.Database = DefaultPersistenceDatabaseDatabase
	}
	if config.Persistence.Screenshots.Driver == "" {
		config.Persistence.Screenshots.Driver = DefaultPersistenceScreenshotsDriver
	}
	if config.Persistence.Screenshots.Directory == "" {
		config.Persistence.Screenshots.Directory = DefaultPersistenceScreenshotsDir
	}
	if config.NATS.URL == "" {
		config.NATS.URL = DefaultNATSURL
	}
	if config.NATS.SubjectPrefix == "" {
		config.NATS.SubjectPrefix = DefaultNATSSubjectPrefix
	}
}

//nolint:golint,gocyclo
func overrideFlags(config *Config, cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed(LogLevelKey) {
		lvl, err := cmd.Flags().GetString(LogLevelKey)
		if err != nil {
			return fmt.Errorf("failed to get log level: %w", err)
		}
		config.LogLevel = LogLevel(strings.ToLower(lvl))
	}

	if cmd.Flags().Changed(HTTPIPV4HostKey) {
		config.HTTP.IPV4Host, err = cmd.Flags().GetString(HTTPIPV4HostKey)
		if err != nil {
			return fmt.Errorf("failed to get HTTP IPv4 host: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPIPV6HostKey) {
		config.HTTP.IPV6Host, err = cmd.Flags().GetString(HTTPIPV6HostKey)
		if err != nil {
			return fmt.Errorf("failed to get HTTP IPv6 host: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPPortKey) {
		config.HTTP.Port, err = cmd.Flags().GetUint16(HTTPPortKey)
		if err != nil {
			return fmt.Errorf("failed to get HTTP port: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPPProfEnabledKey) {
		config.HTTP.PProf.Enabled, err = cmd.Flags().GetBool(HTTPPProfEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get pprof enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPTrustedProxiesKey) {
		config.HTTP.TrustedProxies, err = cmd.Flags().GetStringSlice(HTTPTrustedProxiesKey)
		if err != nil {
			return fmt.Errorf("failed to get trusted proxies: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPMetricsEnabledKey) {
		config.HTTP.Metrics.Enabled, err = cmd.Flags().GetBool(HTTPMetricsEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPMetricsIPV4HostKey) {
		config.HTTP.Metrics.IPV4Host, err = cmd.Flags().GetString(HTTPMetricsIPV4HostKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics IPv4 host: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPMetricsIPV6HostKey) {
		config.HTTP.Metrics.IPV6Host, err = cmd.Flags().GetString(HTTPMetricsIPV6HostKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics IPv6 host: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPMetricsPortKey) {
		config.HTTP.Metrics.Port, err = cmd.Flags().GetUint16(HTTPMetricsPortKey)
		if err != nil {
			return fmt.Errorf("failed to get metrics port: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPTracingEnabledKey) {
		config.HTTP.Tracing.Enabled, err = cmd.Flags().GetBool(HTTPTracingEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get tracing enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPTracingOTLPEndKey) {
		config.HTTP.Tracing.OTLPEndpoint, err = cmd.Flags().GetString(HTTPTracingOTLPEndKey)
		if err != nil {
			return fmt.Errorf("failed to get tracing OTLP endpoint: %w", err)
		}
	}

	if cmd.Flags().Changed(HTTPCORSHostsKey) {
		config.HTTP.CORSHosts, err = cmd.Flags().GetStringSlice(HTTPCORSHostsKey)
		if err != nil {
			return fmt.Errorf("failed to get CORS hosts: %w", err)
		}
	}

	if cmd.Flags().Changed(OBSURLKey) {
		config.OBS.URL, err = cmd.Flags().GetString(OBSURLKey)
		if err != nil {
			return fmt.Errorf("failed to get OBS URL: %w", err)
		}
	}

	if cmd.Flags().Changed(OBSPasswordKey) {
		config.OBS.Password, err = cmd.Flags().GetString(OBSPasswordKey)
		if err != nil {
			return fmt.Errorf("failed to get OBS password: %w", err)
		}
	}

	if cmd.Flags().Changed(OBSDialTimeoutKey) {
		config.OBS.DialTimeout, err = cmd.Flags().GetDuration(OBSDialTimeoutKey)
		if err != nil {
			return fmt.Errorf("failed to get OBS dial timeout: %w", err)
		}
	}

	if cmd.Flags().Changed(OBSRequestTimeoutKey) {
		config.OBS.RequestTimeout, err = cmd.Flags().GetDuration(OBSRequestTimeoutKey)
		if err != nil {
			return fmt.Errorf("failed to get OBS request timeout: %w", err)
		}
	}

	if cmd.Flags().Changed(OBSTextInputKindKey) {
		config.OBS.TextInputKind, err = cmd.Flags().GetString(OBSTextInputKindKey)
		if err != nil {
			return fmt.Errorf("failed to get OBS text input kind: %w", err)
		}
	}

	if cmd.Flags().Changed(OBSDefaultTextSourceKey) {
		config.OBS.DefaultTextSource, err = cmd.Flags().GetString(OBSDefaultTextSourceKey)
		if err != nil {
			return fmt.Errorf("failed to get OBS default text source: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabaseDriverKey) {
		drvr, err := cmd.Flags().GetString(PersistenceDatabaseDriverKey)
		if err != nil {
			return fmt.Errorf("failed to get database driver: %w", err)
		}
		config.Persistence.Database.Driver = DatabaseDriver(strings.ToLower(drvr))
	}

	if cmd.Flags().Changed(PersistenceDatabaseDatabaseKey) {
		config.Persistence.Database.Database, err = cmd.Flags().GetString(PersistenceDatabaseDatabaseKey)
		if err != nil {
			return fmt.Errorf("failed to get database name: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabaseUsernameKey) {
		config.Persistence.Database.Username, err = cmd.Flags().GetString(PersistenceDatabaseUsernameKey)
		if err != nil {
			return fmt.Errorf("failed to get database username: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabasePasswordKey) {
		config.Persistence.Database.Password, err = cmd.Flags().GetString(PersistenceDatabasePasswordKey)
		if err != nil {
			return fmt.Errorf("failed to get database password: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabaseHostKey) {
		config.Persistence.Database.Host, err = cmd.Flags().GetString(PersistenceDatabaseHostKey)
		if err != nil {
			return fmt.Errorf("failed to get database host: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabasePortKey) {
		config.Persistence.Database.Port, err = cmd.Flags().GetUint16(PersistenceDatabasePortKey)
		if err != nil {
			return fmt.Errorf("failed to get database port: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceDatabaseExtraParametersKey) {
		config.Persistence.Database.ExtraParameters, err = cmd.Flags().GetString(PersistenceDatabaseExtraParametersKey)
		if err != nil {
			return fmt.Errorf("failed to get database extra parameters: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceScreenshotsDriverKey) {
		drvr, err := cmd.Flags().GetString(PersistenceScreenshotsDriverKey)
		if err != nil {
			return fmt.Errorf("failed to get screenshots driver: %w", err)
		}
		config.Persistence.Screenshots.Driver = ScreenshotsDriver(strings.ToLower(drvr))
	}

	if cmd.Flags().Changed(PersistenceScreenshotsDirectoryKey) {
		config.Persistence.Screenshots.Directory, err = cmd.Flags().GetString(PersistenceScreenshotsDirectoryKey)
		if err != nil {
			return fmt.Errorf("failed to get screenshots directory: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceScreenshotsS3RegionKey) {
		config.Persistence.Screenshots.S3.Region, err = cmd.Flags().GetString(PersistenceScreenshotsS3RegionKey)
		if err != nil {
			return fmt.Errorf("failed to get screenshots S3 region: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceScreenshotsS3BucketKey) {
		config.Persistence.Screenshots.S3.Bucket, err = cmd.Flags().GetString(PersistenceScreenshotsS3BucketKey)
		if err != nil {
			return fmt.Errorf("failed to get screenshots S3 bucket: %w", err)
		}
	}

	if cmd.Flags().Changed(PersistenceScreenshotsS3EndpointKey) {
		config.Persistence.Screenshots.S3.Endpoint, err = cmd.Flags().GetString(PersistenceScreenshotsS3EndpointKey)
		if err != nil {
			return fmt.Errorf("failed to get screenshots S3 endpoint: %w", err)
		}
	}

	if cmd.Flags().Changed(NATSEnabledKey) {
		config.NATS.Enabled, err = cmd.Flags().GetBool(NATSEnabledKey)
		if err != nil {
			return fmt.Errorf("failed to get NATS enabled: %w", err)
		}
	}

	if cmd.Flags().Changed(NATSURLKey) {
		config.NATS.URL, err = cmd.Flags().GetString(NATSURLKey)
		if err != nil {
			return fmt.Errorf("failed to get NATS URL: %w", err)
		}
	}

	if cmd.Flags().Changed(NATSSubjectPrefixKey) {
		config.NATS.SubjectPrefix, err = cmd.Flags().GetString(NATSSubjectPrefixKey)
		if err != nil {
			return fmt.Errorf("failed to get NATS subject prefix: %w", err)
		}
	}

	if cmd.Flags().Changed(AuthJWTSecretKey) {
		config.Auth.JWTSecret, err = cmd.Flags().GetString(AuthJWTSecretKey)
		if err != nil {
			return fmt.Errorf("failed to get JWT secret: %w", err)
		}
	}

	return nil
}
