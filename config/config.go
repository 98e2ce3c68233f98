// Package config implements types for handling the configuation for the app.
package config

import (
	"time"

	"github.com/buildlens/core/config/value"
	"github.com/buildlens/core/config/vars"

	haikunator "github.com/atrox/haikunatorgo/v2"
	"github.com/google/uuid"
)

const version int64 = 1

// Config is a wrapper for Data
type Config struct {
	vars vars.Variables

	Data
}

// New returns a Config which is initialized with its default values
func New() *Config {
	cfg := &Config{}

	cfg.init()

	return cfg
}

func (d *Config) Get(name string) (string, error) {
	return d.vars.Get(name)
}

func (d *Config) Set(name, val string) error {
	return d.vars.Set(name, val)
}

// Vars lists all configuration values with secrets disguised.
func (d *Config) Vars() []vars.Variable {
	return d.vars.List()
}

// Clone returns a deep copy of the config.
func (d *Config) Clone() *Config {
	data := New()

	data.Data = d.Data

	data.Log.Topics = copyStrings(d.Log.Topics)
	data.CORS.Origins = copyStrings(d.CORS.Origins)

	data.vars.Transfer(&d.vars)

	return data
}

func copyStrings(src []string) []string {
	if src == nil {
		return nil
	}

	dst := make([]string, len(src))
	copy(dst, src)

	return dst
}

func (d *Config) init() {
	d.vars.Register(value.NewInt64(&d.Version, version), "version", "", "Configuration file layout version", true, false)
	d.vars.Register(value.NewTime(&d.CreatedAt, time.Now()), "created_at", "", "Configuration file creation time", false, false)
	d.vars.Register(value.NewString(&d.ID, uuid.New().String()), "id", "BUILDLENS_ID", "ID for this instance", true, false)
	d.vars.Register(value.NewString(&d.Name, haikunator.New().Haikunate()), "name", "BUILDLENS_NAME", "A human readable name for this instance", false, false)
	d.vars.Register(value.NewAddress(&d.Address, ":8080"), "address", "BUILDLENS_ADDRESS", "HTTP listening address", true, false)
	d.vars.Register(value.NewCORSOrigins(&d.CORS.Origins, []string{}, ","), "cors.origins", "BUILDLENS_CORS_ORIGINS", "Allowed CORS origins for /api", false, false)

	// Log
	d.vars.Register(value.NewEnum(&d.Log.Level, "info", "silent", "error", "warn", "info", "debug"), "log.level", "BUILDLENS_LOG_LEVEL", "Loglevel: silent, error, warn, info, debug", false, false)
	d.vars.Register(value.NewStringList(&d.Log.Topics, []string{}, ","), "log.topics", "BUILDLENS_LOG_TOPICS", "Show only selected log topics", false, false)
	d.vars.Register(value.NewInt(&d.Log.MaxLines, 1000), "log.max_lines", "BUILDLENS_LOG_MAX_LINES", "Number of latest log lines to keep in memory", false, false)

	// Storage
	d.vars.Register(value.NewEnum(&d.Storage.Type, "disk", "disk", "mem", "s3"), "storage.type", "BUILDLENS_STORAGE_TYPE", "Where the build results are stored: disk, mem, s3", true, false)
	d.vars.Register(value.NewURL(&d.Storage.PublicURL, "https://storage.googleapis.com"), "storage.public_url", "BUILDLENS_STORAGE_PUBLIC_URL", "Public URL of the storage for redirects to raw artifacts", false, false)
	d.vars.Register(value.NewDir(&d.Storage.Disk.Dir, "."), "storage.disk.dir", "BUILDLENS_STORAGE_DISK_DIR", "Directory with the build results", false, false)
	d.vars.Register(value.NewString(&d.Storage.S3.Endpoint, ""), "storage.s3.endpoint", "BUILDLENS_STORAGE_S3_ENDPOINT", "S3 endpoint, host:port", false, false)
	d.vars.Register(value.NewString(&d.Storage.S3.AccessKeyID, ""), "storage.s3.access_key_id", "BUILDLENS_STORAGE_S3_ACCESS_KEY_ID", "S3 access key", false, false)
	d.vars.Register(value.NewString(&d.Storage.S3.SecretAccessKey, ""), "storage.s3.secret_access_key", "BUILDLENS_STORAGE_S3_SECRET_ACCESS_KEY", "S3 secret", false, true)
	d.vars.Register(value.NewString(&d.Storage.S3.Bucket, ""), "storage.s3.bucket", "BUILDLENS_STORAGE_S3_BUCKET", "S3 bucket with the build results", false, false)
	d.vars.Register(value.NewString(&d.Storage.S3.Region, ""), "storage.s3.region", "BUILDLENS_STORAGE_S3_REGION", "S3 region", false, false)
	d.vars.Register(value.NewBool(&d.Storage.S3.UseSSL, true), "storage.s3.use_ssl", "BUILDLENS_STORAGE_S3_USE_SSL", "Connect to S3 with TLS", false, false)
	d.vars.Register(value.NewInt64(&d.Storage.S3.Timeout, 30), "storage.s3.timeout_sec", "BUILDLENS_STORAGE_S3_TIMEOUT_SEC", "Timeout for S3 requests in seconds", false, false)

	// Build
	d.vars.Register(value.NewString(&d.Build.LogFile, "build-log.txt"), "build.log_file", "BUILDLENS_BUILD_LOG_FILE", "Name of the build log in a build directory", true, false)
	d.vars.Register(value.NewString(&d.Build.ArtifactsDir, "artifacts"), "build.artifacts_dir", "BUILDLENS_BUILD_ARTIFACTS_DIR", "Directory with the JUnit reports in a build directory", true, false)
	d.vars.Register(value.NewInt(&d.Build.MaxErrorLines, 10), "build.max_error_lines", "BUILDLENS_BUILD_MAX_ERROR_LINES", "Max. number of error lines taken from a build log", false, false)
	d.vars.Register(value.NewInt64(&d.Build.MaxLogBytes, 0), "build.max_log_bytes", "BUILDLENS_BUILD_MAX_LOG_BYTES", "Only read the tail of larger build logs, 0 for everything", false, false)
	d.vars.Register(value.NewStrftime(&d.Build.TimeFormat, "%Y-%m-%d %H:%M:%S %Z"), "build.time_format", "BUILDLENS_BUILD_TIME_FORMAT", "strftime format for displaying times", false, false)
	d.vars.Register(value.NewString(&d.Build.SourcePrefix, "/go/src/k8s.io/kubernetes/"), "build.source_prefix", "BUILDLENS_BUILD_SOURCE_PREFIX", "Path of the source checkout in failure texts", false, false)
	d.vars.Register(value.NewURL(&d.Build.SourceRepo, "https://github.com/kubernetes/kubernetes"), "build.source_repo", "BUILDLENS_BUILD_SOURCE_REPO", "Repository to link failure texts to", false, false)

	// PR
	d.vars.Register(value.NewString(&d.PR.Prefix, "/pr-logs/pull"), "pr.prefix", "BUILDLENS_PR_PREFIX", "Directory with the builds of pull requests", false, false)
	d.vars.Register(value.NewURL(&d.PR.RepoURL, "https://github.com/kubernetes/kubernetes"), "pr.repo_url", "BUILDLENS_PR_REPO_URL", "Repository the pull requests belong to", false, false)

	// Cache
	d.vars.Register(value.NewBool(&d.Cache.Enable, true), "cache.enable", "BUILDLENS_CACHE_ENABLE", "Cache build summaries", false, false)
	d.vars.Register(value.NewInt64(&d.Cache.TTL, 300), "cache.ttl_seconds", "BUILDLENS_CACHE_TTL_SECONDS", "Seconds to keep a summary of an unfinished build", false, false)
	d.vars.Register(value.NewInt64(&d.Cache.MaxEntries, 1000), "cache.max_entries", "BUILDLENS_CACHE_MAX_ENTRIES", "Max. number of cached summaries", false, false)

	// Metrics
	d.vars.Register(value.NewBool(&d.Metrics.EnablePrometheus, false), "metrics.enable_prometheus", "BUILDLENS_METRICS_ENABLE_PROMETHEUS", "Enable prometheus endpoint /metrics", false, false)

	// Debug
	d.vars.Register(value.NewBool(&d.Debug.Gops, false), "debug.gops", "BUILDLENS_DEBUG_GOPS", "Start the gops agent", false, false)
	d.vars.Register(value.NewBool(&d.Debug.Profiling, false), "debug.profiling", "BUILDLENS_DEBUG_PROFILING", "Serve the pprof endpoints under /profiling", false, false)
}

// Validate validates the current state of the Config for completeness and sanity. Errors are
// written to the log. Use resetLogs to indicate to reset the logs prior validation.
func (d *Config) Validate(resetLogs bool) {
	if resetLogs {
		d.vars.ResetLogs()
	}

	if d.Version != version {
		d.vars.Log("error", "version", "unknown configuration layout version (found version %d, expecting version %d)", d.Version, version)

		return
	}

	d.vars.Validate()

	// Individual sanity checks

	if d.Storage.Type == "disk" && len(d.Storage.Disk.Dir) == 0 {
		d.vars.Log("error", "storage.disk.dir", "must be set for disk storage")
	}

	if d.Storage.Type == "s3" {
		if len(d.Storage.S3.Endpoint) == 0 {
			d.vars.Log("error", "storage.s3.endpoint", "must be set for S3 storage")
		}

		if len(d.Storage.S3.Bucket) == 0 {
			d.vars.Log("error", "storage.s3.bucket", "must be set for S3 storage")
		}

		if d.Storage.S3.Timeout <= 0 {
			d.vars.Log("error", "storage.s3.timeout_sec", "must be greater than 0")
		}
	}

	if d.Build.MaxErrorLines <= 0 {
		d.vars.Log("error", "build.max_error_lines", "must be greater than 0")
	}

	if d.Build.MaxLogBytes < 0 {
		d.vars.Log("error", "build.max_log_bytes", "must be equal or greater than 0")
	}

	// If the cache is enabled, it needs room and a sane TTL
	if d.Cache.Enable {
		if d.Cache.TTL < 0 {
			d.vars.Log("error", "cache.ttl_seconds", "must be equal or greater than 0")
		}

		if d.Cache.MaxEntries <= 0 {
			d.vars.Log("error", "cache.max_entries", "must be greater than 0")
		}
	}
}

// Merge merges the values of the known environment variables into the configuration
func (d *Config) Merge() {
	d.vars.Merge()
}

// MergeFrom is like Merge but reads the variables through lookup.
func (d *Config) MergeFrom(lookup vars.LookupFunc) {
	d.vars.MergeFrom(lookup)
}

// Messages calls for each log entry the provided callback. The level has the values 'error', 'warn', or 'info'.
// The name is the name of the configuration value, e.g. 'build.log_file'. The message is the log message.
func (d *Config) Messages(logger func(level string, v vars.Variable, message string)) {
	d.vars.Messages(logger)
}

// HasErrors returns whether there are some error messages in the log.
func (d *Config) HasErrors() bool {
	return d.vars.HasErrors()
}

// Overrides returns a list of configuration value names that have been overriden by an environment variable.
func (d *Config) Overrides() []string {
	return d.vars.Overrides()
}
