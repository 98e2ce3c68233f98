package config

import "time"

// Data is the actual configuration data for the app
type Data struct {
	CreatedAt time.Time `json:"created_at"`
	LoadedAt  time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Version   int64     `json:"version" jsonschema:"minimum=1,maximum=1"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CORS      struct {
		Origins []string `json:"origins"`
	} `json:"cors"`
	Log struct {
		Level    string   `json:"level" enums:"debug,info,warn,error,silent" jsonschema:"enum=debug,enum=info,enum=warn,enum=error,enum=silent"`
		Topics   []string `json:"topics"`
		MaxLines int      `json:"max_lines"`
	} `json:"log"`
	Storage struct {
		Type      string `json:"type" jsonschema:"enum=disk,enum=mem,enum=s3"`
		PublicURL string `json:"public_url"`
		Disk      struct {
			Dir string `json:"dir"`
		} `json:"disk"`
		S3 struct {
			Endpoint        string `json:"endpoint"`
			AccessKeyID     string `json:"access_key_id"`
			SecretAccessKey string `json:"secret_access_key"`
			Bucket          string `json:"bucket"`
			Region          string `json:"region"`
			UseSSL          bool   `json:"use_ssl"`
			Timeout         int64  `json:"timeout_sec"`
		} `json:"s3"`
	} `json:"storage"`
	Build struct {
		LogFile       string `json:"log_file"`
		ArtifactsDir  string `json:"artifacts_dir"`
		MaxErrorLines int    `json:"max_error_lines"`
		MaxLogBytes   int64  `json:"max_log_bytes"`
		TimeFormat    string `json:"time_format"`
		SourcePrefix  string `json:"source_prefix"`
		SourceRepo    string `json:"source_repo"`
	} `json:"build"`
	PR struct {
		Prefix  string `json:"prefix"`
		RepoURL string `json:"repo_url"`
	} `json:"pr"`
	Cache struct {
		Enable     bool  `json:"enable"`
		TTL        int64 `json:"ttl_seconds"`
		MaxEntries int64 `json:"max_entries"`
	} `json:"cache"`
	Metrics struct {
		EnablePrometheus bool `json:"enable_prometheus"`
	} `json:"metrics"`
	Debug struct {
		Gops      bool `json:"gops"`
		Profiling bool `json:"profiling"`
	} `json:"debug"`
}
