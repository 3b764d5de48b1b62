package config

import (
	"encoding/json"
	"os"
	"strings"
	"time"
)

// duration accepts both "24h" strings and integer nanoseconds in JSON.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	}
	return nil
}

// jsonConfig is the file-facing DTO; values present in the file are copied
// into the runtime Config.
type jsonConfig struct {
	EndpointAddr          *string   `json:"endpoint_addr"`
	DatabaseDSN           *string   `json:"database_dsn"`
	SecretKey             *string   `json:"secret_key"`
	TokenValidityDuration *duration `json:"token_validity_duration"`
	AuditLogLimit         *int      `json:"audit_log_limit"`
	S3RootUser            *string   `json:"s3_root_user"`
	S3RootPassword        *string   `json:"s3_root_password"`
	S3Bucket              *string   `json:"s3_bucket"`
	S3Region              *string   `json:"s3_region"`
	S3BaseEndpoint        *string   `json:"s3_base_endpoint"`
}

// configFilePath scans args for -c/-config without consuming them, so the
// main flag set can still be parsed afterwards.
func configFilePath(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		for _, name := range []string{"-c", "--c", "-config", "--config"} {
			if arg == name && i+1 < len(args) {
				return args[i+1]
			}
			if strings.HasPrefix(arg, name+"=") {
				return strings.TrimPrefix(arg, name+"=")
			}
		}
	}
	return os.Getenv("CONFIG")
}

// parseJSON overlays values from the JSON file referenced by -c/-config or
// the CONFIG environment variable. A missing path means no file is loaded;
// an unreadable or malformed file is a startup failure.
func parseJSON(config *Config) {
	path := configFilePath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != nil {
		config.EndpointAddr = *c.EndpointAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != nil {
		config.SecretKey = *c.SecretKey
	}
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.AuditLogLimit != nil {
		config.AuditLogLimit = *c.AuditLogLimit
	}
	if c.S3RootUser != nil {
		config.S3RootUser = *c.S3RootUser
	}
	if c.S3RootPassword != nil {
		config.S3RootPassword = *c.S3RootPassword
	}
	if c.S3Bucket != nil {
		config.S3Bucket = *c.S3Bucket
	}
	if c.S3Region != nil {
		config.S3Region = *c.S3Region
	}
	if c.S3BaseEndpoint != nil {
		config.S3BaseEndpoint = *c.S3BaseEndpoint
	}
}
