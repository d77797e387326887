package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ddanilovs/inform/internal/flagx"
	"github.com/ddanilovs/inform/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "24h" and integer nanoseconds. After unmarshalling,
// its fields are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddr                    string         `json:"endpoint_addr"`
	DatabaseDSN                     string         `json:"database_dsn"`
	SecretKey                       string         `json:"secret_key"`
	FullTokenValidityDuration       timex.Duration `json:"full_token_validity_duration"`
	RestrictedTokenValidityDuration timex.Duration `json:"restricted_token_validity_duration"`
	MinPasswordLength               int            `json:"min_password_length"`
	S3RootUser                      string         `json:"s3_root_user"`
	S3RootPassword                  string         `json:"s3_root_password"`
	S3Bucket                        string         `json:"s3_bucket"`
	S3Region                        string         `json:"s3_region"`
	S3BaseEndpoint                  string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. If the file cannot be
// read or contains invalid JSON, the function panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.FullTokenValidityDuration = time.Duration(c.FullTokenValidityDuration.Duration)
	config.RestrictedTokenValidityDuration = time.Duration(c.RestrictedTokenValidityDuration.Duration)
	config.MinPasswordLength = c.MinPasswordLength
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
