package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultFundCode = "512890.SH"

type Secrets struct {
	Port    int            `json:"port"`
	Tushare TushareSecrets `json:"tushare"`
	Fund    FundSecrets    `json:"fund"`
	Batch   BatchSecrets   `json:"batch"`
}

type TushareSecrets struct {
	Token             string `json:"token"`
	BaseURL           string `json:"baseUrl"`
	RequestsPerSecond int    `json:"requestsPerSecond"`
	Timeout           string `json:"timeout"`
}

// GetTimeout falls back to 30s when unset or unparsable.
func (t TushareSecrets) GetTimeout() time.Duration {
	d, err := time.ParseDuration(t.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

type FundSecrets struct {
	Code string `json:"code"`
}

type BatchSecrets struct {
	PriceBatchSize  int    `json:"priceBatchSize"`
	FactorBatchSize int    `json:"factorBatchSize"`
	Delay           string `json:"delay"`
}

func (b BatchSecrets) GetDelay() time.Duration {
	d, err := time.ParseDuration(b.Delay)
	if err != nil || d < 0 {
		return 800 * time.Millisecond
	}
	return d
}

func secretsFile() string {
	switch strings.ToLower(os.Getenv("REPLICA_ENV")) {
	case "dev":
		return "secrets-dev.json"
	case "test":
		return "secrets-test.json"
	}
	return "/go/src/app/secrets.json"
}

// LoadSecrets reads the env-specific secrets file and applies environment
// overrides. A missing file is fine.
func LoadSecrets() (*Secrets, error) {
	return loadSecrets(secretsFile(), os.Getenv)
}

func loadSecrets(path string, getenv func(string) string) (*Secrets, error) {
	secrets := Secrets{}

	f, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	if err == nil {
		if err := json.Unmarshal(f, &secrets); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if token := getenv("TUSHARE_TOKEN"); token != "" {
		secrets.Tushare.Token = token
	}
	if code := getenv("FUND_CODE"); code != "" {
		secrets.Fund.Code = code
	}
	if port := getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		secrets.Port = p
	}

	if secrets.Fund.Code == "" {
		secrets.Fund.Code = DefaultFundCode
	}
	if secrets.Port == 0 {
		secrets.Port = 3001
	}
	return &secrets, nil
}

// HasToken is false when neither the file nor TUSHARE_TOKEN set one. The
// server still starts; provider calls fail until a token is configured.
func (s Secrets) HasToken() bool {
	return s.Tushare.Token != ""
}
