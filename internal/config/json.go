package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	Vault struct {
		KDFTime    uint32 `json:"kdf_time"`
		KDFMemory  uint32 `json:"kdf_memory"`
		KDFThreads uint8  `json:"kdf_threads"`
		Suite      string `json:"suite"`
	} `json:"vault,omitempty"`

	Storage struct {
		Backend string `json:"backend"`

		DB struct {
			DSN     string   `json:"dsn"`
			Timeout Duration `json:"timeout"`
		} `json:"db,omitempty"`

		Files struct {
			Dir string `json:"dir"`
		} `json:"files,omitempty"`
	} `json:"storage,omitempty"`

	Workers struct {
		PoolSize int `json:"pool_size"`
	} `json:"workers,omitempty"`

	Log struct {
		Level string `json:"level"`
	} `json:"log,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Vault: Vault{
			KDFTime:    jsonCfg.Vault.KDFTime,
			KDFMemory:  jsonCfg.Vault.KDFMemory,
			KDFThreads: jsonCfg.Vault.KDFThreads,
			Suite:      jsonCfg.Vault.Suite,
		},
		Storage: Storage{
			Backend: jsonCfg.Storage.Backend,
			DB: DB{
				DSN:     jsonCfg.Storage.DB.DSN,
				Timeout: time.Duration(jsonCfg.Storage.DB.Timeout),
			},
			Files: Files{
				Dir: jsonCfg.Storage.Files.Dir,
			},
		},
		Workers:      Workers{PoolSize: jsonCfg.Workers.PoolSize},
		Log:          Log{Level: jsonCfg.Log.Level},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
