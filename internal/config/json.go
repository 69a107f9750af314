package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		Production bool   `json:"production"`
		Version    string `json:"version"`
	} `json:"app,omitempty"`

	Auth struct {
		SessionCookie      string   `json:"session_cookie"`
		CurrentUserCookie  string   `json:"current_user_cookie"`
		GuestCookie        string   `json:"guest_cookie"`
		SessionDuration    Duration `json:"session_duration"`
		NoticeDuration     Duration `json:"notice_duration"`
		GuestDuration      Duration `json:"guest_duration"`
		ShareTokenSignKey  string   `json:"share_token_sign_key"`
		ShareTokenIssuer   string   `json:"share_token_issuer"`
		ShareTokenDuration Duration `json:"share_token_duration"`
	} `json:"auth,omitempty"`

	Storage struct {
		DB struct {
			DSN             string   `json:"dsn"`
			ConnectAttempts int      `json:"connect_attempts"`
			ConnectBackoff  Duration `json:"connect_backoff"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Media struct {
		UploadURL     string   `json:"upload_url"`
		APIKey        string   `json:"api_key"`
		UploadTimeout Duration `json:"upload_timeout"`
	} `json:"media,omitempty"`

	Workers struct {
		SweepInterval Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`
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
		App: App{
			Production: jsonCfg.App.Production,
			Version:    jsonCfg.App.Version,
		},
		Auth: Auth{
			SessionCookie:      jsonCfg.Auth.SessionCookie,
			CurrentUserCookie:  jsonCfg.Auth.CurrentUserCookie,
			GuestCookie:        jsonCfg.Auth.GuestCookie,
			SessionDuration:    time.Duration(jsonCfg.Auth.SessionDuration),
			NoticeDuration:     time.Duration(jsonCfg.Auth.NoticeDuration),
			GuestDuration:      time.Duration(jsonCfg.Auth.GuestDuration),
			ShareTokenSignKey:  jsonCfg.Auth.ShareTokenSignKey,
			ShareTokenIssuer:   jsonCfg.Auth.ShareTokenIssuer,
			ShareTokenDuration: time.Duration(jsonCfg.Auth.ShareTokenDuration),
		},
		Storage: Storage{
			DB: DB{
				DSN:             jsonCfg.Storage.DB.DSN,
				ConnectAttempts: jsonCfg.Storage.DB.ConnectAttempts,
				ConnectBackoff:  time.Duration(jsonCfg.Storage.DB.ConnectBackoff),
			},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Media: Media{
			UploadURL:     jsonCfg.Media.UploadURL,
			APIKey:        jsonCfg.Media.APIKey,
			UploadTimeout: time.Duration(jsonCfg.Media.UploadTimeout),
		},
		Workers: Workers{
			SweepInterval: time.Duration(jsonCfg.Workers.SweepInterval),
		},
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
