// Package conf holds the configuration tree scanned from configs/config.yaml.
package conf

import (
	"encoding/json"
	"fmt"
	"time"
)

// Bootstrap is the root of the configuration.
type Bootstrap struct {
	Server    *Server    `json:"server"`
	Data      *Data      `json:"data"`
	Shortener *Shortener `json:"shortener"`
	Eventbus  *Eventbus  `json:"eventbus"`
}

type Server struct {
	HTTP *HTTP `json:"http"`
}

type HTTP struct {
	Network string   `json:"network"`
	Addr    string   `json:"addr"`
	Timeout Duration `json:"timeout"`
	// RateLimit is the number of requests per minute allowed per client IP. Zero disables it.
	RateLimit int `json:"rate_limit"`
}

type Data struct {
	Journal *Journal `json:"journal"`
	Redis   *Redis   `json:"redis"`
}

// Journal selects the SQL database the event journal is written to.
// An empty driver disables the journal.
type Journal struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

// Redis configures the read-model mirror. An empty address disables it.
type Redis struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Prefix   string `json:"prefix"`
}

type Shortener struct {
	SlugLength int    `json:"slug_length"`
	BaseURL    string `json:"base_url"`
}

type Eventbus struct {
	PollInterval Duration `json:"poll_interval"`
	BatchSize    int      `json:"batch_size"`
	Buffer       int64    `json:"buffer"`
}

// Duration is a time.Duration read from strings such as "250ms".
type Duration time.Duration

// AsDuration returns the value as a time.Duration.
func (d Duration) AsDuration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		*d = Duration(time.Duration(v))
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}
