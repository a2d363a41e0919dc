package types

import "time"

// StoreConfig holds settings for the session store.
type StoreConfig struct {
	// SessionDir is the base directory for session files (contains
	// plan.yaml, steps/, index/).
	SessionDir string `json:"session_dir" yaml:"session_dir"`
}

// ServerConfig holds settings for the update-collector server.
type ServerConfig struct {
	// Listen is the address the server binds to (e.g. ":8085").
	Listen string `json:"listen" yaml:"listen"`

	// WriteTimeout bounds a single websocket frame write (default 10s).
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// SubscriberBuffer is the per-subscriber outbound queue length
	// (default 64). A subscriber that falls this far behind is dropped.
	SubscriberBuffer int `json:"subscriber_buffer" yaml:"subscriber_buffer"`
}

// PublisherConfig holds settings for the update publisher client.
type PublisherConfig struct {
	// CollectorURL is the base URL of the collector (e.g. "http://localhost:8085").
	CollectorURL string `json:"collector_url" yaml:"collector_url"`

	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// PipelineConfig groups all tool configuration.
type PipelineConfig struct {
	Store     StoreConfig     `json:"store" yaml:"store"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Publisher PublisherConfig `json:"publisher" yaml:"publisher"`
}
