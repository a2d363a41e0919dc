package main

import (
	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/pkg/types"
)

// loadPipelineConfig maps the viper keys onto the typed configuration.
// Command flags may still override individual fields afterwards.
func loadPipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Store: types.StoreConfig{
			SessionDir: viper.GetString("store.session_dir"),
		},
		Server: types.ServerConfig{
			Listen:           viper.GetString("server.listen"),
			WriteTimeout:     viper.GetDuration("server.write_timeout"),
			SubscriberBuffer: viper.GetInt("server.subscriber_buffer"),
		},
		Publisher: types.PublisherConfig{
			CollectorURL: viper.GetString("publisher.collector_url"),
			Timeout:      viper.GetDuration("publisher.timeout"),
			MaxRetries:   viper.GetInt("publisher.max_retries"),
		},
	}
}
