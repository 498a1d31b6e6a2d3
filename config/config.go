// File: config/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Optional YAML loader for pool and connection settings. The core never
// reads files on its own; callers that keep limits in deployment config
// load them here and pass the structs down.

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/momentics/secbuf/api"
)

// File is the on-disk layout.
type File struct {
	Pool       api.PoolConfig `yaml:"pool"`
	Connection connYAML       `yaml:"connection"`
}

// connYAML mirrors api.ConnectionConfig with the idle timeout expressed
// in milliseconds, since YAML has no duration scalar.
type connYAML struct {
	MaxPacketQueueSize        int     `yaml:"max_packet_queue_size"`
	MaxPacketQueueBytes       int     `yaml:"max_packet_queue_bytes"`
	IdleTimeoutMillis         int     `yaml:"idle_timeout_ms"`
	EnableAggressiveShrinking bool    `yaml:"enable_aggressive_shrinking"`
	MinEfficiency             float64 `yaml:"min_efficiency"`
	MaxWastedBytes            int     `yaml:"max_wasted_bytes"`
	WipePattern               byte    `yaml:"wipe_pattern"`
}

// Settings is the decoded, ready-to-use form.
type Settings struct {
	Pool       api.PoolConfig
	Connection api.ConnectionConfig
}

// Default returns a baseline suitable for a typical connection-oriented
// workload: 64K buffers, moderate pool retention, one-minute idle window.
func Default() Settings {
	return Settings{
		Pool: api.PoolConfig{
			BufferSize:  65536,
			MaxPoolSize: 100,
			CacheSize:   api.DefaultCacheSize,
		},
		Connection: api.ConnectionConfig{
			MaxPacketQueueSize:  100,
			MaxPacketQueueBytes: 1 << 20,
			IdleTimeout:         time.Minute,
		},
	}
}

// Load reads and decodes a YAML settings file.
func Load(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading config: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Settings{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return Settings{
		Pool: f.Pool,
		Connection: api.ConnectionConfig{
			MaxPacketQueueSize:        f.Connection.MaxPacketQueueSize,
			MaxPacketQueueBytes:       f.Connection.MaxPacketQueueBytes,
			IdleTimeout:               time.Duration(f.Connection.IdleTimeoutMillis) * time.Millisecond,
			EnableAggressiveShrinking: f.Connection.EnableAggressiveShrinking,
			MinEfficiency:             f.Connection.MinEfficiency,
			MaxWastedBytes:            f.Connection.MaxWastedBytes,
			WipePattern:               f.Connection.WipePattern,
		},
	}, nil
}
