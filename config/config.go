/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package config

import (
	"github.com/tomoncle/sieve"
	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/types"
	"github.com/tomoncle/sieve/utils"
)

// Config is the application configuration of the sieve command.
type Config struct {
	Connection database.ConnectionConfig  `mapstructure:"connection"`
	Migrate    database.DataMigrateConfig `mapstructure:"migrate"`
	Init       database.DataInitConfig    `mapstructure:"init"`
	Log        LogConfig                  `mapstructure:"log"`
	Search     SearchConfig               `mapstructure:"search"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// SearchConfig bounds page sizes and picks the default count strategy.
type SearchConfig struct {
	DefaultPageSize int    `mapstructure:"default_page_size" validate:"gte=1"`
	MaxPageSize     int    `mapstructure:"max_page_size" validate:"gtefield=DefaultPageSize"`
	UnpagedLimit    int    `mapstructure:"unpaged_limit" validate:"gte=1"`
	DefaultStrategy string `mapstructure:"default_strategy" validate:"required,oneof=always deferred none"`
	ConcurrentCount bool   `mapstructure:"concurrent_count"`
}

var _ database.AbstractDatabaseConfigProvider = (*Config)(nil)

// ConfigLoader returns the database section.
func (c *Config) ConfigLoader() *database.Config {
	return &database.Config{
		ConnectionConfig:  c.Connection,
		DataMigrateConfig: c.Migrate,
		DataInitConfig:    c.Init,
	}
}

// ServiceOptions returns the search section as service options.
func (c *Config) ServiceOptions() sieve.Options {
	strategy, err := types.ParseCountStrategy(c.Search.DefaultStrategy)
	if err != nil {
		strategy = types.DeferredCount
	}
	return sieve.Options{
		DefaultPageSize: c.Search.DefaultPageSize,
		MaxPageSize:     c.Search.MaxPageSize,
		UnpagedLimit:    c.Search.UnpagedLimit,
		DefaultStrategy: strategy,
		ConcurrentCount: c.Search.ConcurrentCount,
	}
}

// ConfigureLogging applies the log section to every logger.
func (c *Config) ConfigureLogging() {
	if c.Log.Level != "" {
		utils.ConfigureLogLevel(c.Log.Level)
	}
	if c.Log.Format != "" {
		utils.ConfigureLogFormat(c.Log.Format)
	}
}
