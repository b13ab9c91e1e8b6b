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
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/tomoncle/sieve/database"
)

const envPrefix = "SIEVE"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the configuration file at path, if any, on top of the
// defaults. Every key can be overridden from the environment, e.g.
// SIEVE_CONNECTION_DBNAME or SIEVE_SEARCH_DEFAULT_STRATEGY.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Search.DefaultStrategy = strings.ToLower(strings.TrimSpace(cfg.Search.DefaultStrategy))
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	conn := database.DefaultConnectionConfig()
	v.SetDefault("connection.type", "sqlite")
	v.SetDefault("connection.host", "")
	v.SetDefault("connection.port", 0)
	v.SetDefault("connection.username", "")
	v.SetDefault("connection.password", "")
	v.SetDefault("connection.dbname", "sieve.db")
	v.SetDefault("connection.sslmode", "disable")
	v.SetDefault("connection.max_idle_conns", conn.MaxIdleConns)
	v.SetDefault("connection.max_open_conns", conn.MaxOpenConns)
	v.SetDefault("connection.conn_max_lifetime", conn.ConnMaxLifetime)
	v.SetDefault("connection.conn_max_idle_time", conn.ConnMaxIdleTime)
	v.SetDefault("connection.connect_timeout", conn.ConnectTimeout)
	v.SetDefault("connection.read_timeout", conn.ReadTimeout)
	v.SetDefault("connection.write_timeout", conn.WriteTimeout)
	v.SetDefault("connection.enable_reconnect", false)
	v.SetDefault("connection.reconnect_interval", conn.ReconnectInterval)
	v.SetDefault("connection.max_reconnect_tries", conn.MaxReconnectTries)
	v.SetDefault("connection.health_check_interval", 0)
	v.SetDefault("connection.enable_query_log", conn.EnableQueryLog)
	v.SetDefault("connection.slow_query_time", conn.SlowQueryTime)

	v.SetDefault("migrate.enable_migrate_on_startup", true)
	v.SetDefault("migrate.enable_foreign_key", true)

	v.SetDefault("init.auto_init_on_migration", false)
	v.SetDefault("init.filepath", "configs/sql")
	v.SetDefault("init.environment", "development")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("search.default_page_size", 20)
	v.SetDefault("search.max_page_size", 1000)
	v.SetDefault("search.unpaged_limit", 1000)
	v.SetDefault("search.default_strategy", "deferred")
	v.SetDefault("search.concurrent_count", false)
}
