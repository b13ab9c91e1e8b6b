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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/sieve/types"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sieve.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Connection.Type)
	assert.Equal(t, "sieve.db", cfg.Connection.DBName)
	assert.Equal(t, 2*time.Second, cfg.Connection.SlowQueryTime)
	assert.True(t, cfg.Migrate.EnableMigrateOnStartup)

	opts := cfg.ServiceOptions()
	assert.Equal(t, 20, opts.DefaultPageSize)
	assert.Equal(t, types.DeferredCount, opts.DefaultStrategy)
}

func TestLoadFromYAMLAndEnv(t *testing.T) {
	path := writeTempConfig(t, `
connection:
  type: postgres
  host: 127.0.0.1
  port: 5432
  username: sieve
  dbname: members
  slow_query_time: 500ms
migrate:
  enable_foreign_key: false
init:
  environment: test
search:
  default_page_size: 10
  max_page_size: 50
  default_strategy: Always
`)
	t.Setenv("SIEVE_CONNECTION_PASSWORD", "secret")
	t.Setenv("SIEVE_SEARCH_CONCURRENT_COUNT", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	db := cfg.ConfigLoader()
	assert.Equal(t, "postgres", db.ConnectionConfig.Type)
	assert.Equal(t, 5432, db.ConnectionConfig.Port)
	assert.Equal(t, "secret", db.ConnectionConfig.Password)
	assert.Equal(t, 500*time.Millisecond, db.ConnectionConfig.SlowQueryTime)
	assert.False(t, db.DataMigrateConfig.EnableForeignKey)
	assert.Equal(t, "test", db.DataInitConfig.Environment)

	opts := cfg.ServiceOptions()
	assert.Equal(t, 10, opts.DefaultPageSize)
	assert.Equal(t, 50, opts.MaxPageSize)
	assert.Equal(t, types.AlwaysCount, opts.DefaultStrategy)
	assert.True(t, opts.ConcurrentCount)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"unknown type":      "connection:\n  type: oracle\n",
		"unknown strategy":  "search:\n  default_strategy: sometimes\n",
		"max below default": "search:\n  default_page_size: 50\n  max_page_size: 10\n",
		"bad log format":    "log:\n  format: xml\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeTempConfig(t, content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
