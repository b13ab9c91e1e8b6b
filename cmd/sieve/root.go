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
package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	"github.com/tomoncle/sieve/config"
	"github.com/tomoncle/sieve/database"
)

// Version is set at build time.
var Version = "0.1.0"

type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "sieve",
		Short: "Search members with composable filters and count-aware pagination",
		Long: `sieve searches the members/teams store with optional filters.

Commands:
  migrate  - Create the tables and run the configured SQL seed files
  seed     - Load the member fixture, or a generated one with --bulk
  search   - Search members and print one page as JSON

Example:
  sieve seed --bulk 100
  sieve search --filter teamNameEquals=teamB --filter ageGreaterOrEqual=40 --size 3 --strategy none`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			cfg.ConfigureLogging()
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml, json or toml); SIEVE_* variables override it")

	root.AddCommand(newMigrateCmd(a), newSeedCmd(a), newSearchCmd(a))
	return root
}

// openDB connects the global database, migrating first when migrate is set
// or the config enables migration on startup.
func (a *app) openDB(ctx context.Context, migrate bool) (*bun.DB, error) {
	dbCfg := a.cfg.ConfigLoader()
	return database.InitDatabaseWithOptions(ctx, dbCfg, migrate || dbCfg.DataMigrateConfig.EnableMigrateOnStartup)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
