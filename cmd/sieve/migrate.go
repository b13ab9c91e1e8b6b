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
	"github.com/spf13/cobra"

	"github.com/tomoncle/sieve/database"
)

func newMigrateCmd(a *app) *cobra.Command {
	var seedSQL bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the registered tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if seedSQL {
				a.cfg.Init.AutoInitOnMigration = true
			}
			ctx := cmd.Context()
			db, err := a.openDB(ctx, true)
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB() }()

			applied, err := database.NewMigrationManager(db, nil, a.cfg.ConfigLoader()).GetAppliedMigrations(ctx)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), applied)
		},
	}
	cmd.Flags().BoolVar(&seedSQL, "sql", false, "also run the SQL seed files under init.filepath")
	return cmd
}
