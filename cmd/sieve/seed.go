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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tomoncle/sieve/database"
	"github.com/tomoncle/sieve/member"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		bulk int
		file string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load members and teams",
		Long: `Load the built-in eight member fixture, a YAML fixture file, or with
--bulk N a generated one of N members alternating between teamA and teamB.
Seeding is idempotent: members are matched by username.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fixture, err := loadFixture(bulk, file)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := a.openDB(ctx, true)
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB() }()

			n, err := member.Seed(ctx, db, fixture)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]int{"teams": len(fixture.Teams), "members": n})
		},
	}
	cmd.Flags().IntVar(&bulk, "bulk", 0, "generate N members instead of the built-in fixture")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture file")
	cmd.MarkFlagsMutuallyExclusive("bulk", "file")
	return cmd
}

func loadFixture(bulk int, file string) (*member.Fixture, error) {
	switch {
	case bulk < 0:
		return nil, fmt.Errorf("--bulk must not be negative")
	case bulk > 0:
		return member.GenerateFixture(bulk), nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		return member.ParseFixture(data)
	}
	return member.LoadFixture()
}
