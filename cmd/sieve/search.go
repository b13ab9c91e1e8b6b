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
	"github.com/tomoncle/sieve/member"
	"github.com/tomoncle/sieve/types"
)

type searchFlags struct {
	filters  map[string]string
	offset   int
	page     int
	size     int
	strategy string
	order    string
	all      bool
}

func newSearchCmd(a *app) *cobra.Command {
	f := &searchFlags{}
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search members and print the page as JSON",
		Example: `  sieve search --filter teamNameEquals=teamB --filter ageGreaterOrEqual=40
  sieve search --page 2 --size 10 --order "age desc, id" --strategy always
  sieve search --all --filter usernameEquals=member5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cond, err := member.ParseSearchCondition(f.filters)
			if err != nil {
				return err
			}
			orders, err := types.ParseOrders(f.order)
			if err != nil {
				return err
			}
			var strategy types.CountStrategy
			if f.strategy != "" {
				if strategy, err = types.ParseCountStrategy(f.strategy); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			db, err := a.openDB(ctx, false)
			if err != nil {
				return err
			}
			defer func() { _ = database.CloseDB() }()
			svc := member.NewDefaultService(db, a.cfg.ServiceOptions())

			if f.all {
				rows, err := svc.Search(ctx, cond, orders...)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			size := f.size
			if size == 0 {
				size = a.cfg.Search.DefaultPageSize
			}
			offset := f.offset
			if cmd.Flags().Changed("page") {
				offset = f.page * size
			}
			page, err := svc.SearchPage(ctx, cond, types.NewPageRequest(offset, size, orders...), strategy)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), page)
		},
	}
	flags := cmd.Flags()
	flags.StringToStringVar(&f.filters, "filter", nil, "filter as key=value: usernameEquals, teamNameEquals, ageGreaterOrEqual, ageLessOrEqual")
	flags.IntVar(&f.offset, "offset", 0, "rows to skip")
	flags.IntVar(&f.page, "page", 0, "zero-based page number, overrides --offset")
	flags.IntVar(&f.size, "size", 0, "page size (default search.default_page_size)")
	flags.StringVar(&f.strategy, "strategy", "", "count strategy: always, deferred or none (default search.default_strategy)")
	flags.StringVar(&f.order, "order", "", `sort order, e.g. "age desc, id"`)
	flags.BoolVar(&f.all, "all", false, "return every match up to search.unpaged_limit instead of one page")
	cmd.MarkFlagsMutuallyExclusive("offset", "page")
	return cmd
}
