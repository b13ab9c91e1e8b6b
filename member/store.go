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
package member

import (
	"github.com/uptrace/bun"

	"github.com/tomoncle/sieve/repository"
	"github.com/tomoncle/sieve/types"
)

// Fields maps the searchable fields to columns of the member/team join.
var Fields = repository.FieldMapping{
	FieldID:       "member.id",
	FieldUsername: "member.username",
	FieldAge:      "member.age",
	FieldTeamID:   "team.id",
	FieldTeamName: "team.name",
}

// selectMemberTeam joins every member with its team. Members without a team
// are not part of the result.
func selectMemberTeam(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		Model((*Member)(nil)).
		ColumnExpr("member.id AS member_id").
		ColumnExpr("member.username AS username").
		ColumnExpr("member.age AS age").
		ColumnExpr("team.id AS team_id").
		ColumnExpr("team.name AS team_name").
		Join("JOIN teams AS team ON team.id = member.team_id")
}

// countMemberTeam keeps the join, and with it the exclusion of members
// without a team, but selects no projected columns.
func countMemberTeam(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		TableExpr("members AS member").
		Join("JOIN teams AS team ON team.id = member.team_id")
}

// NewStore returns the member/team projection store, ordered by member id
// unless a request says otherwise.
func NewStore(db bun.IDB) *repository.BunStore[MemberTeam] {
	return repository.NewBunStore[MemberTeam](db, Fields,
		repository.WithSelect(selectMemberTeam),
		repository.WithCountSelect(countMemberTeam),
		repository.WithDefaultOrder(types.OrderAsc(FieldID)),
	)
}
