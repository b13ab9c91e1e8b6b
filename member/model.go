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

	"github.com/tomoncle/sieve/database"
)

// Team groups members.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:team"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
}

// Member belongs to at most one team.
type Member struct {
	bun.BaseModel `bun:"table:members,alias:member"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Username string `bun:"username,notnull,unique" json:"username"`
	Age      int    `bun:"age,notnull" json:"age"`
	TeamID   *int64 `bun:"team_id" json:"teamId,omitempty"`
	Team     *Team  `bun:"rel:belongs-to,join:team_id=id" json:"team,omitempty"`
}

func (*Member) ForeignKeys() []database.ForeignKeyConstraint {
	return []database.ForeignKeyConstraint{
		{Column: "team_id", ReferenceTable: "teams", ReferenceColumn: "id", OnDelete: "SET NULL"},
	}
}

// MemberTeam is the flat member/team row returned by searches.
type MemberTeam struct {
	MemberID int64  `bun:"member_id" json:"memberId"`
	Username string `bun:"username" json:"username"`
	Age      int    `bun:"age" json:"age"`
	TeamID   int64  `bun:"team_id" json:"teamId"`
	TeamName string `bun:"team_name" json:"teamName"`
}

func init() {
	database.RegisteredModel(database.NewModelAdapter((*Team)(nil), 10))
	database.RegisteredModel(database.NewModelAdapter((*Member)(nil), 20))
}
