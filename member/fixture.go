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
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"github.com/uptrace/bun"
	"gopkg.in/yaml.v3"

	"github.com/tomoncle/sieve/repository"
	"github.com/tomoncle/sieve/utils"
)

//go:embed fixture.yaml
var defaultFixture []byte

const seedBatchSize = 500

// Fixture lists teams and their members in insertion order.
type Fixture struct {
	Teams []TeamFixture `yaml:"teams"`
}

type TeamFixture struct {
	Name    string          `yaml:"name"`
	Members []MemberFixture `yaml:"members"`
}

type MemberFixture struct {
	Username string `yaml:"username"`
	Age      int    `yaml:"age"`
}

// Len returns the number of members in the fixture.
func (f *Fixture) Len() int {
	n := 0
	for _, t := range f.Teams {
		n += len(t.Members)
	}
	return n
}

// LoadFixture returns the built-in eight member fixture.
func LoadFixture() (*Fixture, error) {
	return ParseFixture(defaultFixture)
}

// ParseFixture decodes a YAML fixture, rejecting unknown keys.
func ParseFixture(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}
	for _, t := range f.Teams {
		if t.Name == "" {
			return nil, fmt.Errorf("fixture team without name")
		}
		for _, m := range t.Members {
			if m.Username == "" {
				return nil, fmt.Errorf("fixture member without username in team %s", t.Name)
			}
		}
	}
	return &f, nil
}

// GenerateFixture returns n members named member0..member<n-1>, aged by
// index, alternating between teamA and teamB.
func GenerateFixture(n int) *Fixture {
	f := &Fixture{Teams: []TeamFixture{{Name: "teamA"}, {Name: "teamB"}}}
	for i := 0; i < n; i++ {
		team := &f.Teams[i%2]
		team.Members = append(team.Members, MemberFixture{Username: fmt.Sprintf("member%d", i), Age: i})
	}
	return f
}

// Seed writes the fixture in one transaction. Teams are matched by name and
// members by username, so seeding twice updates rather than duplicates.
func Seed(ctx context.Context, db *bun.DB, f *Fixture) (int, error) {
	log := utils.NewLogger("SEED")
	teamRepo := repository.NewRepository[Team](db)
	memberRepo := repository.NewRepository[Member](db)

	names := make([]string, 0, len(f.Teams))
	teams := make([]*Team, 0, len(f.Teams))
	for _, t := range f.Teams {
		names = append(names, t.Name)
		teams = append(teams, &Team{Name: t.Name})
	}

	seeded := 0
	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := teamRepo.UpsertWithTx(ctx, &tx, []string{"name"}, []string{"name"}, teams...); err != nil {
			return fmt.Errorf("failed to seed teams: %w", err)
		}
		var stored []Team
		if err := tx.NewSelect().Model(&stored).Where("name IN (?)", bun.In(names)).Scan(ctx); err != nil {
			return err
		}
		teamIDs := make(map[string]int64, len(stored))
		for _, t := range stored {
			teamIDs[t.Name] = t.ID
		}

		batch := make([]*Member, 0, seedBatchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			if err := memberRepo.UpsertWithTx(ctx, &tx, []string{"age", "team_id"}, []string{"username"}, batch...); err != nil {
				return fmt.Errorf("failed to seed members: %w", err)
			}
			seeded += len(batch)
			batch = batch[:0]
			return nil
		}
		for _, t := range f.Teams {
			id := teamIDs[t.Name]
			for _, m := range t.Members {
				batch = append(batch, &Member{Username: m.Username, Age: m.Age, TeamID: &id})
				if len(batch) == seedBatchSize {
					if err := flush(); err != nil {
						return err
					}
				}
			}
		}
		return flush()
	})
	if err != nil {
		return 0, err
	}
	log.WithField("teams", len(teams)).WithField("members", seeded).Info("fixture seeded")
	return seeded, nil
}
