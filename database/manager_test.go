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

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type testGroup struct {
	bun.BaseModel `bun:"table:test_groups,alias:grp"`

	ID   int64  `bun:"id,pk,autoincrement"`
	Name string `bun:"name,notnull,unique"`
}

type testItem struct {
	bun.BaseModel `bun:"table:test_items,alias:item"`

	ID      int64  `bun:"id,pk,autoincrement"`
	GroupID int64  `bun:"group_id,notnull"`
	Label   string `bun:"label"`
}

func (*testItem) ForeignKeys() []ForeignKeyConstraint {
	return []ForeignKeyConstraint{{Column: "group_id", ReferenceTable: "test_groups", ReferenceColumn: "id", OnDelete: "cascade"}}
}

func init() {
	RegisteredModel(NewModelAdapter((*testItem)(nil), 20))
	RegisteredModel(NewModelAdapter((*testGroup)(nil), 10))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestInitDBMigratesAndSeeds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "sql", "common", "001_groups.sql"),
		"-- groups\nINSERT INTO test_groups (name) VALUES ('alpha');\nINSERT INTO test_groups (name)\n  VALUES ('beta');\n")
	writeFile(t, filepath.Join(dir, "sql", "environments", "test", "001_items.sql"),
		"INSERT INTO test_items (group_id, label) VALUES (1, '{{.ENVIRONMENT}}');\n")

	cfg := SQLiteConfig(filepath.Join(dir, "sieve.db"))
	cfg.DataInitConfig = DataInitConfig{AutoInitOnMigration: true, Filepath: filepath.Join(dir, "sql"), Environment: "test"}

	ctx := context.Background()
	db, err := InitDB(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = CloseDB() })
	assert.Same(t, db, GetDB())

	var labels []string
	require.NoError(t, db.NewSelect().Model((*testItem)(nil)).Column("label").Scan(ctx, &labels))
	assert.Equal(t, []string{"test"}, labels)

	groups, err := db.NewSelect().Model((*testGroup)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, groups)

	applied, err := NewMigrationManager(db, nil, cfg).GetAppliedMigrations(ctx)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, "create_base_tables", applied[0].Name)
	assert.Equal(t, "seed_initial_data", applied[1].Name)

	// a second run is a no-op
	require.NoError(t, RunMigrations(ctx))
	groups, err = db.NewSelect().Model((*testGroup)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, groups)

	// foreign keys are enforced
	_, err = db.NewInsert().Model(&testItem{GroupID: 99, Label: "orphan"}).Exec(ctx)
	assert.Error(t, err)

	status := GetHealthStatus(ctx)
	assert.True(t, status.Healthy)
	assert.Equal(t, 1, GetDatabaseStats().MaxOpenConns)
}

func TestInMemorySQLiteKeepsState(t *testing.T) {
	ctx := context.Background()
	manager := NewDatabaseManager(SQLiteConfig(":memory:"))
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { _ = manager.Disconnect() })

	require.NoError(t, manager.RunMigrations(ctx))
	_, err := manager.GetDB().NewInsert().Model(&testGroup{Name: "alpha"}).Exec(ctx)
	require.NoError(t, err)

	n, err := manager.GetDB().NewSelect().Model((*testGroup)(nil)).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCreateFromConfigRejectsUnknownType(t *testing.T) {
	cfg := SQLiteConfig(":memory:")
	cfg.ConnectionConfig.Type = "oracle"
	_, err := NewDatabaseFactory().CreateFromConfig(cfg)
	assert.ErrorContains(t, err, "unsupported database type")

	_, err = InitDB(context.Background(), nil)
	assert.Error(t, err)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, ":memory:", sqliteDSN(""))
	assert.Equal(t, ":memory:", sqliteDSN(":memory:"))
	assert.Equal(t, "sieve.db", sqliteDSN("sieve"))
	assert.Equal(t, "/tmp/x/sieve.sqlite", sqliteDSN("/tmp/x/sieve.sqlite"))
	assert.Equal(t, "./data.d/sieve.db", sqliteDSN("./data.d/sieve"))
	assert.Equal(t, "file:test?mode=memory", sqliteDSN("file:test?mode=memory"))
}

func TestForeignKeyValidate(t *testing.T) {
	assert.NoError(t, ForeignKeyConstraint{Column: "a", ReferenceTable: "b", ReferenceColumn: "id", OnDelete: "set null"}.Validate())
	assert.Error(t, ForeignKeyConstraint{ReferenceTable: "b", ReferenceColumn: "id"}.Validate())
	assert.Error(t, ForeignKeyConstraint{Column: "a", ReferenceTable: "b", ReferenceColumn: "id", OnUpdate: "explode"}.Validate())

	constraints, err := foreignKeysOf((*testItem)(nil))
	require.NoError(t, err)
	assert.Len(t, constraints, 1)
	constraints, err = foreignKeysOf((*testGroup)(nil))
	require.NoError(t, err)
	assert.Empty(t, constraints)
}

func TestRegistryOrdersByPriority(t *testing.T) {
	r := newModelRegistry()
	r.Register(NewModelAdapter((*testItem)(nil), 20))
	r.Register(NewModelAdapter((*testGroup)(nil), 10))
	r.Register(NewModelAdapter((*testGroup)(nil), 5))

	models := r.Models()
	require.Len(t, models, 2)
	assert.Equal(t, 5, models[0].Priority())
	assert.IsType(t, (*testItem)(nil), models[1].Instance())
}

func TestSplitSQLStatements(t *testing.T) {
	stmts := splitSQLStatements("-- c\nSELECT 1;\n\nINSERT INTO t\nVALUES (1);\nSELECT 2")
	assert.Equal(t, []string{"SELECT 1;", "INSERT INTO t VALUES (1);", "SELECT 2"}, stmts)
	assert.Equal(t, 1, parseFileOrder("001_teams.sql"))
	assert.Equal(t, 999, parseFileOrder("teams.sql"))
}
