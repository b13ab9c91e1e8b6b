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
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var referentialActions = []string{"CASCADE", "RESTRICT", "SET NULL", "NO ACTION"}

// ForeignKeyConstraint describes a column referencing another table. It is
// emitted inline with CREATE TABLE so it also works on sqlite, which cannot
// add constraints to an existing table.
type ForeignKeyConstraint struct {
	Column          string
	ReferenceTable  string
	ReferenceColumn string
	OnDelete        string // CASCADE, RESTRICT, SET NULL, NO ACTION
	OnUpdate        string
}

// ForeignKeyDeclarer is implemented by models that reference other tables.
type ForeignKeyDeclarer interface {
	ForeignKeys() []ForeignKeyConstraint
}

// Validate checks the constraint for missing names and unknown actions.
func (fk ForeignKeyConstraint) Validate() error {
	switch {
	case fk.Column == "":
		return fmt.Errorf("column name cannot be empty")
	case fk.ReferenceTable == "":
		return fmt.Errorf("reference table name cannot be empty: %s", fk.Column)
	case fk.ReferenceColumn == "":
		return fmt.Errorf("reference column name cannot be empty: %s -> %s", fk.Column, fk.ReferenceTable)
	}
	for _, action := range []string{fk.OnDelete, fk.OnUpdate} {
		if action != "" && !isReferentialAction(action) {
			return fmt.Errorf("invalid referential action %q on %s -> %s", action, fk.Column, fk.ReferenceTable)
		}
	}
	return nil
}

func isReferentialAction(action string) bool {
	for _, valid := range referentialActions {
		if strings.EqualFold(action, valid) {
			return true
		}
	}
	return false
}

// apply adds the constraint to a CREATE TABLE query.
func (fk ForeignKeyConstraint) apply(q *bun.CreateTableQuery) *bun.CreateTableQuery {
	clause := "(?) REFERENCES ? (?)"
	if fk.OnDelete != "" {
		clause += " ON DELETE " + strings.ToUpper(fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		clause += " ON UPDATE " + strings.ToUpper(fk.OnUpdate)
	}
	return q.ForeignKey(clause, bun.Ident(fk.Column), bun.Ident(fk.ReferenceTable), bun.Ident(fk.ReferenceColumn))
}

// foreignKeysOf returns the validated constraints model declares, if any.
func foreignKeysOf(model interface{}) ([]ForeignKeyConstraint, error) {
	declarer, ok := model.(ForeignKeyDeclarer)
	if !ok {
		return nil, nil
	}
	constraints := declarer.ForeignKeys()
	for _, fk := range constraints {
		if err := fk.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", getModelName(model), err)
		}
	}
	return constraints, nil
}
