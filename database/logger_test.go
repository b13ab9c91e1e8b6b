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
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerFields(t *testing.T) {
	raw, hook := test.NewNullLogger()
	raw.SetLevel(logrus.DebugLevel)
	l := NewDefaultLogger(raw)

	l.Info("Migration executed successfully", "version", "001", "name", "create_base_tables")
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "Migration executed successfully", entry.Message)
	assert.Equal(t, logrus.Fields{"version": "001", "name": "create_base_tables"}, entry.Data)

	l.Warn("odd", "dangling")
	assert.Equal(t, logrus.Fields{"extra": "dangling"}, hook.LastEntry().Data)

	l.SetLevel(LogLevelError)
	l.Debug("hidden")
	assert.Len(t, hook.Entries, 2)
}
