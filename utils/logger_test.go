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

package utils

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("verbose"))
}

func TestNewLoggerIsRegistered(t *testing.T) {
	l := NewLogger("TEST-REG")
	assert.Same(t, l, NewLogger("TEST-REG"))
	assert.True(t, SetLoggerLevel("TEST-REG", "error"))
	assert.Equal(t, logrus.ErrorLevel, l.GetLevel())
	assert.False(t, SetLoggerLevel("missing", "debug"))
}

func TestTextFormatterAppendsFields(t *testing.T) {
	color.NoColor = true
	entry := &logrus.Entry{
		Time:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "page served",
		Data:    logrus.Fields{"total": 8, "strategy": "deferred"},
	}
	b, err := (&Log4jColorFormatter{LoggerName: "SIEVE", NameWidth: 10}).Format(entry)
	require.NoError(t, err)
	line := string(b)
	assert.Contains(t, line, "2025-01-02 03:04:05.000")
	assert.Contains(t, line, "   INFO")
	assert.Contains(t, line, "page served strategy=deferred total=8")
}

func TestJSONFormatter(t *testing.T) {
	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.WarnLevel,
		Message: "slow query",
		Data:    logrus.Fields{"error": errors.New("boom")},
	}
	b, err := (&JSONLogFormatter{LoggerName: "DATABASE"}).Format(entry)
	require.NoError(t, err)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &rec))
	assert.Equal(t, "warning", rec["level"])
	assert.Equal(t, "DATABASE", rec["logger"])
	assert.Equal(t, map[string]interface{}{"error": "boom"}, rec["fields"])
}

func TestShortCaller(t *testing.T) {
	assert.Equal(t, "member/service.go:42", shortCaller("/src/sieve/member/service.go", 42))
	assert.Equal(t, "main.go:1", shortCaller("main.go", 1))
}

func TestEnvDefaultBool(t *testing.T) {
	t.Setenv("SIEVE_TEST_FLAG", "false")
	assert.False(t, EnvDefaultBool("SIEVE_TEST_FLAG", true))
	t.Setenv("SIEVE_TEST_FLAG", "1")
	assert.True(t, EnvDefaultBool("SIEVE_TEST_FLAG", false))
	t.Setenv("SIEVE_TEST_FLAG", "maybe")
	assert.True(t, EnvDefaultBool("SIEVE_TEST_FLAG", true))
	assert.False(t, EnvDefaultBool("SIEVE_TEST_UNSET", false))
}
