// Package database provides connection management, migrations, foreign key
// declarations, SQL seed files, configuration types, logging, query hooks,
// health checks and driver error classification built on top of Bun.
package database
