// Package migrations embeds the SQL schema migrations for every supported database driver.
package migrations

import "embed"

// FS holds the migration files under postgresql/, mysql/ and sqlite/.
//
//go:embed postgresql/*.sql mysql/*.sql sqlite/*.sql
var FS embed.FS
