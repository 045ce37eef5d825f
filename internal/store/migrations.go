package store

// migration pairs a schema version with the SQL that brings the database
// up to that version.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		sql: `
			CREATE TABLE IF NOT EXISTS schema_version (
				version INTEGER PRIMARY KEY
			);

			CREATE TABLE IF NOT EXISTS cache (
				key        TEXT PRIMARY KEY,
				value      TEXT NOT NULL,
				updated_at TIMESTAMP NOT NULL
			);

			CREATE TABLE IF NOT EXISTS seen_notifications (
				id      TEXT PRIMARY KEY,
				row_id  TEXT NOT NULL,
				seen_at TIMESTAMP NOT NULL
			);

			INSERT INTO schema_version (version) VALUES (1);
		`,
	},
}
