package sqlite

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const UploadsSchema = `
	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		original_filename TEXT NOT NULL,
		uploaded_at TIMESTAMP NOT NULL,
		size INTEGER NOT NULL
	);
`

const UsersSchema = `
	CREATE TABLE IF NOT EXISTS users (
		upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		arn TEXT,
		create_date TEXT,
		attached_policies JSON,
		group_list JSON,
		inline_policies JSON,
		tags JSON,
		PRIMARY KEY (upload_id, user_id)
	);
`

const RolesSchema = `
	CREATE TABLE IF NOT EXISTS roles (
		upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		role_id TEXT NOT NULL,
		role_name TEXT NOT NULL,
		arn TEXT,
		create_date TEXT,
		assume_role_policy JSON,
		attached_policies JSON,
		inline_policies JSON,
		tags JSON,
		PRIMARY KEY (upload_id, role_id)
	);
`

const PoliciesSchema = `
	CREATE TABLE IF NOT EXISTS policies (
		upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		policy_id TEXT NOT NULL,
		policy_name TEXT NOT NULL,
		arn TEXT,
		create_date TEXT,
		default_version_id TEXT,
		version_list JSON,
		attachment_count INTEGER NOT NULL DEFAULT 0,
		is_attachable INTEGER NOT NULL DEFAULT 0,
		description TEXT,
		PRIMARY KEY (upload_id, policy_id)
	);
`

const GroupsSchema = `
	CREATE TABLE IF NOT EXISTS groups (
		upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		group_id TEXT NOT NULL,
		group_name TEXT NOT NULL,
		arn TEXT,
		create_date TEXT,
		attached_policies JSON,
		inline_policies JSON,
		PRIMARY KEY (upload_id, group_id)
	);
`

const CurrentUploadSchema = `
	CREATE TABLE IF NOT EXISTS current_upload (
		slot INTEGER PRIMARY KEY CHECK (slot = 1),
		upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE
	);
`

const RecommendationsSchema = `
	CREATE TABLE IF NOT EXISTS llm_recommendations (
		upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		policy_id TEXT NOT NULL,
		policy_name TEXT NOT NULL,
		recommendations JSON NOT NULL,
		rationale TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (upload_id, policy_id)
	);
`

const RecommendedPoliciesSchema = `
	CREATE TABLE IF NOT EXISTS recommended_policies (
		upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		policy_id TEXT NOT NULL,
		policy_name TEXT NOT NULL,
		policy_document JSON NOT NULL,
		explanation TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (upload_id, policy_id)
	);
`

const AttackPathsSchema = `
	CREATE TABLE IF NOT EXISTS attack_paths (
		upload_id TEXT NOT NULL REFERENCES uploads(id) ON DELETE CASCADE,
		policy_id TEXT NOT NULL,
		policy_name TEXT NOT NULL,
		attack_scenarios JSON NOT NULL,
		impact_assessment TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (upload_id, policy_id)
	);
`

var bootQueries = []string{
	UploadsSchema,
	UsersSchema,
	RolesSchema,
	PoliciesSchema,
	GroupsSchema,
	CurrentUploadSchema,
	RecommendationsSchema,
	RecommendedPoliciesSchema,
	AttackPathsSchema,
}

type Settings struct {
	DbPath string
}

// NewDB opens the database file, creating parent directories and the schema
// as needed. The connection pool is capped at one connection so writes
// serialize instead of hitting SQLITE_BUSY.
func NewDB(settings Settings) (*sql.DB, error) {
	if dir := filepath.Dir(settings.DbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := settings.DbPath + "?" + url.Values{
		"_pragma": []string{
			"busy_timeout(30000)",
			"journal_mode(WAL)",
			"synchronous(NORMAL)",
			"foreign_keys(ON)",
		},
	}.Encode()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, query := range bootQueries {
		if _, err := db.Exec(query); err != nil {
			db.Close()
			return nil, fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return db, nil
}
