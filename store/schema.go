package store

// Schema contains the complete DDL for the jobfill tables.
const Schema = `
-- User profile: single row, full profile as JSON
CREATE TABLE IF NOT EXISTS user_profile (
    id         INTEGER PRIMARY KEY CHECK (id = 1),
    profile    TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);

-- Site configs: per-domain autofill configuration
CREATE TABLE IF NOT EXISTS site_configs (
    domain           TEXT PRIMARY KEY,
    field_mappings   TEXT NOT NULL DEFAULT '{}',
    custom_selectors TEXT NOT NULL DEFAULT '{}',
    enabled          INTEGER NOT NULL DEFAULT 1,
    updated_at       INTEGER NOT NULL
);

-- Resume: single uploaded PDF, validated on upload
CREATE TABLE IF NOT EXISTS resume (
    id          INTEGER PRIMARY KEY CHECK (id = 1),
    filename    TEXT NOT NULL,
    data        BLOB NOT NULL,
    page_count  INTEGER NOT NULL DEFAULT 0,
    uploaded_at INTEGER NOT NULL
);
`
