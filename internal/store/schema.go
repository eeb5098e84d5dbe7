package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    file_path            TEXT PRIMARY KEY,
    date                 TEXT NOT NULL,
    description          TEXT NOT NULL,
    amount_cents         INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    file_path            TEXT NOT NULL REFERENCES transactions(file_path) ON DELETE CASCADE,
    kind                 TEXT NOT NULL CHECK (kind IN ('account', 'budget')),
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    amount_cents         INTEGER NOT NULL,
    PRIMARY KEY (file_path, kind, position)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
CREATE INDEX IF NOT EXISTS idx_entries_name ON entries(kind, name);
`
