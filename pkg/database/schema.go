package database

// TableName holds every ledger pair in both SQL backends.
const TableName = "kv_store"

// PostgresSchema creates the ledger table. Safe to run repeatedly.
// bytea compares byte-wise, so ORDER BY key matches kv scan order.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key   BYTEA PRIMARY KEY,
    value BYTEA NOT NULL
);
`

// PostgresDropSchema removes the ledger table.
const PostgresDropSchema = `DROP TABLE IF EXISTS kv_store;`

// SQLiteSchema creates the ledger table in SQLite, where BLOBs compare with memcmp.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key   BLOB PRIMARY KEY,
    value BLOB
) WITHOUT ROWID;
`
