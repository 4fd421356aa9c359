package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single pooled connection also keeps
	// ":memory:" databases from splitting per connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed sample items if the table is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	// Timestamps are stored with millisecond precision so updated_at moves
	// even for updates landing within the same second.
	schema := `
CREATE TABLE IF NOT EXISTS items(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  description TEXT,
  category TEXT,
  price REAL,
  quantity INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
  updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
);
CREATE INDEX IF NOT EXISTS idx_items_category   ON items(category);
CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);

CREATE TRIGGER IF NOT EXISTS items_touch_updated_at
AFTER UPDATE ON items
BEGIN
  UPDATE items SET updated_at = strftime('%Y-%m-%dT%H:%M:%fZ','now') WHERE id = NEW.id;
END;
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM items`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting sample items")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO items(name, description, category, price, quantity) VALUES
	  ('Laptop','High-performance laptop for development','Electronics',999.99,5),
	  ('Coffee Mug','Ceramic mug for hot beverages','Kitchen',12.99,20),
	  ('Python Book','Learn Python programming','Books',39.99,15),
	  ('Wireless Mouse','Ergonomic wireless mouse','Electronics',29.99,30),
	  ('Notebook','Spiral-bound notebook','Office',4.99,50)`)

	return tx.Commit()
}
