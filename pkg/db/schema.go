package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per "rfx scrape" invocation
CREATE TABLE IF NOT EXISTS scrape_runs (
    run_id TEXT PRIMARY KEY,     -- uuid
    filter TEXT NOT NULL DEFAULT '',
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    recipe_count INTEGER NOT NULL DEFAULT 0,
    error_count INTEGER NOT NULL DEFAULT 0,
    status TEXT NOT NULL DEFAULT 'running'  -- running, completed, failed
);

CREATE INDEX IF NOT EXISTS idx_scrape_runs_started ON scrape_runs(started_at);

-- Recipes keyed by URL; numeric fields are NULL when missing
CREATE TABLE IF NOT EXISTS recipes (
    recipe_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL DEFAULT '',
    rating REAL,
    prep_time REAL,
    cook_time REAL,
    total_time REAL,
    servings REAL,
    ingredients TEXT NOT NULL DEFAULT '',   -- comma-space joined
    image_paths TEXT NOT NULL DEFAULT '',
    run_id TEXT REFERENCES scrape_runs(run_id) ON DELETE SET NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recipes_category ON recipes(category);
CREATE INDEX IF NOT EXISTS idx_recipes_run ON recipes(run_id);
`
