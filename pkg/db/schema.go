package db

const schema = `
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Pages tables were detected or extracted on
CREATE TABLE IF NOT EXISTS pages (
    page_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL UNIQUE,
    domain TEXT,
    title TEXT,
    site_name TEXT,
    language TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_pages_domain ON pages(domain);

-- One row per detection pass
CREATE TABLE IF NOT EXISTS detections (
    detection_id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    table_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (page_id) REFERENCES pages(page_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_detections_page ON detections(page_id);

-- Tables registered by a detection pass, in registry order
CREATE TABLE IF NOT EXISTS detected_tables (
    detection_id INTEGER NOT NULL,
    table_index INTEGER NOT NULL,
    dialect TEXT NOT NULL,
    columns TEXT NOT NULL,          -- JSON array of column names
    column_indices TEXT NOT NULL,   -- JSON array of physical header indices
    row_count INTEGER NOT NULL DEFAULT 0,
    has_header BOOLEAN DEFAULT 0,
    PRIMARY KEY (detection_id, table_index),
    FOREIGN KEY (detection_id) REFERENCES detections(detection_id) ON DELETE CASCADE
);

-- One row per extraction request
CREATE TABLE IF NOT EXISTS extractions (
    extraction_id INTEGER PRIMARY KEY AUTOINCREMENT,
    page_id INTEGER NOT NULL,
    selection TEXT NOT NULL,        -- JSON selection mask
    include_headers BOOLEAN DEFAULT 0,
    skip_first_data_row BOOLEAN DEFAULT 0,
    success BOOLEAN DEFAULT 0,
    row_count INTEGER NOT NULL DEFAULT 0,
    fault_count INTEGER NOT NULL DEFAULT 0,
    error TEXT,
    export_path TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (page_id) REFERENCES pages(page_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_extractions_page ON extractions(page_id);
`
