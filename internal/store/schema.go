package store

const schema = `
CREATE TABLE IF NOT EXISTS seo_analyses (
    id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    og_tags TEXT NOT NULL DEFAULT '{}',
    twitter_tags TEXT NOT NULL DEFAULT '{}',
    score INTEGER NOT NULL DEFAULT 0,
    recommendations TEXT NOT NULL DEFAULT '[]',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_seo_analyses_created ON seo_analyses(created_at);
CREATE INDEX IF NOT EXISTS idx_seo_analyses_url ON seo_analyses(url);
`
