package storage

const schema = `
-- Saved code snapshots, keyed by problem number. A fingerprint of the
-- normalized code prevents duplicate saves of identical solutions.
CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    problem_number INTEGER NOT NULL,
    language TEXT NOT NULL,
    code TEXT NOT NULL,
    kind TEXT NOT NULL DEFAULT 'solution',
    fingerprint TEXT NOT NULL,
    created_at DATETIME NOT NULL,

    UNIQUE(problem_number, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_problem ON snapshots(problem_number);

-- Draft form state per problem, restored when the user returns to it.
CREATE TABLE IF NOT EXISTS drafts (
    problem_number INTEGER PRIMARY KEY,
    remark TEXT NOT NULL DEFAULT '',
    alt_methods TEXT NOT NULL DEFAULT '',
    expertise TEXT NOT NULL DEFAULT '',
    notes TEXT NOT NULL DEFAULT '',
    updated_at DATETIME NOT NULL
);
`
