package store

const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	submitter_id TEXT,
	url TEXT NOT NULL,
	status TEXT NOT NULL,
	submitted_at DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_jobs_status ON jobs(status);
CREATE INDEX IF NOT EXISTS idx_jobs_submitted_at ON jobs(submitted_at);

CREATE TABLE IF NOT EXISTS transcripts (
	id TEXT PRIMARY KEY,
	job_id TEXT NOT NULL UNIQUE,
	url TEXT NOT NULL,
	title TEXT,
	duration REAL,
	meta TEXT,

	FOREIGN KEY (job_id) REFERENCES jobs(id)
);

CREATE TABLE IF NOT EXISTS transcription_entries (
	transcript_id TEXT NOT NULL,
	speaker TEXT NOT NULL,
	started_at REAL NOT NULL,
	ended_at REAL NOT NULL,
	contents TEXT NOT NULL,

	FOREIGN KEY (transcript_id) REFERENCES transcripts(id)
);

CREATE INDEX IF NOT EXISTS idx_entries_transcript_id ON transcription_entries(transcript_id);

-- Full-text index over entry contents, kept in sync by triggers.
CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
	contents,
	content='transcription_entries',
	content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS entries_fts_insert AFTER INSERT ON transcription_entries BEGIN
	INSERT INTO entries_fts(rowid, contents) VALUES (new.rowid, new.contents);
END;

CREATE TRIGGER IF NOT EXISTS entries_fts_delete AFTER DELETE ON transcription_entries BEGIN
	INSERT INTO entries_fts(entries_fts, rowid, contents) VALUES ('delete', old.rowid, old.contents);
END;

CREATE TABLE IF NOT EXISTS collections (
	key TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT
);

CREATE TABLE IF NOT EXISTS collection_members (
	collection_id TEXT NOT NULL,
	transcript_id TEXT NOT NULL,

	PRIMARY KEY (collection_id, transcript_id),
	FOREIGN KEY (collection_id) REFERENCES collections(key),
	FOREIGN KEY (transcript_id) REFERENCES transcripts(id)
);

CREATE INDEX IF NOT EXISTS idx_members_transcript_id ON collection_members(transcript_id);
`
