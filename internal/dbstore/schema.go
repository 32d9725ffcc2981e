package dbstore

// Business keys carry the unique indexes; surrogate ids are opaque.
const schema = `
CREATE TABLE IF NOT EXISTS imported_games (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	storefront TEXT NOT NULL,
	storefront_game_id TEXT NOT NULL,
	playtime INTEGER NOT NULL DEFAULT 0,
	img_icon_url TEXT,
	igdb_match_status TEXT NOT NULL DEFAULT 'PENDING',
	user_id TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (storefront_game_id, user_id, storefront)
);

CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	igdb_id INTEGER NOT NULL UNIQUE,
	title TEXT NOT NULL,
	slug TEXT NOT NULL,
	description TEXT,
	cover_image TEXT,
	release_date TEXT,
	steam_app_id INTEGER,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_steam_app_id ON games (steam_app_id);

CREATE TABLE IF NOT EXISTS genres (
	id TEXT PRIMARY KEY,
	igdb_id INTEGER NOT NULL UNIQUE,
	name TEXT NOT NULL,
	slug TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS platforms (
	id TEXT PRIMARY KEY,
	igdb_id INTEGER NOT NULL UNIQUE,
	name TEXT NOT NULL,
	slug TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS game_genres (
	game_id TEXT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
	genre_id TEXT NOT NULL REFERENCES genres (id) ON DELETE CASCADE,
	PRIMARY KEY (game_id, genre_id)
);

CREATE TABLE IF NOT EXISTS game_platforms (
	game_id TEXT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
	platform_id TEXT NOT NULL REFERENCES platforms (id) ON DELETE CASCADE,
	PRIMARY KEY (game_id, platform_id)
);

CREATE TABLE IF NOT EXISTS library_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	status TEXT NOT NULL,
	platform TEXT,
	user_id TEXT NOT NULL,
	game_id TEXT NOT NULL REFERENCES games (id) ON DELETE CASCADE,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (user_id, game_id)
);
`
