// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// SQL statements and schema for the session store.

package dbsql

const (
	QueryServerVersion = "SHOW server_version"
	QueryTableExists   = "SELECT to_regclass($1) IS NOT NULL"

	QuerySession = `SELECT id, name, games_per_player, mode, generated_at
FROM ladder_sessions WHERE id = $1`

	QueryRoster = `SELECT p.id, p.first_name, p.last_name, p.skill_rating, p.hidden_ranking, sp.target_games
FROM ladder_session_players sp
JOIN ladder_players p ON p.id = sp.player_id
WHERE sp.session_id = $1 AND sp.active
ORDER BY sp.position, p.id`

	QueryMatches = `SELECT id::text, team_a, team_b, score_a, score_b
FROM ladder_matches WHERE session_id = $1 ORDER BY seq`

	QueryCountMatches = `SELECT count(*), count(*) FILTER (WHERE score_a IS NOT NULL AND score_b IS NOT NULL)
FROM ladder_matches WHERE session_id = $1`

	QueryLockSession = "SELECT id FROM ladder_sessions WHERE id = $1 FOR UPDATE"

	QueryDeleteMatches = "DELETE FROM ladder_matches WHERE session_id = $1"

	QueryInsertMatch = `INSERT INTO ladder_matches (id, session_id, seq, round, team_a, team_b)
VALUES ($1::uuid, $2, $3, $4, $5, $6)`

	QueryUpsertPlayer = `INSERT INTO ladder_players (id, first_name, last_name, skill_rating, hidden_ranking)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
	skill_rating = EXCLUDED.skill_rating, hidden_ranking = EXCLUDED.hidden_ranking`

	QueryInsertSession = `INSERT INTO ladder_sessions (id, name, games_per_player, mode)
VALUES ($1, $2, $3, $4)`

	QueryInsertSessionPlayer = `INSERT INTO ladder_session_players (session_id, player_id, position, target_games)
VALUES ($1, $2, $3, $4)`

	QueryRecordScore = `UPDATE ladder_matches SET score_a = $3, score_b = $4
WHERE session_id = $1 AND id = $2::uuid`

	QueryMarkGenerated = `UPDATE ladder_sessions
SET games_per_player = $2, mode = $3, generated_at = now()
WHERE id = $1`
)

// Schema is applied by Store.Migrate; statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS ladder_players (
	id             text PRIMARY KEY,
	first_name     text NOT NULL DEFAULT '',
	last_name      text NOT NULL DEFAULT '',
	skill_rating   double precision NOT NULL DEFAULT 0,
	hidden_ranking double precision
);

CREATE TABLE IF NOT EXISTS ladder_sessions (
	id               text PRIMARY KEY,
	name             text NOT NULL DEFAULT '',
	games_per_player integer NOT NULL DEFAULT 0,
	mode             text NOT NULL DEFAULT 'SOCIAL',
	generated_at     timestamptz
);

CREATE TABLE IF NOT EXISTS ladder_session_players (
	session_id   text NOT NULL REFERENCES ladder_sessions(id) ON DELETE CASCADE,
	player_id    text NOT NULL REFERENCES ladder_players(id),
	position     integer NOT NULL DEFAULT 0,
	target_games integer NOT NULL DEFAULT 0,
	active       boolean NOT NULL DEFAULT true,
	PRIMARY KEY (session_id, player_id)
);

CREATE TABLE IF NOT EXISTS ladder_matches (
	id         uuid PRIMARY KEY,
	session_id text NOT NULL REFERENCES ladder_sessions(id) ON DELETE CASCADE,
	seq        integer NOT NULL,
	round      integer NOT NULL,
	team_a     text[] NOT NULL,
	team_b     text[] NOT NULL,
	score_a    integer,
	score_b    integer,
	UNIQUE (session_id, seq)
);
`

// Tables lists the relations Migrate creates, for schema detection.
var Tables = []string{"ladder_players", "ladder_sessions", "ladder_session_players", "ladder_matches"}
