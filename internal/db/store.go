// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// PostgreSQL-backed session store: rosters in, schedules out.

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	dbsql "ladder-mcp/internal/db/sql"
	"ladder-mcp/internal/scheduler"
)

var (
	ErrNotFound          = errors.New("session not found")
	ErrSessionHasResults = errors.New("session already has scored matches")
)

// Session is the stored header of one club session.
type Session struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	GamesPerPlayer int            `json:"games_per_player"`
	Mode           scheduler.Mode `json:"mode"`
	GeneratedAt    *time.Time     `json:"generated_at,omitempty"`
}

// MatchCounts summarises a session's stored matches.
type MatchCounts struct {
	Total  int `json:"total"`
	Scored int `json:"scored"`
}

// SchemaStatus reports which ladder tables exist.
type SchemaStatus struct {
	ServerVersion string          `json:"server_version"`
	Tables        map[string]bool `json:"tables"`
}

// Ready reports whether every table is present.
func (s SchemaStatus) Ready() bool {
	for _, ok := range s.Tables {
		if !ok {
			return false
		}
	}
	return len(s.Tables) > 0
}

type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Migrate creates the ladder tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, dbsql.Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) DetectSchema(ctx context.Context) (SchemaStatus, error) {
	st := SchemaStatus{Tables: make(map[string]bool, len(dbsql.Tables))}
	if err := s.pool.QueryRow(ctx, dbsql.QueryServerVersion).Scan(&st.ServerVersion); err != nil {
		return st, err
	}
	for _, t := range dbsql.Tables {
		var ok bool
		if err := s.pool.QueryRow(ctx, dbsql.QueryTableExists, t).Scan(&ok); err != nil {
			return st, err
		}
		st.Tables[t] = ok
	}
	return st, nil
}

// CreateSession stores a session header with its roster, upserting players.
func (s *Store) CreateSession(ctx context.Context, sess Session, players []scheduler.Player) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, p := range players {
			batch.Queue(dbsql.QueryUpsertPlayer, p.ID, p.FirstName, p.LastName, p.SkillRating, p.HiddenRanking)
		}
		batch.Queue(dbsql.QueryInsertSession, sess.ID, sess.Name, sess.GamesPerPlayer, string(sess.Mode))
		for i, p := range players {
			batch.Queue(dbsql.QueryInsertSessionPlayer, sess.ID, p.ID, i, p.TargetGames)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("create session %s: %w", sess.ID, err)
		}
		return nil
	})
}

func (s *Store) LoadSession(ctx context.Context, id string) (Session, error) {
	var sess Session
	var mode string
	err := s.pool.QueryRow(ctx, dbsql.QuerySession, id).Scan(&sess.ID, &sess.Name, &sess.GamesPerPlayer, &mode, &sess.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Session{}, err
	}
	sess.Mode = scheduler.Mode(mode)
	return sess, nil
}

// LoadRoster returns the active players of a session in roster order.
func (s *Store) LoadRoster(ctx context.Context, sessionID string) ([]scheduler.Player, error) {
	rows, err := s.pool.Query(ctx, dbsql.QueryRoster, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var players []scheduler.Player
	for rows.Next() {
		var p scheduler.Player
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.SkillRating, &p.HiddenRanking, &p.TargetGames); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Store) LoadMatches(ctx context.Context, sessionID string) ([]scheduler.Match, error) {
	rows, err := s.pool.Query(ctx, dbsql.QueryMatches, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var matches []scheduler.Match
	for rows.Next() {
		var m scheduler.Match
		if err := rows.Scan(&m.ID, &m.TeamA, &m.TeamB, &m.ScoreA, &m.ScoreB); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (s *Store) CountMatches(ctx context.Context, sessionID string) (MatchCounts, error) {
	var c MatchCounts
	err := s.pool.QueryRow(ctx, dbsql.QueryCountMatches, sessionID).Scan(&c.Total, &c.Scored)
	return c, err
}

// RecordScore sets the final score of one stored match.
func (s *Store) RecordScore(ctx context.Context, sessionID, matchID string, scoreA, scoreB int) error {
	tag, err := s.pool.Exec(ctx, dbsql.QueryRecordScore, sessionID, matchID, scoreA, scoreB)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: match %s", ErrNotFound, matchID)
	}
	return nil
}

// ReplaceSchedule swaps a session's matches for sched inside one
// transaction. The session row is locked so two concurrent replacements
// serialize; a session with recorded scores is never overwritten.
func (s *Store) ReplaceSchedule(ctx context.Context, sessionID string, sched scheduler.Schedule) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		var locked string
		if err := tx.QueryRow(ctx, dbsql.QueryLockSession, sessionID).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
			}
			return err
		}
		var c MatchCounts
		if err := tx.QueryRow(ctx, dbsql.QueryCountMatches, sessionID).Scan(&c.Total, &c.Scored); err != nil {
			return err
		}
		if c.Scored > 0 {
			return fmt.Errorf("%w: %d scored", ErrSessionHasResults, c.Scored)
		}
		if _, err := tx.Exec(ctx, dbsql.QueryDeleteMatches, sessionID); err != nil {
			return fmt.Errorf("delete matches: %w", err)
		}

		batch := &pgx.Batch{}
		size := sched.RoundSize
		if size < 1 {
			size = 1
		}
		for i, m := range sched.Matches {
			batch.Queue(dbsql.QueryInsertMatch, m.ID, sessionID, i+1, i/size+1, m.TeamA, m.TeamB)
		}
		batch.Queue(dbsql.QueryMarkGenerated, sessionID, sched.GamesPerPlayer, string(sched.Mode))
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert matches: %w", err)
		}
		s.logger.Info("schedule replaced",
			zap.String("session_id", sessionID),
			zap.Int("matches", len(sched.Matches)),
			zap.Int("previous", c.Total))
		return nil
	})
}
