// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Roster and match types shared by the scheduler.

package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects the weighting used when building and scoring a schedule.
type Mode string

const (
	ModeSocial      Mode = "SOCIAL"
	ModeCompetitive Mode = "COMPETITIVE"
)

var (
	ErrInvalidMode   = errors.New("invalid schedule mode")
	ErrInvalidRoster = errors.New("invalid roster")
	ErrInvalidGames  = errors.New("invalid games per player")
)

// MaxGamesPerPlayer bounds a single generation so match counts stay far from
// int overflow and allocation limits.
const MaxGamesPerPlayer = 1024

// ParseMode accepts "social" or "competitive" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeSocial:
		return ModeSocial, nil
	case ModeCompetitive:
		return ModeCompetitive, nil
	default:
		return "", fmt.Errorf("%w: %q (want SOCIAL or COMPETITIVE)", ErrInvalidMode, s)
	}
}

// Player is one roster entry. It is treated as immutable for the duration of a run.
type Player struct {
	ID            string   `json:"id"`
	FirstName     string   `json:"first_name,omitempty"`
	LastName      string   `json:"last_name,omitempty"`
	SkillRating   float64  `json:"skill_rating,omitempty"`
	HiddenRanking *float64 `json:"hidden_ranking,omitempty"`
	// TargetGames overrides the run's games-per-player when > 0.
	TargetGames int `json:"target_games,omitempty"`
}

// Skill is the score used for balancing: the hidden ranking when present,
// otherwise the public skill rating.
func (p Player) Skill() float64 {
	if p.HiddenRanking != nil {
		return *p.HiddenRanking
	}
	return p.SkillRating
}

// DisplayName joins the name parts, falling back to the id.
func (p Player) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.ID
	}
	return name
}

func (p Player) target(gamesPerPlayer int) int {
	if p.TargetGames > 0 {
		return p.TargetGames
	}
	return gamesPerPlayer
}

// Match is a doubles match. ScoreA/ScoreB are nil until played.
type Match struct {
	ID     string   `json:"id,omitempty"`
	TeamA  []string `json:"team_a"`
	TeamB  []string `json:"team_b"`
	ScoreA *int     `json:"score_a,omitempty"`
	ScoreB *int     `json:"score_b,omitempty"`
}

// Scored reports whether both scores are recorded.
func (m Match) Scored() bool { return m.ScoreA != nil && m.ScoreB != nil }

// PlayerIDs returns team A followed by team B.
func (m Match) PlayerIDs() []string {
	out := make([]string, 0, len(m.TeamA)+len(m.TeamB))
	out = append(out, m.TeamA...)
	return append(out, m.TeamB...)
}

// RoundSize is the number of matches per round for a roster of n players.
func RoundSize(n int) int {
	if n/4 < 1 {
		return 1
	}
	return n / 4
}

// TargetMatches is the intended total match count. Generate rejects
// gamesPerPlayer above MaxGamesPerPlayer before calling it.
func TargetMatches(n, gamesPerPlayer int) int {
	if n < 4 || gamesPerPlayer <= 0 {
		return 0
	}
	return n * gamesPerPlayer / 4
}

func checkGames(gamesPerPlayer int) error {
	if gamesPerPlayer > MaxGamesPerPlayer {
		return fmt.Errorf("%w: %d exceeds %d", ErrInvalidGames, gamesPerPlayer, MaxGamesPerPlayer)
	}
	return nil
}

func checkRoster(players []Player) error {
	seen := make(map[string]struct{}, len(players))
	for i, p := range players {
		if p.ID == "" {
			return fmt.Errorf("%w: player at index %d has empty id", ErrInvalidRoster, i)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate player id %q", ErrInvalidRoster, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}
