// ladder-mcp: MCP server for club doubles session scheduling
// SPDX-License-Identifier: MIT
//
// Multi-restart optimizer: independent greedy constructions, keep the best.

package scheduler

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"ladder-mcp/internal/fanout"
)

// DefaultRestarts is the number of independent constructions per Generate call.
// Work grows linearly with restarts x roster size x games per player.
const DefaultRestarts = 2000

var matchNamespace = uuid.NewV5(uuid.NamespaceURL, "ladder-mcp/match")

// Options tunes a Generate call. The zero value uses the defaults.
type Options struct {
	Restarts int
	// Workers bounds concurrent restarts; <= 0 means GOMAXPROCS.
	Workers int
	// Seed makes a run reproducible; 0 picks one from the clock.
	Seed    uint64
	Weights *Weights
	// Namespace scopes match ids, typically the session id.
	Namespace string
}

func (o Options) withDefaults(mode Mode) (Options, Weights) {
	if o.Restarts <= 0 {
		o.Restarts = DefaultRestarts
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Seed == 0 {
		o.Seed = uint64(time.Now().UnixNano())
	}
	w := WeightsFor(mode)
	if o.Weights != nil {
		w = *o.Weights
	}
	return o, w
}

// Schedule is the optimizer's result: matches in play order, partitioned
// into consecutive rounds of RoundSize.
type Schedule struct {
	Mode           Mode    `json:"mode"`
	GamesPerPlayer int     `json:"games_per_player"`
	RoundSize      int     `json:"round_size"`
	TargetMatches  int     `json:"target_matches"`
	Matches        []Match `json:"matches"`
	Penalty        float64 `json:"penalty"`
	Seed           uint64  `json:"seed"`
	Restarts       int     `json:"restarts"`
}

// Underfilled reports whether fewer matches were placed than intended.
func (s Schedule) Underfilled() bool { return len(s.Matches) < s.TargetMatches }

// Rounds slices the matches into rounds; the last round may be short.
func (s Schedule) Rounds() [][]Match {
	return chunk(s.Matches, s.RoundSize)
}

type candidate struct {
	matches []Match
	penalty float64
}

// Generate runs the constructor Options.Restarts times with independent
// randomness and returns the lowest-penalty schedule. Ties keep the earliest
// restart, so a fixed seed gives the same result for any worker count.
// Rosters of fewer than four players produce an empty schedule, not an error.
func Generate(ctx context.Context, players []Player, gamesPerPlayer int, mode Mode, opts Options) (Schedule, error) {
	if mode != ModeSocial && mode != ModeCompetitive {
		return Schedule{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	if err := checkGames(gamesPerPlayer); err != nil {
		return Schedule{}, err
	}
	if err := checkRoster(players); err != nil {
		return Schedule{}, err
	}
	opts, w := opts.withDefaults(mode)
	out := Schedule{
		Mode:           mode,
		GamesPerPlayer: gamesPerPlayer,
		RoundSize:      RoundSize(len(players)),
		TargetMatches:  TargetMatches(len(players), gamesPerPlayer),
		Matches:        []Match{},
		Seed:           opts.Seed,
		Restarts:       opts.Restarts,
	}
	if out.TargetMatches == 0 {
		return out, nil
	}

	roster := make([]Player, len(players))
	copy(roster, players)

	results, err := fanout.Fanout(ctx, fanout.Indexes(opts.Restarts), opts.Workers, func(ctx context.Context, i int) (candidate, error) {
		matches := construct(roster, gamesPerPlayer, mode, w, restartRand(opts.Seed, i))
		return candidate{matches: matches, penalty: Evaluate(matches, roster, w)}, nil
	})
	if err != nil {
		return Schedule{}, err
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].penalty < results[best].penalty {
			best = i
		}
	}
	out.Penalty = results[best].penalty
	out.Matches = results[best].matches
	if out.Matches == nil {
		out.Matches = []Match{}
	}
	prefix := matchIDPrefix(opts.Namespace, roster, opts.Seed, best)
	for n := range out.Matches {
		out.Matches[n].ID = uuid.NewV5(matchNamespace, prefix+fmt.Sprint(n)).String()
	}
	return out, nil
}

// matchIDPrefix names a run: the namespace, the sorted roster, the seed and
// the winning restart. Ids are stable for a rerun and disjoint across rosters.
func matchIDPrefix(namespace string, roster []Player, seed uint64, restart int) string {
	ids := make([]string, len(roster))
	for i, p := range roster {
		ids[i] = p.ID
	}
	sort.Strings(ids)
	return fmt.Sprintf("%s|%s|%d/%d/", namespace, strings.Join(ids, ","), seed, restart)
}

// restartRand gives restart i its own generator; streams differ per index.
func restartRand(seed uint64, i int) *rand.Rand {
	return rand.New(rand.NewPCG(seed, uint64(i)))
}

func chunk(matches []Match, size int) [][]Match {
	if size < 1 {
		size = 1
	}
	var rounds [][]Match
	for start := 0; start < len(matches); start += size {
		end := start + size
		if end > len(matches) {
			end = len(matches)
		}
		rounds = append(rounds, matches[start:end])
	}
	return rounds
}
