package selection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"boxart/internal/catalog"
	"boxart/internal/textutil"
)

// ErrNoneSelected reports that the options select no platforms at all.
var ErrNoneSelected = errors.New("no platforms selected")

// Options describes what the operator asked for.
type Options struct {
	// Platforms holds platform labels, matched case-insensitively.
	Platforms []string
	// All selects every platform in the catalog.
	All bool
	// GameQuery optionally narrows the selection to the single best fuzzy
	// match among the selected platforms' games.
	GameQuery string
}

// Match pairs a game with its similarity score for a query.
type Match struct {
	Game  catalog.Game
	Score float64
}

var folder = cases.Fold()

// ResolvePlatforms maps the requested platform names to their exact catalog
// labels. Returns ErrNoneSelected when nothing was requested and an error
// naming the first platform that does not exist in the catalog.
func ResolvePlatforms(cat *catalog.Catalog, opts Options) ([]string, error) {
	if opts.All {
		return cat.Platforms(), nil
	}
	if len(opts.Platforms) == 0 {
		return nil, ErrNoneSelected
	}

	byFolded := make(map[string]string)
	for _, label := range cat.Platforms() {
		byFolded[folder.String(label)] = label
	}

	seen := make(map[string]struct{})
	resolved := make([]string, 0, len(opts.Platforms))
	for _, requested := range opts.Platforms {
		trimmed := strings.TrimSpace(requested)
		if trimmed == "" {
			continue
		}
		label, ok := byFolded[folder.String(trimmed)]
		if !ok {
			return nil, fmt.Errorf("platform %q not found in catalog", trimmed)
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		resolved = append(resolved, label)
	}
	if len(resolved) == 0 {
		return nil, ErrNoneSelected
	}
	sort.Strings(resolved)
	return resolved, nil
}

// Resolve returns the games covered by opts: every game on the selected
// platforms, optionally narrowed to the single best match for GameQuery.
func Resolve(cat *catalog.Catalog, opts Options) ([]catalog.Game, error) {
	platforms, err := ResolvePlatforms(cat, opts)
	if err != nil {
		return nil, err
	}

	var games []catalog.Game
	for _, platform := range platforms {
		games = append(games, cat.GamesForPlatform(platform)...)
	}

	query := strings.TrimSpace(opts.GameQuery)
	if query == "" {
		return games, nil
	}

	matches := SearchGames(games, query, 1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("no game matching %q on the selected platforms", query)
	}
	return []catalog.Game{matches[0].Game}, nil
}

// SearchGames ranks games against a fuzzy query and returns up to limit
// matches, best first. Games whose titles share no tokens with the query are
// omitted.
func SearchGames(games []catalog.Game, query string, limit int) []Match {
	queryFP := textutil.NewFingerprint(query)
	if queryFP == nil || limit <= 0 {
		return nil
	}

	matches := make([]Match, 0, len(games))
	for _, game := range games {
		score := textutil.CosineSimilarity(queryFP, textutil.NewFingerprint(game.Name))
		if score <= 0 {
			continue
		}
		matches = append(matches, Match{Game: game, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Game.Name < matches[j].Game.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
