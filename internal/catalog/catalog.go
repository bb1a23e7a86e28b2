package catalog

import (
	"sort"
	"strings"
)

// Game is one catalog entity: a title on a platform.
type Game struct {
	DatabaseID string
	Name       string
	Platform   string
}

// Image references one remote asset belonging to a game. Region and Type may
// be empty; FileName is the path component on the image host.
type Image struct {
	DatabaseID string
	Region     string
	Type       string
	FileName   string
}

// Catalog holds the loaded metadata, indexed for platform and per-game access.
type Catalog struct {
	games           []Game
	gamesByPlatform map[string][]Game
	imagesByGame    map[string][]Image
	imageCount      int
}

// New builds a catalog from raw rows, dropping malformed entries: games
// without a database ID, name, or platform, and images without a database ID
// or file name.
func New(games []Game, images []Image) *Catalog {
	c := &Catalog{
		gamesByPlatform: make(map[string][]Game),
		imagesByGame:    make(map[string][]Image),
	}
	for _, g := range games {
		g.DatabaseID = strings.TrimSpace(g.DatabaseID)
		g.Name = strings.TrimSpace(g.Name)
		g.Platform = strings.TrimSpace(g.Platform)
		if g.DatabaseID == "" || g.Name == "" || g.Platform == "" {
			continue
		}
		c.games = append(c.games, g)
		c.gamesByPlatform[g.Platform] = append(c.gamesByPlatform[g.Platform], g)
	}
	for _, img := range images {
		img.DatabaseID = strings.TrimSpace(img.DatabaseID)
		img.FileName = strings.TrimSpace(img.FileName)
		if img.DatabaseID == "" || img.FileName == "" {
			continue
		}
		img.Region = strings.TrimSpace(img.Region)
		img.Type = strings.TrimSpace(img.Type)
		c.imagesByGame[img.DatabaseID] = append(c.imagesByGame[img.DatabaseID], img)
		c.imageCount++
	}
	return c
}

// Platforms returns every platform label in the catalog, sorted.
func (c *Catalog) Platforms() []string {
	platforms := make([]string, 0, len(c.gamesByPlatform))
	for platform := range c.gamesByPlatform {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)
	return platforms
}

// GamesForPlatform returns the games on the given platform (exact label match).
func (c *Catalog) GamesForPlatform(platform string) []Game {
	return c.gamesByPlatform[platform]
}

// Games returns every game in the catalog.
func (c *Catalog) Games() []Game {
	return c.games
}

// ImagesForGame returns the image references for a game's database ID.
func (c *Catalog) ImagesForGame(databaseID string) []Image {
	return c.imagesByGame[databaseID]
}

// GameCount returns the number of valid games loaded.
func (c *Catalog) GameCount() int {
	return len(c.games)
}

// ImageCount returns the number of valid image references loaded.
func (c *Catalog) ImageCount() int {
	return c.imageCount
}

// Rows returns the underlying game and image rows, for index persistence.
func (c *Catalog) Rows() ([]Game, []Image) {
	images := make([]Image, 0, c.imageCount)
	ids := make([]string, 0, len(c.imagesByGame))
	for id := range c.imagesByGame {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		images = append(images, c.imagesByGame[id]...)
	}
	return c.games, images
}
