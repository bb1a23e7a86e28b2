package catalog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"boxart/internal/logging"
)

type gameElement struct {
	DatabaseID string `xml:"DatabaseID"`
	Name       string `xml:"Name"`
	Platform   string `xml:"Platform"`
}

type imageElement struct {
	DatabaseID string `xml:"DatabaseID"`
	Region     string `xml:"Region"`
	Type       string `xml:"Type"`
	FileName   string `xml:"FileName"`
}

// Parse streams a LaunchBox Metadata.xml file into a Catalog. The file is
// decoded element by element so multi-hundred-MB catalogs do not need to fit
// in memory as a DOM.
func Parse(path string, logger *slog.Logger) (*Catalog, error) {
	log := logging.NewComponentLogger(logger, "catalog")

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	start := time.Now()
	games, images, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	cat := New(games, images)
	log.Info("parsed catalog",
		logging.String("path", path),
		logging.Int("games", cat.GameCount()),
		logging.Int("images", cat.ImageCount()),
		logging.Duration("elapsed", time.Since(start)))
	return cat, nil
}

func decode(r io.Reader) ([]Game, []Image, error) {
	decoder := xml.NewDecoder(r)
	var games []Game
	var images []Image

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "Game":
			var elem gameElement
			if err := decoder.DecodeElement(&elem, &start); err != nil {
				return nil, nil, fmt.Errorf("decode Game element: %w", err)
			}
			games = append(games, Game{
				DatabaseID: elem.DatabaseID,
				Name:       elem.Name,
				Platform:   elem.Platform,
			})
		case "GameImage":
			var elem imageElement
			if err := decoder.DecodeElement(&elem, &start); err != nil {
				return nil, nil, fmt.Errorf("decode GameImage element: %w", err)
			}
			images = append(images, Image{
				DatabaseID: elem.DatabaseID,
				Region:     elem.Region,
				Type:       elem.Type,
				FileName:   elem.FileName,
			})
		}
	}
	return games, images, nil
}
