// Package reference loads the static lookup tables used around a race card:
// driver ratings, venue geometry and horse histories.
package reference

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reference kinds, also used as the metrics label.
const (
	KindDrivers = "drivers"
	KindTracks  = "tracks"
	KindHorses  = "horses"
)

// Books bundles the three tables.
type Books struct {
	Drivers *DriverBook
	Tracks  *TrackBook
	Horses  *HorseBook
}

// Paths names the files backing each table. Empty paths are skipped.
type Paths struct {
	Drivers string
	Tracks  string
	Horses  string
}

// LoadFiles loads every configured table. A path that does not exist yields
// an empty book; any other failure is returned.
func LoadFiles(p Paths) (Books, error) {
	var (
		books Books
		err   error
	)
	if books.Drivers, err = loadFile(p.Drivers, LoadDrivers); err != nil {
		return Books{}, err
	}
	if books.Tracks, err = loadFile(p.Tracks, LoadTracks); err != nil {
		return Books{}, err
	}
	if books.Horses, err = loadFile(p.Horses, LoadHorses); err != nil {
		return Books{}, err
	}
	return books, nil
}

func loadFile[B any](path string, load func(io.Reader) (*B, error)) (*B, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path) //nolint:gosec // operator supplied path
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrOpen, path, err)
	}
	defer f.Close() //nolint:errcheck // read-only
	b, err := load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}
