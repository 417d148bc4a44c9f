package gazetteer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bastiangx/geoserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// FileFormat represents the on-disk encodings of a place list
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML               // [[place]] tables
	FormatBinary             // msgpack snapshot written by Save
)

func (f FileFormat) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatBinary:
		return "msgpack"
	default:
		return "unknown"
	}
}

// binaryVersion is bumped whenever the snapshot layout changes.
const binaryVersion = 1

type tomlFile struct {
	Place []Place `toml:"place"`
}

type snapshot struct {
	Version int     `msgpack:"v"`
	Places  []Place `msgpack:"p"`
}

// DetectFileFormat picks the format from the file extension.
func DetectFileFormat(filename string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return FormatTOML, nil
	case ".bin", ".msgpack":
		return FormatBinary, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
}

// ReadPlaces decodes places from r. Invalid records are skipped with a warning.
func ReadPlaces(r io.Reader, format FileFormat) ([]Place, error) {
	var places []Place
	switch format {
	case FormatTOML:
		var f tomlFile
		if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
			return nil, fmt.Errorf("decode toml places: %w", err)
		}
		places = f.Place
	case FormatBinary:
		var s snapshot
		if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("decode place snapshot: %w", err)
		}
		if s.Version != binaryVersion {
			return nil, fmt.Errorf("unsupported place snapshot version %d", s.Version)
		}
		places = s.Places
	default:
		return nil, fmt.Errorf("unknown format: %v", format)
	}

	valid := places[:0]
	for _, p := range places {
		if err := p.Validate(); err != nil {
			log.Warnf("Skipping place: %v", err)
			continue
		}
		valid = append(valid, p)
	}
	return valid, nil
}

// WritePlaces encodes places as a binary snapshot.
func WritePlaces(w io.Writer, places []Place) error {
	return msgpack.NewEncoder(w).Encode(snapshot{Version: binaryVersion, Places: places})
}

// LoadFile reads filename and indexes its places.
func (g *Gazetteer) LoadFile(filename string) error {
	format, err := DetectFileFormat(filename)
	if err != nil {
		return err
	}

	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open places file %s: %w", filename, err)
	}
	defer f.Close()

	places, err := ReadPlaces(bufio.NewReader(f), format)
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if err := g.AddAll(places); err != nil {
		return err
	}
	log.Debugf("Loaded %d places from %s (%s)", len(places), filename, format)
	return nil
}

// AddAll indexes every place, stopping at the first invalid one.
func (g *Gazetteer) AddAll(places []Place) error {
	for _, p := range places {
		if err := g.Add(p); err != nil {
			return err
		}
	}
	return nil
}

// Save writes every indexed place to filename as a binary snapshot.
func (g *Gazetteer) Save(filename string) error {
	places := g.Places()
	err := utils.WriteFileAtomic(filename, func(w io.Writer) error {
		return WritePlaces(w, places)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

// Open builds a gazetteer from filename.
func Open(filename string, opts Options) (*Gazetteer, error) {
	g := New(opts)
	if err := g.LoadFile(filename); err != nil {
		return nil, err
	}
	return g, nil
}
