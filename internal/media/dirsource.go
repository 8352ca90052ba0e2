package media

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TimestampExtractor resolves the capture timestamp (and optional GPS
// coordinates) for a media file. EXIF parsing lives behind this interface;
// the default falls back to the file's modification time.
type TimestampExtractor interface {
	Extract(path string) (time.Time, *Coordinates, error)
}

// ModTimeExtractor reads the timestamp from the filesystem. It is the
// default extractor and is also useful in tests, where mod times are easy
// to control.
type ModTimeExtractor struct{}

func (ModTimeExtractor) Extract(path string) (time.Time, *Coordinates, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, nil, err
	}
	return info.ModTime(), nil, nil
}

var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".heic": true,
	".mp4":  true,
	".mov":  true,
	".avi":  true,
}

// DirSource walks a directory tree once and yields an Item per media file.
// The walk happens on the first call to Next; paths are emitted in sorted
// order so a scan is reproducible across platforms.
type DirSource struct {
	root      string
	extractor TimestampExtractor

	paths  []string
	pos    int
	walked bool
}

// NewDirSource creates a source over root. A nil extractor defaults to
// ModTimeExtractor.
func NewDirSource(root string, extractor TimestampExtractor) *DirSource {
	if extractor == nil {
		extractor = ModTimeExtractor{}
	}
	return &DirSource{root: root, extractor: extractor}
}

func (s *DirSource) walk() error {
	s.walked = true
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if !mediaExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		s.paths = append(s.paths, path)
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(s.paths)
	return nil
}

// Next returns the next media item. Extraction failures come back as
// *SourceReadError so the caller can skip the file and keep going.
func (s *DirSource) Next() (Item, error) {
	if !s.walked {
		if err := s.walk(); err != nil {
			return Item{}, err
		}
	}
	if s.pos >= len(s.paths) {
		return Item{}, io.EOF
	}
	path := s.paths[s.pos]
	s.pos++

	ts, coords, err := s.extractor.Extract(path)
	if err != nil {
		return Item{}, &SourceReadError{Path: path, Err: err}
	}
	return NewItem(path, ts, coords), nil
}
