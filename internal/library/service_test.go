package library

import (
	"io"
	"os"
	"time"

	"github.com/mediasort/mediasort/internal/config"
	"github.com/mediasort/mediasort/internal/media"
	"github.com/mediasort/mediasort/internal/store/mock"
)

var base = time.Date(2022, 3, 5, 14, 0, 0, 0, time.UTC)

// sliceSource yields a fixed sequence of items and errors.
type sliceSource struct {
	steps []sourceStep
	pos   int
}

type sourceStep struct {
	item media.Item
	err  error
}

func (s *sliceSource) Next() (media.Item, error) {
	if s.pos >= len(s.steps) {
		return media.Item{}, io.EOF
	}
	step := s.steps[s.pos]
	s.pos++
	return step.item, step.err
}

func sourceOf(items ...media.Item) *sliceSource {
	src := &sliceSource{}
	for _, item := range items {
		src.steps = append(src.steps, sourceStep{item: item})
	}
	return src
}

func testConfig() *config.Config {
	return &config.Config{
		InputDir:     "/input",
		OutputDir:    "/output",
		DeleteDir:    "/delete",
		GapHours:     2,
		SetsShown:    10,
		SummaryItems: 3,
		ItemsPerPage: 5,
		MaxItems:     20,
	}
}

// newTestService builds a service over the mock store with filesystem
// hooks that never touch disk: every path reads as absent.
func newTestService() (*Service, *mock.Store) {
	st := mock.New()
	svc := New(st, testConfig())
	svc.stat = func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }
	svc.rename = func(src, dst string) error { return nil }
	svc.mkdir = func(dir string) error { return nil }
	return svc, st
}

func testItem(id string, offset time.Duration) media.Item {
	return media.Item{
		ID:        id,
		Path:      "/input/" + id + ".jpg",
		Timestamp: base.Add(offset),
	}
}
