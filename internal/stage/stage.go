// Package stage assembles decoded PXM/PXE data into loadable stages.
//
// Byte sources come from any fs.FS, so callers can load from a
// directory (os.DirFS), an embedded bundle (embed.FS) or a test map
// (fstest.MapFS).
package stage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danmuck/stagectl/internal/config"
	logs "github.com/danmuck/stagectl/internal/logging"
	"github.com/danmuck/stagectl/internal/observability"
	"github.com/danmuck/stagectl/internal/stage/pxe"
	"github.com/danmuck/stagectl/internal/stage/pxm"
)

// Stage is one fully decoded stage bundle. Immutable after Load.
type Stage struct {
	Name     string
	Map      *pxm.Map
	Entities []pxe.Entity
}

// Load decodes the bundle named by entry. The map and entity streams
// are independent, so both decodes run concurrently. On any failure no
// partial stage is returned.
func Load(fsys fs.FS, entry config.StageEntry) (*Stage, error) {
	start := time.Now()
	st := &Stage{Name: entry.Name}

	var g errgroup.Group
	g.Go(func() error {
		m, err := loadMap(fsys, entry.Map, entry.Attrib)
		if err != nil {
			return err
		}
		st.Map = m
		return nil
	})
	g.Go(func() error {
		ents, err := loadEntities(fsys, entry.Entities)
		if err != nil {
			return err
		}
		st.Entities = ents
		return nil
	})

	if err := g.Wait(); err != nil {
		observability.RecordStageLoad(entry.Name, time.Since(start), false)
		return nil, err
	}
	observability.RecordStageLoad(entry.Name, time.Since(start), true)

	logs.Infof("stage.Load name=%q size=%dx%d entities=%d",
		entry.Name, st.Map.Width, st.Map.Height, len(st.Entities))
	return st, nil
}

// LoadAll decodes every stage in the table, preserving table order.
// The first broken stage fails the whole load.
func LoadAll(fsys fs.FS, cfg config.StageTable) ([]*Stage, error) {
	stages := make([]*Stage, 0, len(cfg.Stages))
	for _, entry := range cfg.Stages {
		st, err := Load(fsys, entry)
		if err != nil {
			return nil, fmt.Errorf("stage: load %q: %w", entry.Name, err)
		}
		stages = append(stages, st)
	}
	return stages, nil
}

func loadMap(fsys fs.FS, mapPath, attribPath string) (*pxm.Map, error) {
	mf, err := fsys.Open(mapPath)
	if err != nil {
		return nil, fmt.Errorf("stage: open map %s: %w", mapPath, err)
	}
	defer mf.Close()

	// A missing attribute file gets the same tolerance as a short
	// attribute stream: all-zero table, warning logged by the decoder.
	var attrib io.Reader
	af, err := fsys.Open(attribPath)
	switch {
	case err == nil:
		defer af.Close()
		attrib = af
	case errors.Is(err, fs.ErrNotExist):
		logs.Warnf("stage.loadMap missing attribute file %s", attribPath)
		attrib = bytes.NewReader(nil)
	default:
		return nil, fmt.Errorf("stage: open attributes %s: %w", attribPath, err)
	}

	return pxm.Decode(mf, attrib)
}

func loadEntities(fsys fs.FS, path string) ([]pxe.Entity, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("stage: open entities %s: %w", path, err)
	}
	defer f.Close()

	return pxe.Decode(f)
}
