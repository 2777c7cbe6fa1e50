package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/danmuck/stagectl/internal/config"
	"github.com/danmuck/stagectl/internal/stage"
	"github.com/danmuck/stagectl/internal/stage/pxe"
	"github.com/danmuck/stagectl/internal/stage/pxm"
)

func main() {
	configTemplate := flag.String("config-template", "", "write a stage table template to this path")
	sample := flag.Bool("sample", false, "generate a sample stage bundle")
	dir := flag.String("dir", "data/Stage", "bundle directory for -sample and -validate")
	name := flag.String("name", "sample", "stage name for -sample and -validate")
	width := flag.Int("width", 20, "sample map width in tiles")
	height := flag.Int("height", 15, "sample map height in tiles")
	validate := flag.Bool("validate", false, "re-decode an existing bundle and report")
	force := flag.Bool("force", false, "overwrite existing files")
	flag.Parse()

	switch {
	case *configTemplate != "":
		if err := config.WriteTemplate(*configTemplate, *force); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote stage table template to %s", *configTemplate)
	case *sample:
		if err := writeSample(*dir, *name, *width, *height, *force); err != nil {
			log.Fatal(err)
		}
		log.Printf("Wrote sample bundle %s to %s", *name, *dir)
	case *validate:
		st, err := stage.Load(os.DirFS(*dir), config.DefaultEntry(*name))
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated %s: %dx%d tiles, %d entities", st.Name, st.Map.Width, st.Map.Height, len(st.Entities))
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// writeSample emits a walled rectangle with a spawn point and one
// scripted entity, enough to exercise a loader end to end.
func writeSample(dir, name string, width, height int, force bool) error {
	if width < 3 || height < 3 || width > 0xFFFF || height > 0xFFFF {
		return fmt.Errorf("sample dimensions %dx%d out of range", width, height)
	}

	m := &pxm.Map{Width: width, Height: height, Tiles: make([]byte, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x == 0 || y == 0 || x == width-1 || y == height-1 {
				m.Tiles[y*width+x] = 1
			}
		}
	}
	m.Attrib[1] = 0x41 // solid block

	ents := []pxe.Entity{
		{X: 2, Y: int16(height - 2), EventNum: 200},
		{X: int16(width / 2), Y: int16(height / 2), EventNum: 300, Type: 5, Flags: 0x2000, Layer: 1},
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	entry := config.DefaultEntry(name)
	var tiles, attrib, placements bytes.Buffer
	if err := pxm.Encode(&tiles, m); err != nil {
		return err
	}
	if err := pxm.EncodeAttrib(&attrib, m); err != nil {
		return err
	}
	if err := pxe.Encode(&placements, pxe.VersionCurrent, ents); err != nil {
		return err
	}

	for _, out := range []struct {
		path string
		data []byte
	}{
		{entry.Map, tiles.Bytes()},
		{entry.Attrib, attrib.Bytes()},
		{entry.Entities, placements.Bytes()},
	} {
		path := filepath.Join(dir, out.path)
		if !force {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("file already exists: %s", path)
			}
		}
		if err := os.WriteFile(path, out.data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
