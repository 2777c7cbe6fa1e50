package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/danmuck/stagectl/internal/config"
	logs "github.com/danmuck/stagectl/internal/logging"
	"github.com/danmuck/stagectl/internal/observability"
	"github.com/danmuck/stagectl/internal/server"
	"github.com/danmuck/stagectl/internal/stage"
)

func main() {
	cfgPath := flag.String("config", "stagectl.toml", "stage table path")
	check := flag.Bool("check", false, "decode every stage in the table and report")
	info := flag.String("info", "", "print a summary of one stage")
	serve := flag.Bool("serve", false, "run the stage preview service")
	addr := flag.String("addr", ":9173", "listen address for -serve")
	flag.Parse()

	logs.ConfigureRuntime()

	cfg, err := config.LoadStageTable(*cfgPath)
	if err != nil {
		fatal(err)
	}
	fsys := os.DirFS(cfg.DataDir)

	switch {
	case *check:
		runCheck(fsys, cfg)
	case *info != "":
		runInfo(fsys, cfg, *info)
	case *serve:
		runServe(fsys, cfg, *addr)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runCheck(fsys fs.FS, cfg config.StageTable) {
	failed := 0
	for _, entry := range cfg.Stages {
		st, err := stage.Load(fsys, entry)
		if err != nil {
			logs.Errf("check %s: %v", entry.Name, err)
			failed++
			continue
		}
		logs.Infof("check %s: ok size=%dx%d entities=%d", entry.Name, st.Map.Width, st.Map.Height, len(st.Entities))
	}
	if failed > 0 {
		fatal(fmt.Errorf("%d of %d stages failed", failed, len(cfg.Stages)))
	}
}

func runInfo(fsys fs.FS, cfg config.StageTable, name string) {
	entry, ok := findEntry(cfg, name)
	if !ok {
		fatal(fmt.Errorf("stage %q not in table", name))
	}
	st, err := stage.Load(fsys, entry)
	if err != nil {
		fatal(err)
	}

	fmt.Printf("stage:    %s\n", st.Name)
	fmt.Printf("size:     %dx%d tiles\n", st.Map.Width, st.Map.Height)
	fmt.Printf("entities: %d\n", len(st.Entities))
	for _, e := range st.Entities {
		fmt.Printf("  id=%d type=%d pos=(%d,%d) flag=%d event=%d flags=%#04x layer=%d\n",
			e.ID, e.Type, e.X, e.Y, e.FlagNum, e.EventNum, e.Flags, e.Layer)
	}
}

func runServe(fsys fs.FS, cfg config.StageTable, addr string) {
	observability.InitLogger("stagectl")

	stages, err := stage.LoadAll(fsys, cfg)
	if err != nil {
		fatal(err)
	}
	srv := server.New("stagectl", cfg.CorsOrigins, stages)
	if err := srv.Run(addr); err != nil {
		fatal(err)
	}
}

func findEntry(cfg config.StageTable, name string) (config.StageEntry, bool) {
	for _, entry := range cfg.Stages {
		if entry.Name == name {
			return entry, true
		}
	}
	return config.StageEntry{}, false
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "stagectl: %v\n", err)
	os.Exit(1)
}
