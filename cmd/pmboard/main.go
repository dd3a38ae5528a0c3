// Package main provides the entry point for the pmboard TUI application.
//
// pmboard is a single-user project board with a four-level hierarchy
// (project, epic, task group, action) backed by a local sqlite database.
//
// Usage:
//
//	pmboard [options]
//	pmboard -import backup.json [-merge]
//	pmboard -export
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pmckit/pmboard/internal/config"
	"github.com/pmckit/pmboard/internal/notify"
	"github.com/pmckit/pmboard/internal/services/archive"
	"github.com/pmckit/pmboard/internal/services/backup"
	"github.com/pmckit/pmboard/internal/services/board"
	"github.com/pmckit/pmboard/internal/store"
	"github.com/pmckit/pmboard/internal/ui"
	"github.com/pmckit/pmboard/internal/ui/views"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		importPath  = flag.String("import", "", "import a backup file and exit")
		merge       = flag.Bool("merge", false, "merge the imported backup instead of replacing")
		export      = flag.Bool("export", false, "write a backup file and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("pmboard %s (commit: %s)\n", version, commit)
		return
	}

	if err := run(*importPath, *merge, *export); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(importPath string, merge, export bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	logger, logFile, err := openLogger(cfg.DataDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return err
	}
	defer st.Close()

	backupSvc := backup.NewService(st, logger)

	if importPath != "" {
		return runImport(backupSvc, importPath, merge)
	}
	if export {
		path, err := backupSvc.WriteFile(cfg.Backup.Dir)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	}

	if err := st.Seed(); err != nil {
		return err
	}

	queue := notify.NewQueue(time.Duration(cfg.Notifications.DurationMs) * time.Millisecond)
	boardSvc := board.NewService(st, queue, logger)
	archiveSvc := archive.NewService(st, logger,
		archive.WithRestoreTolerance(time.Duration(cfg.Archive.RestoreToleranceMs)*time.Millisecond))

	app := ui.NewApp(&views.Deps{
		Store:     st,
		Board:     boardSvc,
		Archive:   archiveSvc,
		Backup:    backupSvc,
		BackupDir: cfg.Backup.Dir,
	}, queue)

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

func runImport(svc *backup.Service, path string, merge bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mode := backup.ModeOverwrite
	if merge {
		mode = backup.ModeMerge
	}
	if err := svc.ImportJSON(f, mode); err != nil {
		return err
	}
	fmt.Printf("imported %s (%s)\n", path, mode)
	return nil
}

// openLogger writes structured logs to a file so the TUI keeps the terminal.
func openLogger(dataDir string) (*slog.Logger, *os.File, error) {
	f, err := os.OpenFile(filepath.Join(dataDir, "pmboard.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, nil)), f, nil
}
