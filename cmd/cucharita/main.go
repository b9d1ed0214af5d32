package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/cucharita-app/cucharita/internal/catalog"
	"github.com/cucharita-app/cucharita/internal/cli"
	"github.com/cucharita-app/cucharita/internal/diary"
	"github.com/cucharita-app/cucharita/internal/errors"
	"github.com/cucharita-app/cucharita/internal/logger"
	"github.com/cucharita-app/cucharita/internal/storage"
	"github.com/cucharita-app/cucharita/internal/store"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"State file path." type:"path" default:"~/.config/cucharita/cucharita.json"`
	Debug   bool   `help:"Enable debug logging."`

	Init cli.InitCmd `cmd:"" help:"Initialize cucharita storage."`
	Tui  cli.TuiCmd  `cmd:"" help:"Launch the interactive TUI." default:"1"`

	Profile struct {
		Set  cli.ProfileSetCmd  `cmd:"" help:"Update the baby profile."`
		Show cli.ProfileShowCmd `cmd:"" help:"Show the baby profile and computed age."`
	} `cmd:"" help:"Manage the baby profile."`

	Milestones struct {
		Set  cli.MilestonesSetCmd  `cmd:"" help:"Update readiness milestones."`
		Show cli.MilestonesShowCmd `cmd:"" help:"Show readiness milestones."`
	} `cmd:"" help:"Manage readiness milestones."`

	Allergens struct {
		Set  cli.AllergenSetCmd  `cmd:"" help:"Set an allergen introduction status."`
		List cli.AllergenListCmd `cmd:"" help:"List allergen introduction statuses."`
	} `cmd:"" help:"Manage allergen introduction statuses."`

	Foods struct {
		List cli.FoodsListCmd `cmd:"" help:"List foods eligible for the baby's age."`
		Show cli.FoodShowCmd  `cmd:"" help:"Show a food's details."`
	} `cmd:"" help:"Browse the food catalog."`

	Diary struct {
		Add    cli.DiaryAddCmd    `cmd:"" help:"Record a food in the diary."`
		Edit   cli.DiaryEditCmd   `cmd:"" help:"Edit a diary entry."`
		Delete cli.DiaryDeleteCmd `cmd:"" help:"Delete a diary entry."`
		Day    cli.DiaryDayCmd    `cmd:"" help:"Show diary entries for a day."`
	} `cmd:"" help:"Manage the feeding diary."`

	Export cli.ExportCmd `cmd:"" help:"Export state as JSON."`
	Import cli.ImportCmd `cmd:"" help:"Import state from a JSON export."`

	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the current state."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore state from a backup."`
	} `cmd:"" help:"Manage state backups."`

	Reset  cli.ResetCmd  `cmd:"" help:"Erase all local state."`
	Doctor cli.DoctorCmd `cmd:"" help:"Check state file, catalog and environment health."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("cucharita"),
		kong.Description("Infant feeding diary with age-aware food eligibility"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	configDir := filepath.Dir(CLI.Config)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Determine storage type based on extension
	var persister storage.Persister
	if strings.HasSuffix(CLI.Config, ".db") {
		persister = storage.NewSQLiteStore(CLI.Config)
	} else {
		persister = storage.NewJSONStore(CLI.Config)
	}

	cat := catalog.NewCachedProvider(catalog.Default(), filepath.Join(configDir, "catalog-cache"))
	st := store.New(persister)

	appCtx := &cli.Context{
		Store:   st,
		Catalog: cat,
		Engine:  diary.New(st, cat),
	}

	err := kctx.Run(appCtx)
	if closeErr := st.Close(); err == nil {
		err = closeErr
	}
	errors.Fatal(err)
}
