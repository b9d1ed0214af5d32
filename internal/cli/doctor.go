package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/cucharita-app/cucharita/internal/backup"
	"github.com/cucharita-app/cucharita/internal/models"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: state readable and versioned
	state := ctx.Store.Read()
	if state.Version != models.CurrentVersion {
		fmt.Printf("❌ State version: FAIL (got %d, want %d)\n", state.Version, models.CurrentVersion)
		hasError = true
	} else {
		fmt.Printf("✓ State version: OK\n")
	}

	// Check 2: catalog loadable
	if summaries, err := ctx.Catalog.Summaries(); err != nil {
		fmt.Printf("❌ Catalog: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Catalog: OK (%d records)\n", len(summaries))
	}

	// Check 3: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 4: single process (warning only). The store assumes one
	// actor; a second process sharing the state file risks lost writes.
	if others, err := siblingProcesses(); err != nil {
		fmt.Printf("⚠ Process check: WARNING\n   %v\n", err)
	} else if len(others) > 0 {
		fmt.Printf("⚠ Process check: WARNING\n   other cucharita processes running: %v\n", others)
	} else {
		fmt.Printf("✓ Process check: OK\n")
	}

	// Check 5: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.Path())
	backups, err := mgr.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'cucharita backup create'")
	}
	return nil
}

func siblingProcesses() ([]int, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	self := os.Getpid()
	name := filepath.Base(os.Args[0])
	var pids []int
	for _, p := range procs {
		if p.Pid() != self && strings.EqualFold(p.Executable(), name) {
			pids = append(pids, p.Pid())
		}
	}
	return pids, nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
