package cli

import (
	"fmt"
	"os"

	"github.com/cucharita-app/cucharita/internal/backup"
)

type ExportCmd struct {
	Output string `short:"o" help:"Write to a file instead of stdout." type:"path"`
}

func (c *ExportCmd) Run(ctx *Context) error {
	data, err := backup.Export(ctx.Store.Read())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if c.Output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(c.Output, data, 0600); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("Exported state to %s\n", c.Output)
	return nil
}

type ImportCmd struct {
	File  string `arg:"" help:"Backup document to import." type:"existingfile"`
	Force bool   `help:"Skip the confirmation prompt."`
}

func (c *ImportCmd) Run(ctx *Context) error {
	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	state, err := backup.Import(data)
	if err != nil {
		return err
	}

	// Import replaces the whole current state; it never merges.
	if !c.Force {
		fmt.Println("⚠️  WARNING: importing replaces ALL current data with the document's contents.")
		ok, err := confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	if _, err := ctx.Store.Replace(state); err != nil {
		return err
	}
	fmt.Printf("Imported state with %d diary entries.\n", len(state.Diary.Entries))
	return nil
}
