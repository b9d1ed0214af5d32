package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cucharita-app/cucharita/internal/catalog"
	"github.com/cucharita-app/cucharita/internal/diary"
	"github.com/cucharita-app/cucharita/internal/models"
	"github.com/cucharita-app/cucharita/internal/store"
)

type Context struct {
	Store   *store.Store
	Catalog catalog.Provider
	Engine  *diary.Engine
}

// reportWrite downgrades a persistence failure to a warning: the change
// is live in memory, only the on-disk copy is stale. Anything else stays
// an error.
func reportWrite(err error) error {
	var storageErr *store.StorageError
	if errors.As(err, &storageErr) {
		fmt.Fprintf(os.Stderr, "Warning: change applied but not persisted: %v\n", storageErr.Err)
		return nil
	}
	return err
}

// confirm prompts for a y/N answer on stdin.
func confirm(prompt string) (bool, error) {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// resolveDate accepts YYYY-MM-DD or the literal "today".
func resolveDate(s string) (string, error) {
	if s == "today" || s == "" {
		return time.Now().Format(models.DateFormat), nil
	}
	if _, err := models.ParseDate(s); err != nil {
		return "", fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
	}
	return s, nil
}

func formatEntry(e models.DiaryEntry, foodName string) string {
	line := fmt.Sprintf("%-24s  %-12s %-10s %-9s", foodName, e.Quantity, e.Texture, e.Reaction)
	if e.Notes != "" {
		line += "\n    Note: " + e.Notes
	}
	return line
}

// foodName resolves a display name from the catalog index, falling back
// to the raw id when the catalog is unavailable.
func foodName(ctx *Context, id string) string {
	summaries, err := ctx.Catalog.Summaries()
	if err != nil {
		return id
	}
	for _, s := range summaries {
		if s.ID == id {
			return s.Name
		}
	}
	return id
}
