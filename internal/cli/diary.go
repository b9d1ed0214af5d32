package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/cucharita-app/cucharita/internal/diary"
	"github.com/cucharita-app/cucharita/internal/models"
)

type DiaryAddCmd struct {
	Food     string `arg:"" help:"Catalog food id."`
	Date     string `short:"d" help:"Target date (YYYY-MM-DD or 'today')." default:"today"`
	Quantity string `short:"q" help:"Quantity offered (exploration|tasted|ate-little|ate-well)." default:"tasted"`
	Texture  string `short:"t" help:"Texture form (whole-soft|sticks|mashed)." default:"mashed"`
	Reaction string `short:"r" help:"Reaction (liked|neutral|disliked)." default:"neutral"`
	Notes    string `short:"n" help:"Free-text notes."`
}

func (c *DiaryAddCmd) Run(ctx *Context) error {
	return saveEntry(ctx, "", c.Food, c.Date, c.Quantity, c.Texture, c.Reaction, c.Notes)
}

type DiaryEditCmd struct {
	ID       string `arg:"" help:"Id of the entry to edit."`
	Food     string `short:"f" help:"Catalog food id."`
	Date     string `short:"d" help:"Target date (YYYY-MM-DD or 'today')."`
	Quantity string `short:"q" help:"Quantity offered."`
	Texture  string `short:"t" help:"Texture form."`
	Reaction string `short:"r" help:"Reaction."`
	Notes    string `short:"n" help:"Free-text notes."`
}

func (c *DiaryEditCmd) Run(ctx *Context) error {
	var existing *models.DiaryEntry
	for _, e := range ctx.Store.Read().Diary.Entries {
		if e.ID == c.ID {
			entry := e
			existing = &entry
			break
		}
	}
	if existing == nil {
		return fmt.Errorf("no diary entry with id %s", c.ID)
	}

	food := existing.FoodID
	if c.Food != "" {
		food = c.Food
	}
	date := existing.Date
	if c.Date != "" {
		date = c.Date
	}
	quantity := string(existing.Quantity)
	if c.Quantity != "" {
		quantity = c.Quantity
	}
	texture := string(existing.Texture)
	if c.Texture != "" {
		texture = c.Texture
	}
	reaction := string(existing.Reaction)
	if c.Reaction != "" {
		reaction = c.Reaction
	}
	notes := existing.Notes
	if c.Notes != "" {
		notes = c.Notes
	}
	return saveEntry(ctx, c.ID, food, date, quantity, texture, reaction, notes)
}

func saveEntry(ctx *Context, id, food, date, quantity, texture, reaction, notes string) error {
	day, err := resolveDate(date)
	if err != nil {
		return err
	}

	entry := models.DiaryEntry{
		ID:       id,
		Date:     day,
		FoodID:   food,
		Quantity: models.Quantity(quantity),
		Texture:  models.Texture(texture),
		Reaction: models.Reaction(reaction),
		Notes:    notes,
	}

	saved, notice, err := ctx.Engine.Save(context.Background(), entry)
	if err != nil {
		var milestonesErr *diary.MilestonesIncompleteError
		if errors.As(err, &milestonesErr) {
			fmt.Println("Cannot log yet: not every readiness milestone is met.")
			for _, item := range milestonesErr.Missing {
				fmt.Printf("  missing: %s\n", item)
			}
			return fmt.Errorf("milestones incomplete")
		}
		if err := reportWrite(err); err != nil {
			return err
		}
	}

	fmt.Printf("Logged %s on %s (ID: %s)\n", foodName(ctx, saved.FoodID), saved.Date, saved.ID)
	if notice != nil {
		fmt.Println("Allergen notice:")
		if len(notice.Allergens) == 0 {
			fmt.Println("  this food is allergen-flagged; review its introduction status")
		}
		for _, a := range notice.Allergens {
			fmt.Printf("  %-16s %s\n", a, notice.Statuses[a])
		}
	}
	return nil
}

type DiaryDeleteCmd struct {
	ID string `arg:"" help:"Id of the entry to delete."`
}

func (c *DiaryDeleteCmd) Run(ctx *Context) error {
	found, err := ctx.Engine.Delete(c.ID)
	if err := reportWrite(err); err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no diary entry with id %s", c.ID)
	}
	fmt.Printf("Deleted entry %s\n", c.ID)
	return nil
}

type DiaryDayCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *DiaryDayCmd) Run(ctx *Context) error {
	day, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	entries := ctx.Engine.Day(day)
	fmt.Printf("Diary for %s:\n\n", day)
	if len(entries) == 0 {
		fmt.Println("  No entries")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("  %s\n    %s\n", formatEntry(e, foodName(ctx, e.FoodID)), e.ID)
	}
	return nil
}
