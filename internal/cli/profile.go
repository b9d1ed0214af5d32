package cli

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/cucharita-app/cucharita/internal/age"
	"github.com/cucharita-app/cucharita/internal/models"
)

type ProfileSetCmd struct {
	BirthDate      string `short:"b" help:"Birth date (YYYY-MM-DD)."`
	GestationWeeks int    `short:"g" help:"Gestation weeks at birth." default:"-1"`
	DueDate        string `short:"d" help:"Probable due date (YYYY-MM-DD), required for corrected age when born before 37 weeks."`
}

func (c *ProfileSetCmd) Run(ctx *Context) error {
	patch := &models.ProfilePatch{}
	if c.BirthDate != "" {
		patch.BirthDate = &c.BirthDate
	}
	if c.GestationWeeks >= 0 {
		patch.GestationWeeks = &c.GestationWeeks
	}
	if c.DueDate != "" {
		patch.DueDate = &c.DueDate
	}
	if patch.BirthDate == nil && patch.GestationWeeks == nil && patch.DueDate == nil {
		return fmt.Errorf("nothing to update: provide --birth-date, --gestation-weeks or --due-date")
	}

	// Validate the merged result, not just the patch, so a partial update
	// cannot leave an out-of-range profile behind.
	preview := models.StoreState{BabyProfile: ctx.Store.Read().BabyProfile}
	(models.StatePatch{BabyProfile: patch}).Apply(&preview)
	if err := validator.New().Struct(preview.BabyProfile); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	state, err := ctx.Store.Write(models.StatePatch{BabyProfile: patch})
	if err := reportWrite(err); err != nil {
		return err
	}

	printProfile(state.BabyProfile)
	return nil
}

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *Context) error {
	printProfile(ctx.Store.Read().BabyProfile)
	return nil
}

func printProfile(p models.BabyProfile) {
	if p.BirthDate == "" {
		fmt.Println("No profile yet. Set a birth date with 'cucharita profile set -b YYYY-MM-DD'.")
		return
	}
	fmt.Printf("Birth date:       %s\n", p.BirthDate)
	if p.GestationWeeks != nil {
		fmt.Printf("Gestation weeks:  %d\n", *p.GestationWeeks)
	}
	if p.DueDate != "" {
		fmt.Printf("Due date:         %s\n", p.DueDate)
	}

	safeAge := age.Compute(p, time.Now())
	switch {
	case !safeAge.Known:
		fmt.Println("Safe age:         unknown")
	case p.Preterm() && p.DueDate != "":
		fmt.Printf("Safe age:         %d months (corrected for prematurity)\n", safeAge.Months)
	case p.Preterm():
		fmt.Printf("Safe age:         %d months (chronological)\n", safeAge.Months)
		fmt.Println("Note: born before 37 weeks; add the due date to use corrected age.")
	default:
		fmt.Printf("Safe age:         %d months\n", safeAge.Months)
	}
}
