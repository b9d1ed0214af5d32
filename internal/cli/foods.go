package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cucharita-app/cucharita/internal/age"
	"github.com/cucharita-app/cucharita/internal/catalog"
	"github.com/cucharita-app/cucharita/internal/eligibility"
)

type FoodsListCmd struct {
	Group           string `short:"g" help:"Restrict to a catalog group (frutas, verduras, proteinas, recetas, ...)."`
	From            int    `help:"Age bracket lower bound in months (inclusive)." default:"-1"`
	To              int    `help:"Age bracket upper bound in months (exclusive)." default:"-1"`
	ExcludeReactive bool   `short:"x" help:"Drop recipes containing allergens with a recorded reaction."`
	All             bool   `short:"a" help:"Show the whole catalog, including foods not yet age-permitted."`
}

func (c *FoodsListCmd) Run(ctx *Context) error {
	state := ctx.Store.Read()
	safeAge := age.Compute(state.BabyProfile, time.Now())

	summaries, err := ctx.Catalog.Summaries()
	if err != nil {
		return err
	}

	items := summaries
	if !c.All {
		items = eligibility.Eligible(summaries, safeAge)
		if !safeAge.Known {
			fmt.Println("No profile yet: nothing is shown as safe. Set a birth date with 'cucharita profile set'.")
			return nil
		}
	}
	if c.From >= 0 && c.To >= 0 {
		items = eligibility.FilterByRange(items, c.From, c.To)
	}
	if c.Group != "" {
		var filtered []catalog.Summary
		for _, s := range items {
			if s.Group == c.Group {
				filtered = append(filtered, s)
			}
		}
		items = filtered
	}

	// Reaction exclusion needs the allergen tags from the detail records.
	// A record whose detail cannot be fetched is kept with a note rather
	// than silently dropped.
	var unresolved []string
	if c.ExcludeReactive {
		var details []catalog.Detail
		keep := map[string]bool{}
		for _, s := range items {
			d, err := ctx.Catalog.Detail(context.Background(), s.ID)
			if err != nil {
				var fetchErr *catalog.FetchError
				if errors.As(err, &fetchErr) {
					unresolved = append(unresolved, s.ID)
					keep[s.ID] = true
					continue
				}
				return err
			}
			details = append(details, d)
		}
		for _, d := range eligibility.ExcludeReactive(details, state.Allergens) {
			keep[d.ID] = true
		}
		var filtered []catalog.Summary
		for _, s := range items {
			if keep[s.ID] {
				filtered = append(filtered, s)
			}
		}
		items = filtered
	}

	if len(items) == 0 {
		fmt.Println("No foods match.")
		return nil
	}

	if safeAge.Known {
		fmt.Printf("Safe age: %d months\n\n", safeAge.Months)
	}
	for _, s := range items {
		flag := " "
		if s.IsAllergen {
			flag = "!"
		}
		fmt.Printf("%s %-24s %-12s %2d+ months  (%s)\n", flag, s.Name, s.Group, s.MinAgeMonths, s.ID)
	}
	if len(unresolved) > 0 {
		fmt.Printf("\nWarning: allergen tags could not be fetched for: %v\n", unresolved)
	}
	return nil
}

type FoodShowCmd struct {
	ID string `arg:"" help:"Catalog food or recipe id."`
}

func (c *FoodShowCmd) Run(ctx *Context) error {
	detail, err := ctx.Catalog.Detail(context.Background(), c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s (from %d months)\n", detail.Name, detail.MinAgeMonths)
	if len(detail.Allergens) > 0 {
		registry := ctx.Store.Read().Allergens
		fmt.Println("Allergens:")
		for _, a := range detail.Allergens {
			fmt.Printf("  %-16s %s\n", a, registry.Status(a))
		}
	}

	// Everything beyond the filtered fields passes through untouched.
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(detail.Raw, &raw); err == nil {
		for _, key := range []string{"preparacion", "ingredientes", "pasos", "texturas", "nutrientes"} {
			if v, ok := raw[key]; ok {
				fmt.Printf("%s: %s\n", key, v)
			}
		}
	}
	return nil
}
