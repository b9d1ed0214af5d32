package cli

import (
	"fmt"

	"github.com/cucharita-app/cucharita/internal/models"
)

type AllergenSetCmd struct {
	Allergen string `arg:"" help:"Allergen id (egg, milk, fish, shellfish, gluten, soy, sesame, tree-nut-powder)."`
	Status   string `arg:"" help:"Status (not-introduced, introduced-no-reaction, mild-reaction, severe-reaction)."`
}

func (c *AllergenSetCmd) Run(ctx *Context) error {
	allergen := models.Allergen(c.Allergen)
	if !allergen.Valid() {
		return fmt.Errorf("unknown allergen: %s", c.Allergen)
	}
	status := models.AllergenStatus(c.Status)
	if !status.Valid() {
		return fmt.Errorf("unknown status: %s", c.Status)
	}

	_, err := ctx.Store.Write(models.StatePatch{Allergens: &models.AllergenPatch{
		Statuses: map[models.Allergen]models.AllergenStatus{allergen: status},
	}})
	if err := reportWrite(err); err != nil {
		return err
	}

	fmt.Printf("Recorded %s as %s\n", allergen, status)
	if status == models.StatusSevereReaction {
		fmt.Println("Foods and recipes containing this allergen will be excluded from recipe suggestions.")
	}
	return nil
}

type AllergenListCmd struct{}

func (c *AllergenListCmd) Run(ctx *Context) error {
	registry := ctx.Store.Read().Allergens
	for _, allergen := range models.Allergens {
		fmt.Printf("%-16s %s\n", allergen, registry.Status(allergen))
	}
	return nil
}
