package cli

import (
	"fmt"

	"github.com/cucharita-app/cucharita/internal/models"
)

type MilestonesSetCmd struct {
	Seated         *bool `help:"Sits unassisted." negatable:""`
	NoExtrusion    *bool `help:"Extrusion reflex gone." negatable:""`
	InterestInFood *bool `help:"Shows interest in food." negatable:""`
	HandToMouth    *bool `help:"Brings objects to the mouth." negatable:""`
}

func (c *MilestonesSetCmd) Run(ctx *Context) error {
	patch := &models.MilestonePatch{
		Seated:         c.Seated,
		NoExtrusion:    c.NoExtrusion,
		InterestInFood: c.InterestInFood,
		HandToMouth:    c.HandToMouth,
	}
	if c.Seated == nil && c.NoExtrusion == nil && c.InterestInFood == nil && c.HandToMouth == nil {
		return fmt.Errorf("nothing to update: provide at least one milestone flag")
	}

	state, err := ctx.Store.Write(models.StatePatch{Milestones: patch})
	if err := reportWrite(err); err != nil {
		return err
	}
	printMilestones(state.Milestones)
	return nil
}

type MilestonesShowCmd struct{}

func (c *MilestonesShowCmd) Run(ctx *Context) error {
	printMilestones(ctx.Store.Read().Milestones)
	return nil
}

func printMilestones(m models.MilestoneChecklist) {
	mark := func(ok bool) string {
		if ok {
			return "✓"
		}
		return "✗"
	}
	fmt.Printf("%s seated           sits unassisted\n", mark(m.Seated))
	fmt.Printf("%s noExtrusion      extrusion reflex gone\n", mark(m.NoExtrusion))
	fmt.Printf("%s interestInFood   shows interest in food\n", mark(m.InterestInFood))
	fmt.Printf("%s handToMouth      brings objects to the mouth\n", mark(m.HandToMouth))
	if m.Complete() {
		fmt.Println("\nAll milestones met: the feeding diary is unlocked.")
	} else {
		fmt.Println("\nThe feeding diary stays locked until every milestone is met.")
	}
}
