package cli

import "fmt"

type ResetCmd struct {
	Force bool `help:"Skip the confirmation prompt."`
}

func (c *ResetCmd) Run(ctx *Context) error {
	if !c.Force {
		fmt.Println("⚠️  WARNING: this erases the profile, milestones, allergen statuses and the whole diary.")
		ok, err := confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Reset cancelled.")
			return nil
		}
	}

	if err := ctx.Store.Reset(); err != nil {
		return err
	}
	fmt.Println("✓ All data erased. The next command starts from defaults.")
	return nil
}
