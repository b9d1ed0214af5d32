package cli

import "fmt"

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	// Read synthesizes and persists a defaulted state when none exists.
	state := ctx.Store.Read()
	fmt.Printf("Initialized cucharita storage at: %s (version %d)\n", ctx.Store.Path(), state.Version)
	return nil
}
