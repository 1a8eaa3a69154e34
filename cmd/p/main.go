package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/p4tools/p/internal/commands"
)

func main() {
	if err := fang.Execute(
		context.Background(),
		commands.Root(),
		fang.WithVersion(commands.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
