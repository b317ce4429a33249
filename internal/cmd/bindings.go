package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Relics97/ControllerEmulator/binding"
)

// Bindings prints the effective key binding table, or validates a file.
type Bindings struct {
	File   string `arg:"" optional:"" help:"Bindings file to validate and print (default: built-in table)" type:"existingfile"`
	Format string `help:"Output format" enum:"json,yaml,toml" default:"yaml"`

	out io.Writer
}

// Run is called by Kong when the bindings command is executed.
func (b *Bindings) Run(logger *slog.Logger) error {
	table := binding.Default()
	if b.File != "" {
		var err error
		if table, err = binding.Load(b.File); err != nil {
			return err
		}
		logger.Info("Bindings file is valid", "file", b.File, "count", table.Len())
	}

	data, err := binding.Marshal(table, b.Format)
	if err != nil {
		return err
	}
	out := b.out
	if out == nil {
		out = os.Stdout
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
