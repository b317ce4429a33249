// Package config defines the root command line of controlleremu.
package config

import "github.com/Relics97/ControllerEmulator/internal/cmd"

// CLI is the kong root. Values come from flags, then env, then config files.
type CLI struct {
	ConfigFile string `name:"config" help:"Path to a configuration file (json, yaml or toml)" type:"path" placeholder:"FILE" env:"CONTROLLEREMU_CONFIG"`

	Log Log `embed:"" prefix:"log." group:"Logging"`

	Run      cmd.Run           `cmd:"" help:"Translate keyboard and mouse input into a virtual Xbox 360 controller"`
	Bindings cmd.Bindings      `cmd:"" help:"Print or validate a key binding table"`
	Config   cmd.ConfigCommand `cmd:"" help:"Configuration file helpers"`
}

// Log configures logging.
type Log struct {
	Level   string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"CONTROLLEREMU_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" type:"path" env:"CONTROLLEREMU_LOG_FILE"`
	RawFile string `help:"Write a hex dump of every device frame to this file" type:"path" env:"CONTROLLEREMU_LOG_RAW_FILE"`
}
