package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sanzoku-labs/linkcheck/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	// If the user specified an output directory, place the config there
	// under the default name.
	if i.Output != "" {
		cfgPath := filepath.Join(i.Output, DefaultConfigPath)
		return RunInit(cfgPath, i.Force)
	}
	return RunInit(root.Config, i.Force)
}

func RunInit(configPath string, force bool) error {
	fmt.Println("Initializing linkcheck project")
	fmt.Printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	fmt.Println("initialized successfully")
	return nil
}
