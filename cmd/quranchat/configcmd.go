package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const configInitLongDesc string = `Write the effective settings to the config file.

The file gets the built-in defaults with the environment and the --api-url,
--debug and --log-file flags applied, ready to be edited by hand. An existing
file is left alone unless --force is given.

Examples:
  quranchat config init
  quranchat --api-url https://quran-rag.example.org config init --force`

const configInitShortDesc string = "Write a starter config file"

type configInitCommander struct {
	root  *rootCommander
	force bool
}

func newConfigCmd(root *rootCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the quranchat config file",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newConfigInitCmd(root))
	return cmd
}

func newConfigInitCmd(root *rootCommander) *cobra.Command {
	cmder := &configInitCommander{root: root}

	cmd := &cobra.Command{
		Use:   "init",
		Short: configInitShortDesc,
		Long:  configInitLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd)
		},
	}
	cmd.Flags().BoolVar(&cmder.force, "force", false, "Overwrite an existing config file")
	return cmd
}

func (c *configInitCommander) run(cmd *cobra.Command) error {
	path := c.root.resolveConfigPath()
	if path == "" {
		return errors.New("no config directory available, pass --config")
	}
	if _, err := os.Stat(path); err == nil && !c.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	cfg, err := c.root.loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
