package main

import (
	"github.com/spf13/cobra"
)

var brandsCmd = &cobra.Command{
	Use:   "brands",
	Short: "List available brand themes",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := brandRegistry()
		if err != nil {
			return err
		}
		for _, name := range reg.Names() {
			b := reg.Get(name)
			cmd.Printf("%-24s accent=%s scale=%s,%s,%s\n",
				name, b.Accent, b.MapScale[0], b.MapScale[1], b.MapScale[2])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(brandsCmd)
}
