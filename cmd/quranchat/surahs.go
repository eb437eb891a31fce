package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csheth/quranchat/internal/quran"
)

func newSurahsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "surahs",
		Short: "List the 114 surahs used to label citations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, s := range quran.Surahs() {
				fmt.Fprintf(out, "%3d  %s\n", s.Number, s.Name)
			}
			return nil
		},
	}
}
