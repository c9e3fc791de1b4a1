package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <url>",
	Short: "Extract structured content from a landing page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		rec, err := env.extractor.Extract(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rec); err != nil {
			return eris.Wrap(err, "encode record")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
