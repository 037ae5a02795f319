package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asengupta/mentor/internal/selfupdate"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update mentor to the latest release",
	RunE: func(cmd *cobra.Command, args []string) error {
		target, _ := cmd.Flags().GetString("version")

		checker := selfupdate.NewChecker()
		err := checker.Update(cmd.Context(), &selfupdate.UpdateInput{
			CurrentVersion: version,
			TargetVersion:  target,
		}, func(p selfupdate.UpdateProgress) {
			fmt.Println(p.Message)
		})
		if errors.Is(err, selfupdate.ErrAlreadyLatest) {
			fmt.Println("Already up to date.")
			return nil
		}
		if errors.Is(err, selfupdate.ErrDevBuild) {
			return errors.New("development builds cannot self-update; install a release build")
		}
		return err
	},
}

func init() {
	updateCmd.Flags().String("version", "", "Update to a specific release tag instead of the latest")
}
