package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"image-sorter/internal/scanner"
	"image-sorter/internal/sorter"
)

func (c *CLI) newSortCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sort DIR TARGET",
		Short: "Sort images into date folders (YYYY/MM[/DD]) under TARGET",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			move, _ := cmd.Flags().GetBool("move")
			dayFolders, _ := cmd.Flags().GetBool("day-folders")
			monthNames, _ := cmd.Flags().GetBool("month-names")

			scanned, err := scanner.Scan(args[0])
			if err != nil {
				return err
			}

			method := sorter.MethodCopy
			if move {
				method = sorter.MethodMove
			}

			result := sorter.SortByDate(scanned.Paths(), args[1], method, sorter.Config{
				UseDayFolder:  dayFolders,
				UseMonthNames: monthNames,
			})
			printOpResult(cmd, result)
			return nil
		},
	}
	cmd.Flags().Bool("move", false, "Move files instead of copying them")
	cmd.Flags().Bool("day-folders", false, "Add a day level under the month folder")
	cmd.Flags().Bool("month-names", false, `Name month folders "MM - Month" instead of "MM"`)
	return cmd
}

func (c *CLI) newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move TARGET PATH...",
		Short: "Move files into TARGET with collision-safe renaming",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := sorter.Move(args[1:], args[0])
			printOpResult(cmd, result)
			return nil
		},
	}
}

func (c *CLI) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete PATH...",
		Short: "Move files to the trash (never deletes permanently)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := sorter.Delete(args)
			printOpResult(cmd, result)
			return nil
		},
	}
}

func printOpResult(cmd *cobra.Command, result *sorter.OpResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d/%d succeeded, %d errors\n", result.Succeeded, result.Processed, result.Errors)
	for _, msg := range result.ErrorMessages {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", msg)
	}
}
