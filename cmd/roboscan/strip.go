package roboscan

import (
	"fmt"
	"io"
	"os"

	"github.com/roboscan/roboscan/internal/preprocess"
	"github.com/spf13/cobra"
)

func init() {
	var numbered bool
	cmd := &cobra.Command{
		Use:   "strip [file]",
		Short: "Print a source file with comments removed (reads stdin without a file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var data []byte
			var err error
			if len(args) == 1 && args[0] != "-" {
				data, err = os.ReadFile(args[0])
			} else {
				data, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}
			cleaned := preprocess.Strip(string(data))
			if !numbered {
				_, err = io.WriteString(os.Stdout, cleaned)
				return err
			}
			for i, l := range preprocess.Lines(cleaned) {
				fmt.Fprintf(os.Stdout, "%5d  %s\n", i+1, l)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&numbered, "numbered", "n", false, "prefix each line with its number")
	rootCmd.AddCommand(cmd)
}
