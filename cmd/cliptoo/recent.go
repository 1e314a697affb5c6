package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dcog989/cliptoo/internal/message"
)

func newRecentCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently captured clips",
		Long: `Queries the running cliptoo daemon over its local socket and prints the
most recent clips, pinned first.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runRecent(v) },
	}

	f := cmd.Flags()
	f.IntP("limit", "n", defaultRecentLimit, "number of clips to list")
	f.Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runRecent(v *viper.Viper) error {
	resp, err := request(&message.Message{
		Type:  message.TypeRecent,
		Limit: v.GetInt("limit"),
	})
	if err != nil {
		return err
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(resp.Clips, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	if len(resp.Clips) == 0 {
		fmt.Println("No clips captured yet.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID\tKIND\tAGE\tSOURCE\tPREVIEW\n")
	for _, c := range resp.Clips {
		marker := ""
		if c.Pinned {
			marker = "*"
		}
		source := c.SourceApp
		if source == "" {
			source = "-"
		}
		_, _ = fmt.Fprintf(tw, "%d%s\t%s\t%s\t%s\t%s\n",
			c.ID, marker, c.Kind, fmtAge(c.UpdatedAt), source, c.Preview,
		)
	}
	return tw.Flush()
}
