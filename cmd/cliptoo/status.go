package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dcog989/cliptoo/internal/ipc"
	"github.com/dcog989/cliptoo/internal/message"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show daemon status",
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runStatus(v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addConfigFlag(cmd)

	return cmd
}

func runStatus(v *viper.Viper) error {
	resp, err := request(&message.Message{Type: message.TypeStatus})
	if err != nil {
		return err
	}
	st := resp.Status
	if st == nil {
		return fmt.Errorf("daemon sent an empty status response")
	}

	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(st, "", "  ")
		fmt.Println(string(enc))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Version:\t%s\n", st.Version)
	_, _ = fmt.Fprintf(w, "Socket:\t%s\n", ipc.SocketPath())
	_, _ = fmt.Fprintf(w, "Backend:\t%s\n", st.Backend)
	_, _ = fmt.Fprintf(w, "Clips:\t%d\n", st.Clips)
	_, _ = fmt.Fprintf(w, "Started:\t%s\n", fmtAge(st.StartedAt))
	_, _ = fmt.Fprintf(w, "Last cleanup:\t%s\n", fmtAge(st.LastCleanup))
	return w.Flush()
}
