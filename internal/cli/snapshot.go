package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/atxtechbro/mcpdash/internal/charts"
	"github.com/atxtechbro/mcpdash/internal/errors"
	"github.com/atxtechbro/mcpdash/internal/snapshot"
	"github.com/atxtechbro/mcpdash/internal/ui"
	"github.com/spf13/cobra"
)

// defaultSnapshotTimeout bounds the one-shot pull.
const defaultSnapshotTimeout = 10 * time.Second

// SnapshotOptions holds options for the snapshot command.
type SnapshotOptions struct {
	JSON    bool
	Timeout time.Duration
	// Location renders timeline labels. Nil means local time.
	Location *time.Location
}

// SnapshotResult is the --json payload.
type SnapshotResult struct {
	Server  string              `json:"server"`
	Figures charts.Figures      `json:"figures"`
	Charts  []charts.Descriptor `json:"charts"`
}

func newSnapshotCmd(global *GlobalFlags) *cobra.Command {
	opts := SnapshotOptions{Timeout: defaultSnapshotTimeout}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Pull one snapshot and print it",
		Long: `Pull a single snapshot from <server>/api/metrics and print the summary
figures and chart series. Works without a terminal, so it suits scripts
and CI checks.

Examples:
  mcpdash snapshot
  mcpdash snapshot --json | jq .data.figures`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(*global, nil)
			if err != nil {
				if opts.JSON {
					_ = WriteJSONFromError(cmd.OutOrStdout(), err)
				}
				return err
			}
			fetcher, err := snapshot.NewHTTPFetcher(cfg.Server, nil)
			if err != nil {
				return err
			}
			return RunSnapshot(cmd.Context(), fetcher, cfg.Server, chartKinds(cfg.Charts), opts,
				cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "print machine-readable JSON")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultSnapshotTimeout, "give up on the pull after this long")
	return cmd
}

// RunSnapshot pulls once through fetcher and writes the result to out.
// Progress goes to errOut so out stays clean for piping.
func RunSnapshot(ctx context.Context, fetcher snapshot.Fetcher, server string, kinds map[charts.ChartID]charts.Kind, opts SnapshotOptions, out, errOut io.Writer) error {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var spinner *ui.Spinner
	if !opts.JSON {
		spinner = ui.NewSpinner("Pulling snapshot from "+server, errOut)
		spinner.Start()
	}

	snap, err := fetcher.Fetch(ctx)
	if err != nil {
		if spinner != nil {
			spinner.Fail()
		}
		if opts.JSON {
			_ = WriteJSONFromError(out, err)
		}
		return err
	}
	if spinner != nil {
		spinner.Success()
	}

	chartOpts := []charts.Option{charts.WithLocation(opts.Location)}
	for id, kind := range kinds {
		chartOpts = append(chartOpts, charts.WithKind(id, kind))
	}
	ctrl := charts.NewController(chartOpts...)
	ctrl.ApplySnapshot(snap)

	result := SnapshotResult{
		Server:  server,
		Figures: ctrl.Figures(),
		Charts:  ctrl.Descriptors(),
	}
	if opts.JSON {
		if err := WriteJSONSuccess(out, result); err != nil {
			return errors.WrapWithCode(err, errors.ErrExec, "Couldn't write JSON output", "")
		}
		return nil
	}
	printSnapshot(out, result)
	return nil
}

func printSnapshot(w io.Writer, r SnapshotResult) {
	f := r.Figures
	rows := [][]string{
		{"Total calls", f.TotalCalls},
		{"Success rate", f.SuccessRate},
		{"Avg execution", f.AvgExecution},
		{"Error rate", f.ErrorRate},
	}
	for _, extra := range [][2]string{
		{"Most used tool", f.MostUsedTool},
		{"Most active branch", f.ActiveBranch},
		{"Dominant principle", f.Principle},
		{"Recent activity", f.RecentActivity},
	} {
		if extra[1] != "" {
			rows = append(rows, []string{extra[0], extra[1]})
		}
	}

	fmt.Fprintln(w, ui.Heading("Summary"))
	fmt.Fprintln(w, ui.RenderSimpleTable([]ui.TableColumn{{Title: "Metric"}, {Title: "Value"}}, rows))

	for _, d := range r.Charts {
		fmt.Fprintln(w)
		fmt.Fprintln(w, ui.Heading(fmt.Sprintf("%s (%s)", d.Title, d.Kind)))
		if d.Empty() {
			fmt.Fprintln(w, ui.Muted("  no data"))
			continue
		}
		fmt.Fprintln(w, ui.RenderSimpleTable(chartColumns(d), chartRows(d)))
	}
}

func chartColumns(d charts.Descriptor) []ui.TableColumn {
	cols := []ui.TableColumn{{Title: "Label"}}
	for _, ds := range d.Datasets {
		cols = append(cols, ui.TableColumn{Title: ds.Label})
	}
	return cols
}

func chartRows(d charts.Descriptor) [][]string {
	rows := make([][]string, len(d.Labels))
	for i, label := range d.Labels {
		row := []string{label}
		for _, ds := range d.Datasets {
			v := 0.0
			if i < len(ds.Data) {
				v = ds.Data[i]
			}
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		rows[i] = row
	}
	return rows
}
