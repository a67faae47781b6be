package referee

import (
	"fmt"
	"io"

	"github.com/ethereum-optimism/infra/op-referee/reporting"
	"github.com/ethereum-optimism/infra/op-referee/store"
)

// PrintReport renders a previously written results file as a table followed by its summary line
func PrintReport(w io.Writer, path string, color bool) error {
	results, err := store.Load(path)
	if err != nil {
		return err
	}
	summary := reporting.Summarize("", results, 0)
	if err := reporting.NewTableReporter(fmt.Sprintf("%s: %s", tableTitle, path), color).Print(w, results, summary); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}
	_, err = fmt.Fprintln(w, summary.String())
	return err
}
