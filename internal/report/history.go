package report

import (
	"fmt"
	"io"
	"time"

	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

// WriteHistory prints one line per run in the given order.
func WriteHistory(w io.Writer, runs []*entity.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}

	for _, run := range runs {
		_, err := fmt.Fprintf(w, "#%d %s %s episodes=%d X=%d O=%d draws=%d took=%s\n",
			run.ID, run.StartedAt.UTC().Format(time.DateTime), run.Mode, run.Episodes,
			run.XWins, run.OWins, run.Draws, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))
		if err != nil {
			return fmt.Errorf("failed to write history: %w", err)
		}
	}

	return nil
}
