package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rocketscienceinc/tictactoe-trainer/internal/entity"
)

var ErrNoCheckpoints = errors.New("no checkpoints to plot")

// Render writes an HTML page with the cumulative outcomes and the exploration
// rate at every checkpoint.
func Render(w io.Writer, checkpoints []entity.Checkpoint) error {
	if len(checkpoints) == 0 {
		return ErrNoCheckpoints
	}

	episodes := make([]string, 0, len(checkpoints))
	xWins := make([]opts.LineData, 0, len(checkpoints))
	oWins := make([]opts.LineData, 0, len(checkpoints))
	draws := make([]opts.LineData, 0, len(checkpoints))
	rates := make([]opts.LineData, 0, len(checkpoints))

	for _, point := range checkpoints {
		episodes = append(episodes, strconv.Itoa(point.Episode))
		xWins = append(xWins, opts.LineData{Value: point.XWins})
		oWins = append(oWins, opts.LineData{Value: point.OWins})
		draws = append(draws, opts.LineData{Value: point.Draws})
		rates = append(rates, opts.LineData{Value: point.ExplorationRate})
	}

	outcomes := newLine("Outcomes")
	outcomes.SetXAxis(episodes).
		AddSeries("X wins", xWins).
		AddSeries("O wins", oWins).
		AddSeries("Draws", draws)

	exploration := newLine("Exploration rate")
	exploration.SetXAxis(episodes).AddSeries("rate", rates)

	page := components.NewPage()
	page.AddCharts(outcomes, exploration)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	return nil
}

// WriteFile renders the report to path, creating parent directories.
func WriteFile(path string, checkpoints []entity.Checkpoint) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	return Render(f, checkpoints)
}

func newLine(title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	return line
}
