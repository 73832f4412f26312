package exporter

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/voice-notes/internal/domain"
	"github.com/nguyentantai21042004/voice-notes/internal/logger"
	"github.com/xuri/excelize/v2"
)

const indexSheet = "Notes"

var indexHeader = []interface{}{"Processed At", "Title", "Summary", "Key Points", "Hashtags", "Transcript Length"}

// Index appends one row per analyzed recording to an .xlsx workbook.
type Index struct {
	path   string
	logger logger.Logger
	now    func() time.Time

	mu sync.Mutex
}

func NewIndex(path string, log logger.Logger) *Index {
	return &Index{path: path, logger: log, now: time.Now}
}

func (x *Index) Name() string { return "xlsx" }

func (x *Index) Persist(ctx context.Context, result domain.AnalysisResult, transcript string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	f, err := x.open()
	if err != nil {
		return persistError("open index", err)
	}
	defer f.Close()

	rows, err := f.GetRows(indexSheet)
	if err != nil {
		return persistError("read index", err)
	}

	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return persistError("index cell", err)
	}

	row := []interface{}{
		x.now().Format(time.RFC3339),
		result.TitleOr(domain.DefaultTitle),
		result.Summary.String(),
		strings.Join(result.KeyPoints, "\n"),
		strings.Join(result.Hashtags, " "),
		len([]rune(transcript)),
	}
	if err := f.SetSheetRow(indexSheet, cell, &row); err != nil {
		return persistError("write index row", err)
	}
	if err := f.SaveAs(x.path); err != nil {
		return persistError("save index", err)
	}

	x.logger.Debug(ctx, "Index row %s appended to %s", cell, x.path)
	return nil
}

// open returns the existing workbook or a fresh one with the header row.
func (x *Index) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(x.path)
	if err == nil {
		if idx, _ := f.GetSheetIndex(indexSheet); idx < 0 {
			if _, err := f.NewSheet(indexSheet); err != nil {
				f.Close()
				return nil, err
			}
		}
		return f, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(x.path), 0755); err != nil {
		return nil, err
	}

	f = excelize.NewFile()
	if err := f.SetSheetName("Sheet1", indexSheet); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(indexSheet, "A1", &indexHeader); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
