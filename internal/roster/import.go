// Package roster loads tracked-employee rosters from CSV, XLSX and JSON
// files into the store.
package roster

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/fetcher"
	"github.com/sells-group/talent-radar/internal/model"
	"github.com/sells-group/talent-radar/internal/store"
)

// Importer writes imported rows through the store one at a time. For
// large postgres imports use BulkImporter instead.
type Importer struct {
	store store.Store

	// Now is injectable for tests.
	Now func() time.Time
}

// NewImporter creates a store-backed roster importer.
func NewImporter(st store.Store) *Importer {
	return &Importer{store: st, Now: time.Now}
}

// ImportFile loads a roster file, dispatching on the extension. CSV and
// XLSX files need a header row with at least person_id, full_name and
// org columns; JSON files hold an array of tracked-employee objects.
// Returns the number of rows imported.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	log := zap.L().With(zap.String("phase", "import"), zap.String("file", path))

	var (
		n   int
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		n, err = im.importCSV(ctx, path)
	case ".xlsx":
		n, err = im.importXLSX(ctx, path)
	case ".json":
		n, err = im.importJSON(ctx, path)
	case ".zip":
		n, err = im.importZIP(ctx, path)
	default:
		return 0, eris.Errorf("roster: unsupported file type %s", filepath.Ext(path))
	}
	if err != nil {
		return n, err
	}

	log.Info("roster imported", zap.Int("rows", n))
	return n, nil
}

func (im *Importer) importCSV(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "roster: open %s", path)
	}
	defer f.Close()

	headerCh := make(chan []string, 1)
	rowCh, errCh := fetcher.StreamCSV(ctx, f, fetcher.CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
		TrimSpace: true,
	})

	var cols columnIndex
	n := 0
	for row := range rowCh {
		if !cols.ready {
			header, ok := <-headerCh
			if !ok {
				return n, eris.New("roster: missing header row")
			}
			if cols, err = indexColumns(header); err != nil {
				return n, err
			}
		}
		if err := im.upsertRow(ctx, cols.employee(row)); err != nil {
			return n, err
		}
		n++
	}
	if err := <-errCh; err != nil {
		return n, eris.Wrapf(err, "roster: read %s", path)
	}
	return n, nil
}

func (im *Importer) importXLSX(ctx context.Context, path string) (int, error) {
	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, eris.New("roster: missing header row")
	}

	cols, err := indexColumns(rows[0])
	if err != nil {
		return 0, err
	}

	n := 0
	for _, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return n, eris.Wrap(err, "roster: import cancelled")
		}
		if err := im.upsertRow(ctx, cols.employee(row)); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (im *Importer) importJSON(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, eris.Wrapf(err, "roster: open %s", path)
	}
	defer f.Close()

	ch, errCh := fetcher.DecodeJSONArray[model.TrackedEmployee](ctx, f)
	n := 0
	for emp := range ch {
		if err := im.upsertRow(ctx, emp); err != nil {
			return n, err
		}
		n++
	}
	if err := <-errCh; err != nil {
		return n, eris.Wrapf(err, "roster: decode %s", path)
	}
	return n, nil
}

// importZIP extracts a roster bundle and imports every supported file
// inside it.
func (im *Importer) importZIP(ctx context.Context, path string) (int, error) {
	dir, err := os.MkdirTemp("", "roster-zip-")
	if err != nil {
		return 0, eris.Wrap(err, "roster: temp dir")
	}
	defer os.RemoveAll(dir)

	extracted, err := fetcher.ExtractZIP(path, dir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, file := range extracted {
		switch strings.ToLower(filepath.Ext(file)) {
		case ".csv", ".xlsx", ".json":
			n, err := im.ImportFile(ctx, file)
			if err != nil {
				return total, err
			}
			total += n
		}
	}
	if total == 0 {
		return 0, eris.Errorf("roster: no roster files in %s", path)
	}
	return total, nil
}

// ImportURL downloads a roster file and imports it. The remote path's
// extension decides the format, as with ImportFile.
func (im *Importer) ImportURL(ctx context.Context, rawURL string) (int, error) {
	ext := strings.ToLower(filepath.Ext(rawURL))
	switch ext {
	case ".csv", ".xlsx", ".json", ".zip":
	default:
		return 0, eris.Errorf("roster: unsupported file type %s", ext)
	}

	dir, err := os.MkdirTemp("", "roster-dl-")
	if err != nil {
		return 0, eris.Wrap(err, "roster: temp dir")
	}
	defer os.RemoveAll(dir)

	local := filepath.Join(dir, "roster"+ext)
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	if _, err := f.DownloadToFile(ctx, rawURL, local); err != nil {
		return 0, err
	}

	return im.ImportFile(ctx, local)
}

// upsertRow fills defaults and writes one employee. NextCheck lands at
// import time so fresh rows are picked up by the next check run.
func (im *Importer) upsertRow(ctx context.Context, emp model.TrackedEmployee) error {
	if emp.PersonID == "" {
		return eris.New("roster: row missing person_id")
	}
	if emp.Tier == "" {
		emp.Tier = model.TierGeneral
	}
	if emp.Profile.ID == "" {
		emp.Profile.ID = emp.PersonID
	}
	if emp.Profile.FullName == "" {
		emp.Profile.FullName = emp.FullName
	}
	emp.Profile.Normalize()
	if emp.NextCheck.IsZero() {
		emp.NextCheck = im.Now().UTC()
	}
	_, err := im.store.UpsertEmployee(ctx, emp)
	return err
}

// columnIndex maps roster header names to positions.
type columnIndex struct {
	ready    bool
	personID int
	fullName int
	org      int
	tier     int
}

func indexColumns(header []string) (columnIndex, error) {
	cols := columnIndex{ready: true, personID: -1, fullName: -1, org: -1, tier: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "person_id", "id":
			cols.personID = i
		case "full_name", "name":
			cols.fullName = i
		case "org", "company":
			cols.org = i
		case "tier":
			cols.tier = i
		}
	}
	if cols.personID < 0 || cols.fullName < 0 || cols.org < 0 {
		return cols, eris.New("roster: header must include person_id, full_name and org")
	}
	return cols, nil
}

func (c columnIndex) employee(row []string) model.TrackedEmployee {
	emp := model.TrackedEmployee{
		PersonID: cell(row, c.personID),
		FullName: cell(row, c.fullName),
		Org:      cell(row, c.org),
	}
	if t := cell(row, c.tier); t != "" {
		emp.Tier = model.Tier(t)
	}
	return emp
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
