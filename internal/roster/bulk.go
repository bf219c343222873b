package roster

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/talent-radar/internal/db"
	"github.com/sells-group/talent-radar/internal/fetcher"
	"github.com/sells-group/talent-radar/internal/model"
)

// BulkImporter loads CSV rosters straight into postgres through a COPY
// based upsert, bypassing per-row statements.
type BulkImporter struct {
	pool db.Pool

	// Now is injectable for tests.
	Now func() time.Time
}

// NewBulkImporter creates a pool-backed bulk importer.
func NewBulkImporter(pool db.Pool) *BulkImporter {
	return &BulkImporter{pool: pool, Now: time.Now}
}

// ImportCSV streams a roster CSV into tracked_employees. Existing rows
// are refreshed in place. Returns the number of rows written.
func (b *BulkImporter) ImportCSV(ctx context.Context, path string) (int64, error) {
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

	now := b.Now().UTC()
	var cols columnIndex
	var rows [][]any
	for row := range rowCh {
		if !cols.ready {
			header, ok := <-headerCh
			if !ok {
				return 0, eris.New("roster: missing header row")
			}
			if cols, err = indexColumns(header); err != nil {
				return 0, err
			}
		}

		emp := cols.employee(row)
		if emp.PersonID == "" {
			return 0, eris.New("roster: row missing person_id")
		}
		if emp.Tier == "" {
			emp.Tier = model.TierGeneral
		}

		profile, err := json.Marshal(model.EmployeeProfile{ID: emp.PersonID, FullName: emp.FullName})
		if err != nil {
			return 0, eris.Wrap(err, "roster: marshal profile")
		}

		rows = append(rows, []any{
			emp.PersonID, emp.FullName, emp.Org, profile, string(emp.Tier),
			now, now, now, now,
		})
	}
	if err := <-errCh; err != nil {
		return 0, eris.Wrapf(err, "roster: read %s", path)
	}

	n, err := db.BulkUpsert(ctx, b.pool, db.UpsertConfig{
		Table: "tracked_employees",
		Columns: []string{
			"person_id", "full_name", "org", "profile", "tier",
			"last_checked", "next_check", "created_at", "updated_at",
		},
		ConflictKeys: []string{"person_id"},
		UpdateCols:   []string{"full_name", "org", "updated_at"},
	}, rows)
	if err != nil {
		return 0, err
	}

	zap.L().Info("bulk roster import complete",
		zap.String("file", path),
		zap.Int64("rows", n))
	return n, nil
}
