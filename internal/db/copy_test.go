package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "tracked_employees", []string{"person_id", "full_name"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"tracked_employees"}, []string{"person_id", "full_name"}).WillReturnResult(3)

	rows := [][]any{{"p1", "Alex Chen"}, {"p2", "Sam Park"}, {"p3", "Riley Kim"}}
	n, err := CopyFrom(context.Background(), mock, "tracked_employees", []string{"person_id", "full_name"}, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"tracked_employees"}, []string{"person_id"}).WillReturnError(fmt.Errorf("copy failed"))

	rows := [][]any{{"p1"}}
	_, err = CopyFrom(context.Background(), mock, "tracked_employees", []string{"person_id"}, rows)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO tracked_employees")
	assert.NoError(t, mock.ExpectationsWereMet())
}
