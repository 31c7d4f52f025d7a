package dataset

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id", "score", "name", "active", "seen", "empty"}).
			AddRow(int64(1), 1.5, "alice", true, ts, nil).
			AddRow(int64(2), nil, []byte("bob"), false, ts, nil).
			AddRow(int64(3), 7.25, nil, true, nil, nil),
	)

	rows, err := db.Query("SELECT * FROM people")
	require.NoError(t, err)
	defer rows.Close()

	f, err := FromRows(rows)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 3, f.Rows)

	id, _ := f.Column("id")
	assert.Equal(t, KindNumeric, id.Kind)
	assert.Equal(t, []float64{1, 2, 3}, id.Num)

	score, _ := f.Column("score")
	assert.Equal(t, KindNumeric, score.Kind)
	assert.True(t, math.IsNaN(score.Num[1]))

	name, _ := f.Column("name")
	assert.Equal(t, KindText, name.Kind)
	assert.Equal(t, "bob", name.Text[1])
	assert.True(t, name.Null[2])

	active, _ := f.Column("active")
	assert.Equal(t, KindText, active.Kind)
	assert.Equal(t, "true", active.Text[0])

	seen, _ := f.Column("seen")
	assert.Equal(t, "2024-03-01T12:00:00Z", seen.Text[0])

	empty, _ := f.Column("empty")
	assert.Equal(t, KindText, empty.Kind)
	assert.Equal(t, 3, empty.Missing())
}

type decimal struct{ v float64 }

func (d decimal) Float64() float64 { return d.v }

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{int32(4), 4, true},
		{uint8(9), 9, true},
		{float32(0.5), 0.5, true},
		{big.NewInt(1 << 40), float64(1 << 40), true},
		{decimal{2.25}, 2.25, true},
		{"3", 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := toFloat(tt.in)
		assert.Equal(t, tt.ok, ok, "%T", tt.in)
		assert.Equal(t, tt.want, got, "%T", tt.in)
	}
}
