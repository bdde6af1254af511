package sheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreReadRange(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed("t1", "設定", [][]string{
		{"クリニック名", "テスト医院"},
		{"診療開始時間", "09:00"},
	})

	rows, err := s.ReadRange(ctx, "t1", "設定!A1:B19")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"クリニック名", "テスト医院"},
		{"診療開始時間", "09:00"},
	}, rows)

	// Range starting below the data yields nothing.
	rows, err = s.ReadRange(ctx, "t1", "設定!A5:B19")
	require.NoError(t, err)
	require.Empty(t, rows)

	_, err = s.ReadRange(ctx, "missing", "設定!A1:B19")
	require.ErrorIs(t, err, ErrTenantNotFound)

	_, err = s.ReadRange(ctx, "t1", "予約!A2:J")
	require.ErrorIs(t, err, ErrSheetNotFound)
}

func TestMemoryStoreAppendRow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed("t1", "予約", [][]string{
		{"日付", "時間"},
	})

	err := s.AppendRow(ctx, "t1", "予約!A2:J", [][]any{
		{"2026/1/27", "10:00", "山田"},
	})
	require.NoError(t, err)
	err = s.AppendRow(ctx, "t1", "予約!A2:J", [][]any{
		{"2026/1/27", "10:30", "田中"},
	})
	require.NoError(t, err)

	rows, err := s.ReadRange(ctx, "t1", "予約!A2:J")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "山田", rows[0][2])
	require.Equal(t, "10:30", rows[1][1])
	// Blank cells come back as empty strings up to the range width.
	require.Len(t, rows[0], 10)
	require.Equal(t, "", rows[0][9])
}

func TestMemoryStoreAppendSkipsHeaderOnly(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed("t1", "予約", [][]string{
		{"日付", "時間"},
	})

	// First append on an empty data region lands on row 2.
	require.NoError(t, s.AppendRow(ctx, "t1", "予約!A2:J", [][]any{{"2026/2/1", "9:00"}}))

	rows, err := s.ReadRange(ctx, "t1", "予約!A1:J")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "日付", rows[0][0])
	require.Equal(t, "2026/2/1", rows[1][0])
}

func TestMemoryStoreUpdateCells(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Seed("t1", "予約", [][]string{
		{"日付", "時間", "", "", "", "", "", "", "ステータス"},
		{"2026/1/27", "10:00", "山田", "", "", "", "", "", "確定"},
	})

	err := s.UpdateCells(ctx, "t1", "予約!I2", [][]any{{"キャンセル"}})
	require.NoError(t, err)

	rows, err := s.ReadRange(ctx, "t1", "予約!A2:J")
	require.NoError(t, err)
	require.Equal(t, "キャンセル", rows[0][8])
	// Other cells untouched.
	require.Equal(t, "山田", rows[0][2])
}

func TestCellString(t *testing.T) {
	require.Equal(t, "x", CellString("x"))
	require.Equal(t, "7", CellString(7))
	require.Equal(t, "2.5", CellString(2.5))
	require.Equal(t, "", CellString(nil))
}
