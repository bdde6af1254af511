package sheet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestExcelStore(t *testing.T) *ExcelStore {
	t.Helper()
	s := NewExcelStore(t.TempDir())
	require.NoError(t, s.CreateTenant("t1", []string{"設定", "予約", "休診日"}))
	return s
}

func TestExcelStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestExcelStore(t)

	err := s.UpdateCells(ctx, "t1", "設定!A1", [][]any{
		{"クリニック名", "テスト医院"},
		{"診療開始時間", "09:00"},
	})
	require.NoError(t, err)

	rows, err := s.ReadRange(ctx, "t1", "設定!A1:B19")
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"クリニック名", "テスト医院"},
		{"診療開始時間", "09:00"},
	}, rows)
}

func TestExcelStoreAppendRow(t *testing.T) {
	ctx := context.Background()
	s := newTestExcelStore(t)

	require.NoError(t, s.UpdateCells(ctx, "t1", "予約!A1", [][]any{{"日付", "時間"}}))

	require.NoError(t, s.AppendRow(ctx, "t1", "予約!A2:J", [][]any{
		{"2026/1/27", "9:30", "山田", "090-0000-0000", "", "", "", "", "確定", "Bot"},
	}))
	require.NoError(t, s.AppendRow(ctx, "t1", "予約!A2:J", [][]any{
		{"2026/1/27", "10:00", "田中", "090-1111-1111", "", "", "", "", "確定", "Web"},
	}))

	rows, err := s.ReadRange(ctx, "t1", "予約!A2:J")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// The unpadded time string survives the workbook round trip.
	require.Equal(t, "9:30", rows[0][1])
	require.Equal(t, "田中", rows[1][2])
}

func TestExcelStoreUpdateStatusCell(t *testing.T) {
	ctx := context.Background()
	s := newTestExcelStore(t)

	require.NoError(t, s.AppendRow(ctx, "t1", "予約!A2:J", [][]any{
		{"2026/1/27", "9:30", "山田", "", "", "", "", "", "確定", "Bot"},
	}))

	require.NoError(t, s.UpdateCells(ctx, "t1", "予約!I2", [][]any{{"キャンセル"}}))

	rows, err := s.ReadRange(ctx, "t1", "予約!A2:J")
	require.NoError(t, err)
	require.Equal(t, "キャンセル", rows[0][8])
}

func TestExcelStoreMissingTenant(t *testing.T) {
	ctx := context.Background()
	s := NewExcelStore(t.TempDir())

	_, err := s.ReadRange(ctx, "nope", "設定!A1:B19")
	require.ErrorIs(t, err, ErrTenantNotFound)
}

func TestExcelStoreTenants(t *testing.T) {
	s := NewExcelStore(t.TempDir())
	require.NoError(t, s.CreateTenant("alpha", []string{"設定"}))
	require.NoError(t, s.CreateTenant("beta", []string{"設定"}))

	tenants, err := s.Tenants(context.Background())
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alpha", "beta"}, tenants)
}
