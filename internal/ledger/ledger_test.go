package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hmarlo/wordtrail/internal/db"
	"github.com/hmarlo/wordtrail/internal/dbx"
)

func setup(t *testing.T) (context.Context, int64) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, db.Init("file:"+t.Name()+"?mode=memory&cache=shared"))
	t.Cleanup(db.Close)

	u, err := db.CreateUser(ctx, db.DB, "tester", "Tester", db.RoleMember, "x")
	require.NoError(t, err)
	p, err := db.CreateProject(ctx, db.DB, u.ID, "Draft", "fiction", "", "2026-01-01")
	require.NoError(t, err)
	return ctx, p.ID
}

func TestRecordWordsAccumulates(t *testing.T) {
	ctx, pid := setup(t)

	deltas := []int64{120, 5, 980, 1, 44}
	var sum int64
	for _, d := range deltas {
		total, err := RecordWords(ctx, db.DB, pid, d)
		require.NoError(t, err)
		sum += d
		require.Equal(t, sum, total)
	}

	total, err := CurrentTotal(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Equal(t, sum, total)
}

func TestRecordWordsRejectsNonPositive(t *testing.T) {
	ctx, pid := setup(t)

	_, err := RecordWords(ctx, db.DB, pid, 0)
	require.ErrorIs(t, err, ErrNonPositiveDelta)
	_, err = RecordWords(ctx, db.DB, pid, -5)
	require.ErrorIs(t, err, ErrNonPositiveDelta)

	entries, err := History(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Empty(t, entries, "rejected submissions must not append")
}

func TestCurrentTotalEmpty(t *testing.T) {
	ctx, pid := setup(t)

	total, err := CurrentTotal(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestSetAbsoluteTotal(t *testing.T) {
	ctx, pid := setup(t)

	_, err := RecordWords(ctx, db.DB, pid, 50)
	require.NoError(t, err)

	// Restating the same total appends nothing.
	require.NoError(t, SetAbsoluteTotal(ctx, db.DB, pid, 50))
	entries, err := History(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// A downward correction appends a negative delta.
	require.NoError(t, SetAbsoluteTotal(ctx, db.DB, pid, 40))
	entries, err = History(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, int64(-10), entries[1].Words)
	require.Equal(t, int64(40), entries[1].TotalWords)

	total, err := CurrentTotal(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Equal(t, int64(40), total)

	// An upward restatement appends a positive delta.
	require.NoError(t, SetAbsoluteTotal(ctx, db.DB, pid, 100))
	total, err = CurrentTotal(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Equal(t, int64(100), total)
}

func TestSetAbsoluteTotalRejectsNegative(t *testing.T) {
	ctx, pid := setup(t)
	require.ErrorIs(t, SetAbsoluteTotal(ctx, db.DB, pid, -1), ErrNegativeTotal)
}

func TestSetAbsoluteTotalOnEmptyLedger(t *testing.T) {
	ctx, pid := setup(t)

	require.NoError(t, SetAbsoluteTotal(ctx, db.DB, pid, 250))
	entries, err := History(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(250), entries[0].Words)
	require.Equal(t, int64(250), entries[0].TotalWords)
}

func TestSetAbsoluteTotalZeroOnEmptyLedgerIsNoop(t *testing.T) {
	ctx, pid := setup(t)

	require.NoError(t, SetAbsoluteTotal(ctx, db.DB, pid, 0))
	entries, err := History(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestLedgerConsistency(t *testing.T) {
	ctx, pid := setup(t)

	_, err := RecordWords(ctx, db.DB, pid, 300)
	require.NoError(t, err)
	_, err = RecordWords(ctx, db.DB, pid, 700)
	require.NoError(t, err)
	require.NoError(t, SetAbsoluteTotal(ctx, db.DB, pid, 900))
	_, err = RecordWords(ctx, db.DB, pid, 100)
	require.NoError(t, err)

	entries, err := History(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	require.Equal(t, entries[0].Words, entries[0].TotalWords, "first entry total equals its delta")
	for k := 1; k < len(entries); k++ {
		require.Equal(t, entries[k-1].TotalWords+entries[k].Words, entries[k].TotalWords,
			"entry %d breaks the running-total invariant", k)
	}
}

func TestRecordWordsInsideTransaction(t *testing.T) {
	ctx, pid := setup(t)

	err := dbx.WithTx(ctx, db.DB, func(ctx context.Context, tx dbx.DBTX) error {
		_, err := RecordWords(ctx, tx, pid, 10)
		return err
	})
	require.NoError(t, err)

	total, err := CurrentTotal(ctx, db.DB, pid)
	require.NoError(t, err)
	require.Equal(t, int64(10), total)
}
