package invoice

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlanTable(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()

	empty := PlanTable(0, p)
	require.Equal(t, 270.0, empty.HeaderY)
	require.Equal(t, 275.0, empty.LabelY)
	require.Equal(t, 295.0, empty.BaseRowY)
	require.Equal(t, 315.0, empty.BatteryRowY)
	require.Equal(t, 335.0, empty.PaintRowY)
	require.Empty(t, empty.AddOnRowYs)
	require.Equal(t, 355.0, empty.SummaryY)
	require.Equal(t, 355.0, empty.LastRowBottom(p.RowHeight))

	three := PlanTable(3, p)
	require.Equal(t, []float64{355, 375, 395}, three.AddOnRowYs)
	require.Equal(t, 415.0, three.LastRowBottom(p.RowHeight))
	require.Equal(t, 435.0, three.SummaryY)

	require.Equal(t, empty, PlanTable(-1, p))
}

func TestPlanTableSummaryClearsLastRow(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	for n := 0; n <= 30; n++ {
		g := PlanTable(n, p)
		require.GreaterOrEqualf(t, g.SummaryY, g.LastRowBottom(p.RowHeight), "addons=%d", n)
		for i := 1; i < len(g.AddOnRowYs); i++ {
			require.Equal(t, p.RowHeight, g.AddOnRowYs[i]-g.AddOnRowYs[i-1])
		}
	}
}

func TestTableGeometryShift(t *testing.T) {
	t.Parallel()

	g := PlanTable(2, DefaultProfile())
	shifted := g.Shift(30)
	require.Equal(t, g.HeaderY+30, shifted.HeaderY)
	require.Equal(t, g.LabelY+30, shifted.LabelY)
	require.Equal(t, g.BaseRowY+30, shifted.BaseRowY)
	require.Equal(t, g.PaintRowY+30, shifted.PaintRowY)
	require.Equal(t, []float64{385, 405}, shifted.AddOnRowYs)
	require.Equal(t, g.SummaryY+30, shifted.SummaryY)
	require.Equal(t, []float64{355, 375}, g.AddOnRowYs, "shift must not alias the original rows")

	require.Equal(t, g, g.Shift(-10))
}

func TestPlanSummary(t *testing.T) {
	t.Parallel()

	g := PlanSummary(435, DefaultProfile())
	require.Equal(t, SummaryGeometry{
		SubtotalY:  435,
		TaxY:       455,
		TotalBoxY:  475,
		TotalTextY: 480,
		SignatureY: 535,
	}, g)
}

func TestCursorOnlyMovesDown(t *testing.T) {
	t.Parallel()

	c := NewCursor(100)
	require.Equal(t, 100.0, c.AdvanceTo(50).Y())
	require.Equal(t, 150.0, c.AdvanceTo(150).Y())
	require.Equal(t, 100.0, c.Advance(-20).Y())
	require.Equal(t, 120.0, c.Advance(20).Y())
	require.Equal(t, 100.0, c.Y(), "cursor is a value")
}

func TestProfileWidthToMargin(t *testing.T) {
	t.Parallel()

	p := DefaultProfile()
	require.InDelta(t, 145.28, p.widthToMargin(400), 1e-9)
	require.Zero(t, p.widthToMargin(600))
}
