package invoice

// TableGeometry is the vertical plan of the line-item table for a given add-on count.
type TableGeometry struct {
	HeaderY     float64
	LabelY      float64
	BaseRowY    float64
	BatteryRowY float64
	PaintRowY   float64
	AddOnRowYs  []float64
	SummaryY    float64
}

// LastRowBottom is the lower edge of the last add-on row, or of the paint row slot when
// there are no add-ons.
func (g TableGeometry) LastRowBottom(rowHeight float64) float64 {
	if n := len(g.AddOnRowYs); n > 0 {
		return g.AddOnRowYs[n-1] + rowHeight
	}
	return g.PaintRowY + rowHeight
}

// Shift moves every offset of the plan down by dy. Non-positive steps return g unchanged.
func (g TableGeometry) Shift(dy float64) TableGeometry {
	if dy <= 0 {
		return g
	}
	g.HeaderY += dy
	g.LabelY += dy
	g.BaseRowY += dy
	g.BatteryRowY += dy
	g.PaintRowY += dy
	g.SummaryY += dy
	rows := make([]float64, len(g.AddOnRowYs))
	for i, y := range g.AddOnRowYs {
		rows[i] = y + dy
	}
	g.AddOnRowYs = rows
	return g
}

// PlanTable computes row offsets and the summary anchor. The summary anchor sits one gap
// below the last add-on row; without add-ons it collapses to the add-on start offset.
func PlanTable(addOnCount int, p Profile) TableGeometry {
	t := p.Table
	g := TableGeometry{
		HeaderY:     t.Y,
		LabelY:      t.Y + t.LabelInset,
		BaseRowY:    t.FirstRowY,
		BatteryRowY: t.FirstRowY + p.RowHeight,
		PaintRowY:   t.FirstRowY + 2*p.RowHeight,
		SummaryY:    t.AddOnStartY,
	}
	if addOnCount <= 0 {
		return g
	}
	g.AddOnRowYs = make([]float64, addOnCount)
	for i := range g.AddOnRowYs {
		g.AddOnRowYs[i] = t.AddOnStartY + float64(i)*p.RowHeight
	}
	g.SummaryY = t.AddOnStartY + float64(addOnCount)*p.RowHeight + t.GapAfterAddOns
	return g
}

// SummaryGeometry is the vertical plan of the summary block.
type SummaryGeometry struct {
	SubtotalY  float64
	TaxY       float64
	TotalBoxY  float64
	TotalTextY float64
	SignatureY float64
}

// PlanSummary anchors the summary block at anchor.
func PlanSummary(anchor float64, p Profile) SummaryGeometry {
	s := p.Summary
	return SummaryGeometry{
		SubtotalY:  anchor,
		TaxY:       anchor + s.LineStep,
		TotalBoxY:  anchor + s.TotalBoxOffset,
		TotalTextY: anchor + s.TotalTextOffset,
		SignatureY: anchor + s.SignatureOffset,
	}
}
