package invoice

// Profile fixes the page geometry and the anchor of every region. All values are points.
type Profile struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
	RowHeight  float64
	BodySize   float64

	Header   HeaderLayout
	Metadata MetadataLayout
	Parties  PartiesLayout
	Table    TableLayout
	Summary  SummaryLayout
}

// HeaderLayout positions the logo, the document title and the issuer block.
type HeaderLayout struct {
	LogoX          float64
	LogoY          float64
	LogoWidth      float64
	TitleX         float64
	TitleY         float64
	TitleSize      float64
	IssuerX        float64
	IssuerY        float64
	IssuerLineStep float64
	IssuerSize     float64
}

// MetadataLayout positions the invoice label and date.
type MetadataLayout struct {
	X        float64
	InvoiceY float64
	DateY    float64
}

// PartiesLayout positions the bill-to and ship-to columns and the rule between them.
type PartiesLayout struct {
	Top           float64
	LineStep      float64
	BillX         float64
	ShipX         float64
	DividerX      float64
	DividerBottom float64
	DividerWidth  float64
}

// Column is a fixed-width text zone of the line-item table.
type Column struct {
	X     float64
	Width float64
	Align Align
}

// TableLayout positions the line-item table. Fixed rows start at FirstRowY; add-on rows
// start at AddOnStartY and are RowHeight apart.
type TableLayout struct {
	X              float64
	Y              float64
	Width          float64
	HeaderHeight   float64
	LabelInset     float64
	BorderWidth    float64
	Description    Column
	UnitPrice      Column
	Total          Column
	FirstRowY      float64
	AddOnStartY    float64
	GapAfterAddOns float64
}

// SummaryLayout positions the summary block relative to the summary anchor.
type SummaryLayout struct {
	LabelX          float64
	ValueX          float64
	LineStep        float64
	TotalBoxX       float64
	TotalBoxWidth   float64
	TotalBoxHeight  float64
	TotalBoxOffset  float64
	TotalTextOffset float64
	SignatureX      float64
	SignatureOffset float64
}

// A4 portrait in points.
const (
	a4Width  = 595.28
	a4Height = 841.89
)

// DefaultProfile returns the single-page A4 invoice layout.
func DefaultProfile() Profile {
	return Profile{
		PageWidth:  a4Width,
		PageHeight: a4Height,
		Margin:     50,
		RowHeight:  20,
		BodySize:   12,
		Header: HeaderLayout{
			LogoX:          50,
			LogoY:          45,
			LogoWidth:      100,
			TitleX:         400,
			TitleY:         40,
			TitleSize:      16,
			IssuerX:        400,
			IssuerY:        60,
			IssuerLineStep: 15,
			IssuerSize:     10,
		},
		Metadata: MetadataLayout{
			X:        50,
			InvoiceY: 140,
			DateY:    155,
		},
		Parties: PartiesLayout{
			Top:           180,
			LineStep:      15,
			BillX:         50,
			ShipX:         250,
			DividerX:      200,
			DividerBottom: 260,
			DividerWidth:  2,
		},
		Table: TableLayout{
			X:              50,
			Y:              270,
			Width:          500,
			HeaderHeight:   20,
			LabelInset:     5,
			BorderWidth:    1,
			Description:    Column{X: 55, Width: 250, Align: AlignLeft},
			UnitPrice:      Column{X: 305, Width: 100, Align: AlignCenter},
			Total:          Column{X: 405, Width: 95, Align: AlignCenter},
			FirstRowY:      295,
			AddOnStartY:    355,
			GapAfterAddOns: 20,
		},
		Summary: SummaryLayout{
			LabelX:          305,
			ValueX:          405,
			LineStep:        20,
			TotalBoxX:       375,
			TotalBoxWidth:   190,
			TotalBoxHeight:  20,
			TotalBoxOffset:  40,
			TotalTextOffset: 45,
			SignatureX:      40,
			SignatureOffset: 100,
		},
	}
}

// widthToMargin is the width of a text box that runs from x to the right page margin.
func (p Profile) widthToMargin(x float64) float64 {
	w := p.PageWidth - p.Margin - x
	if w < 0 {
		return 0
	}
	return w
}
