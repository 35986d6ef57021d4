package warehouse

import (
	"github.com/ClickHouse/ch-go/proto"

	"github.com/kselvik/anemos/internal/domain/model"
)

// aepBatch holds column data for a native-protocol insert of site results.
type aepBatch struct {
	RunID      *proto.ColStr
	SiteID     *proto.ColStr
	AEPMWh     *proto.ColFloat64
	CurveName  *proto.ColStr
	HubHeight  *proto.ColFloat64
	Year       *proto.ColInt32
	ComputedAt *proto.ColDateTime
}

func newAEPBatch() *aepBatch {
	return &aepBatch{
		RunID:      new(proto.ColStr),
		SiteID:     new(proto.ColStr),
		AEPMWh:     new(proto.ColFloat64),
		CurveName:  new(proto.ColStr),
		HubHeight:  new(proto.ColFloat64),
		Year:       new(proto.ColInt32),
		ComputedAt: new(proto.ColDateTime),
	}
}

func (b *aepBatch) Reset() {
	b.RunID.Reset()
	b.SiteID.Reset()
	b.AEPMWh.Reset()
	b.CurveName.Reset()
	b.HubHeight.Reset()
	b.Year.Reset()
	b.ComputedAt.Reset()
}

func (b *aepBatch) Len() int {
	return b.SiteID.Rows()
}

func (b *aepBatch) Input() proto.Input {
	return proto.Input{
		{Name: "run_id", Data: b.RunID},
		{Name: "site_id", Data: b.SiteID},
		{Name: "aep_mwh", Data: b.AEPMWh},
		{Name: "curve_name", Data: b.CurveName},
		{Name: "hub_height_m", Data: b.HubHeight},
		{Name: "year", Data: b.Year},
		{Name: "computed_at", Data: b.ComputedAt},
	}
}

func (b *aepBatch) Add(runID string, r model.SiteAEP) {
	b.RunID.Append(runID)
	b.SiteID.Append(r.SiteID)
	b.AEPMWh.Append(r.AEPMWh)
	b.CurveName.Append(r.CurveName)
	b.HubHeight.Append(r.HubHeight)
	b.Year.Append(int32(r.Year))
	b.ComputedAt.Append(r.ComputedAt)
}
