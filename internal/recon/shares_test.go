package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareSplitRatio(t *testing.T) {
	assert.Equal(t, "67/33", ShareSplit{PartnerA: 67, PartnerB: 33}.Ratio())
	assert.Equal(t, "50/50", ShareSplit{PartnerA: 50, PartnerB: 50}.Ratio())
}

func TestShareConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  ShareConfig
		wantErr bool
	}{
		{
			name:    "default config is valid",
			config:  DefaultShareConfig(),
			wantErr: false,
		},
		{
			name: "segment summing to 99 rejected",
			config: ShareConfig{
				Segments: map[Segment]ShareSplit{
					SegmentDirect: {PartnerA: 66, PartnerB: 33},
				},
				Default: ShareSplit{PartnerA: 50, PartnerB: 50},
			},
			wantErr: true,
		},
		{
			name: "segment summing to 101 rejected",
			config: ShareConfig{
				Segments: map[Segment]ShareSplit{
					SegmentExport: {PartnerA: 98, PartnerB: 3},
				},
				Default: ShareSplit{PartnerA: 50, PartnerB: 50},
			},
			wantErr: true,
		},
		{
			name: "invalid default rejected",
			config: ShareConfig{
				Segments: map[Segment]ShareSplit{},
				Default:  ShareSplit{PartnerA: 60, PartnerB: 30},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShareConfigSplitFor(t *testing.T) {
	cfg := DefaultShareConfig()

	assert.Equal(t, ShareSplit{PartnerA: 97, PartnerB: 3}, cfg.SplitFor(SegmentThirdParty))
	assert.Equal(t, cfg.Default, cfg.SplitFor(""))
	assert.Equal(t, cfg.Default, cfg.SplitFor(Segment("WHOLESALE")))
}

func TestMisconfiguredSharesRejectedBeforeCalculation(t *testing.T) {
	ix := BuildBatchIndex(
		[]Purchase{{ItemTypeCode: "FG", ItemCode: "A", BatchRefNo: "B1", InQty: 1, InRate: 1}},
		nil,
	)
	bad := ShareConfig{
		Segments: map[Segment]ShareSplit{SegmentDirect: {PartnerA: 60, PartnerB: 39}},
		Default:  ShareSplit{PartnerA: 50, PartnerB: 50},
	}

	dec, err := NewDecomposer(ix, bad, nil)
	require.Error(t, err)
	assert.Nil(t, dec)
}
