package scoreboard

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hupe1980/fpgold"
	"github.com/hupe1980/fpgold/blobstore"
	"github.com/hupe1980/fpgold/codec"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/ledger"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingSummary(t *testing.T) *Summary {
	t.Helper()
	cfg := Config{RandomCount: 64, Seed: 5, MaxMismatches: 4}
	sum, err := Run(context.Background(), cfg, flipLSB(), Golden{}, []format.Format{format.Binary16, format.Binary64}, []rounding.Mode{rounding.RNE})
	require.NoError(t, err)
	require.Positive(t, sum.Failed())
	return sum
}

func TestReportRoundTrip(t *testing.T) {
	sum := failingSummary(t)
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	r, err := NewReport("nightly-42", sum, created)
	require.NoError(t, err)
	require.Len(t, r.Partitions, 2)
	assert.Equal(t, sum.Failed(), r.Failed())

	for _, name := range codec.Names() {
		t.Run(name, func(t *testing.T) {
			c, ok := codec.ByName(name)
			require.True(t, ok)
			store := blobstore.NewMemoryStore()

			blob, n, err := SaveReport(context.Background(), store, c, r)
			require.NoError(t, err)
			assert.Positive(t, n)
			assert.True(t, strings.HasPrefix(blob, "reports/nightly-42."))

			got, err := LoadReport(context.Background(), store, blob)
			require.NoError(t, err)
			assert.Equal(t, r.Run, got.Run)
			assert.Equal(t, r.DUT, got.DUT)
			assert.True(t, r.Created.Equal(got.Created))
			require.Len(t, got.Partitions, len(r.Partitions))

			for i, p := range got.Partitions {
				want := r.Partitions[i]
				assert.Equal(t, want.Width, p.Width)
				assert.Equal(t, want.Mode, p.Mode)
				assert.Equal(t, want.Total, p.Total)
				assert.Equal(t, want.Failed, p.Failed)
				assert.Equal(t, want.Mismatches, p.Mismatches)

				bm, err := p.FailureSet()
				require.NoError(t, err)
				assert.Equal(t, uint64(p.Failed), bm.GetCardinality())
				assert.True(t, bm.Equals(sum.Results[i].Failures))
			}

			names, err := ListReports(context.Background(), store)
			require.NoError(t, err)
			assert.Equal(t, []string{blob}, names)
		})
	}
}

func TestReportMismatchRecordsUseWidth(t *testing.T) {
	sum := failingSummary(t)
	r, err := NewReport("r", sum, time.Now())
	require.NoError(t, err)

	require.NotEmpty(t, r.Partitions[0].Mismatches)
	assert.Len(t, r.Partitions[0].Mismatches[0].A, 4)
	require.NotEmpty(t, r.Partitions[1].Mismatches)
	assert.Len(t, r.Partitions[1].Mismatches[0].Got, 16)
}

func TestPublisher(t *testing.T) {
	sum := failingSummary(t)
	r, err := NewReport("run-7", sum, time.Now())
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	led := ledger.NewMemory()
	metrics := &fpgold.BasicMetricsCollector{}
	p := Publisher{Store: store, Codec: codec.MsgPack{}, Ledger: led, Metrics: metrics}

	name, err := p.Publish(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "reports/run-7.msgpack", name)

	entries, err := led.List(context.Background(), "run-7")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, name, e.Report)
		assert.Equal(t, "flip", e.DUT)
	}
	assert.Equal(t, int64(1), metrics.GetStats().UploadCount)

	// A second publish of the same run is rejected by the ledger.
	_, err = p.Publish(context.Background(), r)
	require.ErrorIs(t, err, ledger.ErrDuplicate)
}

func TestPublisherWithoutStore(t *testing.T) {
	r := &Report{Run: "r", Partitions: []PartitionReport{{Width: 16, Mode: "rne", Total: 1}}}
	led := ledger.NewMemory()
	name, err := Publisher{Ledger: led}.Publish(context.Background(), r)
	require.NoError(t, err)
	assert.Empty(t, name)

	entries, err := led.List(context.Background(), "r")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Report)
}
