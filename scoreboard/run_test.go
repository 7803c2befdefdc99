package scoreboard

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/fpgold"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/hupe1980/fpgold/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllPartitionsPass(t *testing.T) {
	metrics := &fpgold.BasicMetricsCollector{}
	cfg := Config{Workers: 4, RandomCount: 200, Seed: 1, Metrics: metrics}

	sum, err := Run(context.Background(), cfg, Golden{}, Golden{}, format.Formats(), rounding.All())
	require.NoError(t, err)
	require.Len(t, sum.Rows, 15)
	assert.Equal(t, "golden", sum.DUT)
	assert.Zero(t, sum.Failed())
	assert.Zero(t, sum.ExitCode())
	assert.NoError(t, sum.Err())

	assert.Equal(t, 16, sum.Rows[0].Width)
	assert.Equal(t, rounding.RNE, sum.Rows[0].Mode)
	assert.Equal(t, 64, sum.Rows[14].Width)
	assert.Equal(t, rounding.RNA, sum.Rows[14].Mode)
	for _, r := range sum.Rows {
		assert.Greater(t, r.Total, 200)
	}

	stats := metrics.GetStats()
	assert.Equal(t, int64(15), stats.CheckCount)
	assert.Equal(t, int64(sum.Total()), stats.CheckCases)
	assert.Zero(t, stats.CheckFailed)
}

func TestRunReportsFailingPartitions(t *testing.T) {
	cfg := Config{RandomCount: 100, Seed: 7, MaxMismatches: 2}
	modes := []rounding.Mode{rounding.RNE, rounding.RTZ}

	sum, err := Run(context.Background(), cfg, flipLSB(), Golden{}, []format.Format{format.Binary32}, modes)
	require.NoError(t, err)
	require.Len(t, sum.Rows, 2)
	assert.Positive(t, sum.Failed())
	assert.Equal(t, min(sum.Failed(), 255), sum.ExitCode())
	for _, res := range sum.Results {
		assert.LessOrEqual(t, len(res.Mismatches), 2)
	}

	var mErr *MismatchError
	require.ErrorAs(t, sum.Err(), &mErr)
	assert.Equal(t, sum.Failed(), mErr.Failed)
	require.NotNil(t, mErr.First)
	assert.Contains(t, mErr.Error(), "cases failed, first")
}

func TestRunSourceError(t *testing.T) {
	boom := errors.New("no vectors")
	cfg := Config{Source: func(context.Context, format.Format, rounding.Mode) (vector.Set, error) {
		return vector.Set{}, boom
	}}
	_, err := Run(context.Background(), cfg, Golden{}, Exact{}, format.Formats(), rounding.All())
	require.ErrorIs(t, err, boom)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Config{}, Golden{}, Exact{}, format.Formats(), rounding.All())
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateSourceSeedsPartitions(t *testing.T) {
	src := GenerateSource(20, 3)
	a, err := src(context.Background(), format.Binary32, rounding.RNE)
	require.NoError(t, err)
	b, err := src(context.Background(), format.Binary32, rounding.RTZ)
	require.NoError(t, err)
	again, err := src(context.Background(), format.Binary32, rounding.RNE)
	require.NoError(t, err)

	assert.Equal(t, a, again)
	last := len(a.Cases) - 1
	assert.NotEqual(t, a.Cases[last].A, b.Cases[last].A)
}

func TestSummaryTable(t *testing.T) {
	sum := &Summary{Rows: []Row{
		{Width: 16, Mode: rounding.RNE, Total: 120, Failed: 0},
		{Width: 32, Mode: rounding.RPI, Total: 80, Failed: 3},
	}}
	var buf bytes.Buffer
	require.NoError(t, sum.Table(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Verdict  | Width | Rounding Mode   | ADD (errors/total)  ", lines[0])
	assert.Equal(t, strings.Repeat("-", len(lines[0])), lines[1])
	assert.Equal(t, "PASS     | fp16  | rne             | 0 / 120             ", lines[2])
	assert.Equal(t, "FAIL     | fp32  | rpi             | 3 / 80              ", lines[3])
}
