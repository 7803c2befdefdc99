package scoreboard

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fpgold"
	"github.com/hupe1980/fpgold/blobstore"
	"github.com/hupe1980/fpgold/codec"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/ledger"
)

const reportPrefix = "reports/"

// MismatchRecord is a stored mismatch. Operands and results are hex strings
// of the partition width.
type MismatchRecord struct {
	Index int    `json:"index" msgpack:"index"`
	A     string `json:"a" msgpack:"a"`
	B     string `json:"b" msgpack:"b"`
	Got   string `json:"got" msgpack:"got"`
	Want  string `json:"want" msgpack:"want"`
}

// PartitionReport is the stored outcome of one partition. Failures is the
// portable roaring serialization of the failing case indices.
type PartitionReport struct {
	Width      int              `json:"width" msgpack:"width"`
	Mode       string           `json:"mode" msgpack:"mode"`
	Total      int              `json:"total" msgpack:"total"`
	Failed     int              `json:"failed" msgpack:"failed"`
	Duration   time.Duration    `json:"duration_ns" msgpack:"duration_ns"`
	Failures   []byte           `json:"failures,omitempty" msgpack:"failures,omitempty"`
	Mismatches []MismatchRecord `json:"mismatches,omitempty" msgpack:"mismatches,omitempty"`
}

// FailureSet decodes the failing case indices.
func (p PartitionReport) FailureSet() (*roaring.Bitmap, error) {
	bm := roaring.New()
	if len(p.Failures) == 0 {
		return bm, nil
	}
	if _, err := bm.ReadFrom(bytes.NewReader(p.Failures)); err != nil {
		return nil, fmt.Errorf("scoreboard: decode failures fp%d/%s: %w", p.Width, p.Mode, err)
	}
	return bm, nil
}

// Report is the stored outcome of a run.
type Report struct {
	Run        string            `json:"run" msgpack:"run"`
	DUT        string            `json:"dut" msgpack:"dut"`
	Reference  string            `json:"reference" msgpack:"reference"`
	Created    time.Time         `json:"created" msgpack:"created"`
	Partitions []PartitionReport `json:"partitions" msgpack:"partitions"`
}

// Failed returns the number of failing cases across partitions.
func (r *Report) Failed() int {
	n := 0
	for _, p := range r.Partitions {
		n += p.Failed
	}
	return n
}

// NewReport builds the report of a summary.
func NewReport(run string, s *Summary, created time.Time) (*Report, error) {
	r := &Report{
		Run:        run,
		DUT:        s.DUT,
		Reference:  s.Reference,
		Created:    created.UTC(),
		Partitions: make([]PartitionReport, 0, len(s.Rows)),
	}
	for i, row := range s.Rows {
		p := PartitionReport{
			Width:    row.Width,
			Mode:     row.Mode.String(),
			Total:    row.Total,
			Failed:   row.Failed,
			Duration: row.Duration,
		}
		if i < len(s.Results) {
			res := s.Results[i]
			if res.Failures != nil && !res.Failures.IsEmpty() {
				res.Failures.RunOptimize()
				data, err := res.Failures.ToBytes()
				if err != nil {
					return nil, fmt.Errorf("scoreboard: encode failures: %w", err)
				}
				p.Failures = data
			}
			p.Mismatches = mismatchRecords(res.Format, res.Mismatches)
		}
		r.Partitions = append(r.Partitions, p)
	}
	return r, nil
}

func mismatchRecords(f format.Format, ms []Mismatch) []MismatchRecord {
	if len(ms) == 0 {
		return nil
	}
	out := make([]MismatchRecord, len(ms))
	for i, m := range ms {
		out[i] = MismatchRecord{
			Index: m.Index,
			A:     f.Hex(m.Case.A),
			B:     f.Hex(m.Case.B),
			Got:   f.Hex(m.Got),
			Want:  f.Hex(m.Want),
		}
	}
	return out
}

// ReportName is the blob name of a run's report written with c.
func ReportName(run string, c codec.Codec) string {
	return reportPrefix + run + codec.Ext(c)
}

// SaveReport encodes r with c and stores it. It returns the blob name and
// the encoded size.
func SaveReport(ctx context.Context, store blobstore.BlobStore, c codec.Codec, r *Report) (string, int, error) {
	c = codecOrDefault(c)
	data, err := c.Marshal(r)
	if err != nil {
		return "", 0, fmt.Errorf("scoreboard: encode report: %w", err)
	}
	name := ReportName(r.Run, c)
	if err := store.Put(ctx, name, data); err != nil {
		return "", 0, fmt.Errorf("scoreboard: store %s: %w", name, err)
	}
	return name, len(data), nil
}

// LoadReport reads a stored report. The codec follows from the name suffix.
func LoadReport(ctx context.Context, store blobstore.BlobStore, name string) (*Report, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("scoreboard: read %s: %w", name, err)
	}
	var c codec.Codec = codec.Default
	if strings.HasSuffix(name, codec.Ext(codec.MsgPack{})) {
		c = codec.MsgPack{}
	}
	r := &Report{}
	if err := c.Unmarshal(data, r); err != nil {
		return nil, fmt.Errorf("scoreboard: decode %s: %w", name, err)
	}
	return r, nil
}

// ListReports returns the names of the stored reports.
func ListReports(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	return store.List(ctx, reportPrefix)
}

// Entries returns one ledger entry per partition of r.
func (r *Report) Entries(reportName string) []ledger.Entry {
	out := make([]ledger.Entry, len(r.Partitions))
	for i, p := range r.Partitions {
		out[i] = ledger.Entry{
			Run:       r.Run,
			Width:     p.Width,
			Mode:      p.Mode,
			DUT:       r.DUT,
			Reference: r.Reference,
			Total:     p.Total,
			Failed:    p.Failed,
			Report:    reportName,
			Recorded:  r.Created,
		}
	}
	return out
}

// Publisher stores reports and records them in a ledger.
// Store and Ledger are optional; a zero Publisher does nothing.
type Publisher struct {
	Store   blobstore.BlobStore
	Codec   codec.Codec
	Ledger  ledger.Ledger
	Logger  *fpgold.Logger
	Metrics fpgold.MetricsCollector
}

// Publish stores r and records its partitions. It returns the report's blob
// name, empty when no store is configured.
func (p Publisher) Publish(ctx context.Context, r *Report) (string, error) {
	log := p.Logger
	if log == nil {
		log = fpgold.NoopLogger()
	}
	metrics := p.Metrics
	if metrics == nil {
		metrics = fpgold.NoopMetricsCollector{}
	}

	var name string
	if p.Store != nil {
		start := time.Now()
		var (
			n   int
			err error
		)
		name, n, err = SaveReport(ctx, p.Store, p.Codec, r)
		metrics.RecordUpload(n, time.Since(start), err)
		log.LogUpload(ctx, ReportName(r.Run, codecOrDefault(p.Codec)), n, err)
		if err != nil {
			return "", err
		}
	}

	if p.Ledger != nil {
		for _, e := range r.Entries(name) {
			if err := p.Ledger.Record(ctx, e); err != nil {
				return name, fmt.Errorf("scoreboard: ledger %s: %w", e.Key(), err)
			}
		}
	}
	return name, nil
}

func codecOrDefault(c codec.Codec) codec.Codec {
	if c == nil {
		return codec.Default
	}
	return c
}
