package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/auditor/internal/model"
)

const (
	reportSchemaVersion = 1
	indexFileName       = "_index.yaml"
	reportExt           = ".msgpack"
	// DefaultReportHistory is how many reports the index keeps.
	DefaultReportHistory = 10
)

// ErrSchemaMismatch is returned for reports written by an incompatible version.
var ErrSchemaMismatch = errors.New("report schema mismatch")

// ErrNoReports is returned when a reports directory holds no report.
var ErrNoReports = errors.New("no saved reports")

// ReportStore persists and retrieves analysis reports.
type ReportStore interface {
	SaveReport(dir m.Path, report m.Report) error
	LoadReport(dir m.Path) (m.Report, error)
}

// LocalReportStore keeps each report in a content-addressed msgpack file and
// lists them, newest last, in a YAML index.
type LocalReportStore struct {
	History int
}

// NewReportStore constructs a ReportStore implementation.
func NewReportStore() ReportStore {
	return &LocalReportStore{History: DefaultReportHistory}
}

type reportRecord struct {
	Version       int             `msgpack:"v"`
	GeneratedAt   time.Time       `msgpack:"at"`
	FilesAnalyzed uint32          `msgpack:"files"`
	Findings      []findingRecord `msgpack:"findings"`
}

type findingRecord struct {
	RuleID   string `msgpack:"rule"`
	Severity string `msgpack:"sev"`
	Message  string `msgpack:"msg"`
	Path     string `msgpack:"path"`
	Line     uint32 `msgpack:"line"`
	Column   uint32 `msgpack:"col"`
}

type indexFile struct {
	Latest  string       `yaml:"latest"`
	Reports []indexEntry `yaml:"reports"`
}

type indexEntry struct {
	File          string         `yaml:"file"`
	GeneratedAt   time.Time      `yaml:"generated_at"`
	FilesAnalyzed int            `yaml:"files_analyzed"`
	Findings      int            `yaml:"findings"`
	BySeverity    map[string]int `yaml:"by_severity,omitempty"`
}

// SaveReport writes the report and appends it to the index. Files are
// written to a temporary name first and renamed into place.
func (rs *LocalReportStore) SaveReport(dir m.Path, report m.Report) error {
	if dir == "" {
		return fmt.Errorf("reports path is empty")
	}

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	rec, err := toRecord(report)
	if err != nil {
		return err
	}

	data, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	name := computeReportHash(data) + reportExt
	if err := writeAtomic(filepath.Join(string(dir), name), data); err != nil {
		return err
	}

	idx, err := readIndex(dir)
	if err != nil && !errors.Is(err, ErrNoReports) {
		return err
	}

	idx.Reports = append(idx.Reports, indexEntry{
		File:          name,
		GeneratedAt:   report.GeneratedAt,
		FilesAnalyzed: report.FilesAnalyzed,
		Findings:      len(report.Findings),
		BySeverity:    severityCounts(report),
	})
	idx.Latest = name
	rs.prune(dir, &idx)

	out, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	return writeAtomic(filepath.Join(string(dir), indexFileName), out)
}

// LoadReport returns the newest report listed in the index.
func (rs *LocalReportStore) LoadReport(dir m.Path) (m.Report, error) {
	idx, err := readIndex(dir)
	if err != nil {
		return m.Report{}, err
	}

	if idx.Latest == "" {
		return m.Report{}, ErrNoReports
	}

	data, err := os.ReadFile(filepath.Join(string(dir), filepath.Base(idx.Latest)))
	if err != nil {
		return m.Report{}, fmt.Errorf("read report: %w", err)
	}

	var rec reportRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return m.Report{}, fmt.Errorf("decode report: %w", err)
	}

	if rec.Version != reportSchemaVersion {
		return m.Report{}, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, rec.Version, reportSchemaVersion)
	}

	return fromRecord(rec), nil
}

func (rs *LocalReportStore) prune(dir m.Path, idx *indexFile) {
	keep := rs.History
	if keep <= 0 {
		keep = DefaultReportHistory
	}

	for len(idx.Reports) > keep {
		old := idx.Reports[0]
		idx.Reports = idx.Reports[1:]

		if old.File != idx.Latest && !listed(idx.Reports, old.File) {
			_ = os.Remove(filepath.Join(string(dir), filepath.Base(old.File)))
		}
	}
}

func listed(entries []indexEntry, file string) bool {
	for _, e := range entries {
		if e.File == file {
			return true
		}
	}

	return false
}

func readIndex(dir m.Path) (indexFile, error) {
	var idx indexFile

	data, err := os.ReadFile(filepath.Join(string(dir), indexFileName))
	if errors.Is(err, os.ErrNotExist) {
		return idx, fmt.Errorf("%w in %s", ErrNoReports, dir)
	}

	if err != nil {
		return idx, fmt.Errorf("read index: %w", err)
	}

	if err := yaml.Unmarshal(data, &idx); err != nil {
		return idx, fmt.Errorf("decode index: %w", err)
	}

	return idx, nil
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}

	return nil
}

func computeReportHash(data []byte) string {
	sum := sha256.Sum256(data)

	return hex.EncodeToString(sum[:8])
}

func severityCounts(report m.Report) map[string]int {
	counts := report.CountBySeverity()
	if len(counts) == 0 {
		return nil
	}

	out := make(map[string]int, len(counts))
	for sev, n := range counts {
		out[string(sev)] = n
	}

	return out
}

func toRecord(report m.Report) (reportRecord, error) {
	files, err := safecast.Convert[uint32](report.FilesAnalyzed)
	if err != nil {
		return reportRecord{}, fmt.Errorf("files analyzed: %w", err)
	}

	rec := reportRecord{
		Version:       reportSchemaVersion,
		GeneratedAt:   report.GeneratedAt,
		FilesAnalyzed: files,
		Findings:      make([]findingRecord, 0, len(report.Findings)),
	}

	for _, f := range report.Findings {
		line, err := safecast.Convert[uint32](f.Line)
		if err != nil {
			return reportRecord{}, fmt.Errorf("finding line: %w", err)
		}

		col, err := safecast.Convert[uint32](f.Column)
		if err != nil {
			return reportRecord{}, fmt.Errorf("finding column: %w", err)
		}

		rec.Findings = append(rec.Findings, findingRecord{
			RuleID:   f.RuleID,
			Severity: string(f.Severity),
			Message:  f.Message,
			Path:     string(f.FilePath),
			Line:     line,
			Column:   col,
		})
	}

	return rec, nil
}

func fromRecord(rec reportRecord) m.Report {
	report := m.Report{
		GeneratedAt:   rec.GeneratedAt,
		FilesAnalyzed: int(rec.FilesAnalyzed),
		Findings:      make([]m.Finding, 0, len(rec.Findings)),
	}

	for _, f := range rec.Findings {
		report.Findings = append(report.Findings, m.Finding{
			RuleID:   f.RuleID,
			Severity: m.Severity(f.Severity),
			Message:  f.Message,
			FilePath: m.Path(f.Path),
			Line:     int(f.Line),
			Column:   int(f.Column),
		})
	}

	return report
}
