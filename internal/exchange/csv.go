// Package exchange moves entries through portable tabular formats. The CSV
// layout is the wire contract: two metadata rows, a blank row, then an
// ID/Text/Sketches table. Spreadsheet round-trips pad rows with trailing
// empty columns, so the reader tolerates them.
package exchange

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/registry"
)

// FileFormatVersion is the interchange format written and accepted.
const FileFormatVersion = 1

var header = []string{"ID", "Text", "Sketches"}

// Row is one entry in interchange form.
type Row struct {
	ID       uint64
	Text     string
	Sketches []string
}

// Export writes every entry as CSV. Sketch names come from the cached
// display hints; dangling bindings still list their last known sketch.
func Export(w io.Writer, doc *registry.Document, addinVersion string) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Add-in version", addinVersion},
		{"File format version", strconv.Itoa(FileFormatVersion)},
		{},
		header,
	}
	for _, e := range doc.Entries() {
		row := []string{strconv.FormatUint(e.ID(), 10), e.Template()}
		for _, b := range e.Bindings() {
			row = append(row, b.Hint.Sketch)
		}
		rows = append(rows, row)
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("exchange: write csv: %w", err)
	}
	log.Info(log.CatCodec, "exported entries", "format", "csv", "entries", doc.Len())
	return nil
}

// ParseRows reads the interchange table back out of CSV. Metadata rows run
// until the first all-empty row; the format version must match.
func ParseRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	// Truly blank lines never reach us (the csv reader drops them), so the
	// metadata section ends at an all-empty padded row or at the header row
	// itself.
	metadata := map[string]string{}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return nil, &BadLayoutError{Reason: "missing header row"}
		}
		if err != nil {
			return nil, fmt.Errorf("exchange: read metadata: %w", err)
		}
		if allEmpty(record) {
			continue
		}
		if record[0] == header[0] {
			if len(record) < len(header) || record[1] != header[1] || record[2] != header[2] {
				return nil, &BadLayoutError{Reason: fmt.Sprintf("bad header row %v", record)}
			}
			break
		}
		if len(record) < 2 {
			return nil, &BadLayoutError{Reason: fmt.Sprintf("bad metadata row %v", record)}
		}
		metadata[record[0]] = record[1]
	}

	// The add-in version row is informational only.
	if v := metadata["File format version"]; v != strconv.Itoa(FileFormatVersion) {
		return nil, &UnsupportedFormatError{Version: v}
	}

	var rows []Row
	for rowNum := 1; ; rowNum++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("exchange: read row %d: %w", rowNum, err)
		}
		if allEmpty(record) {
			continue
		}
		id, err := strconv.ParseUint(record[0], 10, 64)
		if err != nil {
			return nil, &BadLayoutError{Reason: fmt.Sprintf("invalid ID at row %d: %q", rowNum, record[0])}
		}
		row := Row{ID: id}
		if len(record) > 1 {
			row.Text = record[1]
		}
		for _, sketch := range record[2:] {
			if sketch != "" {
				row.Sketches = append(row.Sketches, sketch)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func allEmpty(record []string) bool {
	for _, col := range record {
		if col != "" {
			return false
		}
	}
	return true
}

// UpdateResult is the outcome of an update-mode import.
type UpdateResult struct {
	Patches   []registry.Patch
	Unmatched []uint64
}

// ImportUpdate matches rows to existing entries strictly by id and produces
// patches replacing only the template text. Ids may be sparse; unmatched ids
// are reported, not fatal. Bindings are never touched.
func ImportUpdate(r io.Reader, doc *registry.Document) (*UpdateResult, error) {
	rows, err := ParseRows(r)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{}
	for _, row := range rows {
		if _, err := doc.Entry(row.ID); err != nil {
			result.Unmatched = append(result.Unmatched, row.ID)
			continue
		}
		text := row.Text
		result.Patches = append(result.Patches, registry.Patch{ID: row.ID, Template: &text})
	}
	log.Info(log.CatCodec, "parsed update import",
		"rows", len(rows), "matched", len(result.Patches), "unmatched", len(result.Unmatched))
	return result, nil
}

// TemplateResult is the outcome of a template-mode import.
type TemplateResult struct {
	Added   []uint64
	Skipped []string
}

// ImportTemplate appends a new unbound entry per row, skipping rows whose
// text exactly matches an existing entry so repeated imports stay
// idempotent. Row ids are ignored; new entries get fresh ids.
func ImportTemplate(r io.Reader, doc *registry.Document) (*TemplateResult, error) {
	rows, err := ParseRows(r)
	if err != nil {
		return nil, err
	}

	existing := map[string]struct{}{}
	for _, e := range doc.Entries() {
		existing[e.Template()] = struct{}{}
	}

	result := &TemplateResult{}
	for _, row := range rows {
		if _, ok := existing[row.Text]; ok {
			result.Skipped = append(result.Skipped, row.Text)
			continue
		}
		e := doc.NewEntry(row.Text)
		existing[row.Text] = struct{}{}
		result.Added = append(result.Added, e.ID())
	}
	log.Info(log.CatCodec, "imported templates",
		"rows", len(rows), "added", len(result.Added), "skipped", len(result.Skipped))
	return result, nil
}
