package itemserial

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/zoobzio/sentinel"
)

func init() {
	sentinel.Tag("report")
}

// Summary is a flat view of one serial for display.
// Fields tagged report:"..." become report columns, in field order.
type Summary struct {
	Serial        string `json:"serial" report:"SERIAL"`
	State         string `json:"state" report:"STATE"`
	Version       int    `json:"version" report:"VERSION"`
	Balance       string `json:"balance,omitempty"`
	BalanceShort  string `json:"balance_short,omitempty" report:"BALANCE"`
	InventoryData string `json:"inventory_data,omitempty" report:"INVENTORY"`
	Manufacturer  string `json:"manufacturer,omitempty" report:"MANUFACTURER"`
	Level         int    `json:"level" report:"LEVEL"`
	Seed          int32  `json:"seed"`
	Fingerprint   string `json:"fingerprint,omitempty" report:"FINGERPRINT"`
}

// Summarize flattens s. The serial is parsed if it is still Unparsed; a
// parse failure is returned as the error. f may be nil to skip the
// fingerprint.
func Summarize(s *Serial, f Fingerprinter) (Summary, error) {
	state, err := s.Parse()
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Serial:  s.Text(),
		State:   state.String(),
		Version: s.version,
		Seed:    s.OriginalSeed(),
	}
	if f != nil {
		sum.Fingerprint = s.Fingerprint(f)
	}
	if h, ok := s.Header(); ok {
		sum.Balance = h.Balance.Name
		sum.BalanceShort = h.Balance.Short()
		sum.InventoryData = h.InventoryData.Short()
		sum.Manufacturer = h.Manufacturer.Short()
		sum.Level = h.Level
	}
	return sum, nil
}

// reportColumn binds a column title to a Summary field.
type reportColumn struct {
	title string
	index []int
}

var (
	reportColumnsOnce sync.Once
	reportColumnList  []reportColumn
)

// columns scans Summary once for report tags.
func columns() []reportColumn {
	reportColumnsOnce.Do(func() {
		meta := sentinel.Scan[Summary]()
		for _, field := range meta.Fields {
			title, ok := field.Tags["report"]
			if !ok || title == "" {
				continue
			}
			reportColumnList = append(reportColumnList, reportColumn{title: title, index: field.Index})
		}
	})
	return reportColumnList
}

// ReportColumns returns the report column titles in display order.
func ReportColumns() []string {
	cols := columns()
	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	return titles
}

// WriteReport writes summaries as a tab-aligned table.
func WriteReport(w io.Writer, summaries []Summary) error {
	cols := columns()
	tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)

	if _, err := fmt.Fprintln(tw, strings.Join(ReportColumns(), "\t")); err != nil {
		return err
	}
	for _, sum := range summaries {
		v := reflect.ValueOf(sum)
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = fmt.Sprint(v.FieldByIndex(c.index).Interface())
		}
		if _, err := fmt.Fprintln(tw, strings.Join(cells, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}
