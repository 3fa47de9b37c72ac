package dataprocessing

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// ColumnCandidates lists, per canonical field, the raw header names that map to
// it in priority order. Entered and Exited name the raw timestamp columns used
// to derive trade duration.
type ColumnCandidates struct {
	PnL       []string `yaml:"pnl"`
	Date      []string `yaml:"date"`
	Symbol    []string `yaml:"symbol"`
	Duration  []string `yaml:"duration"`
	Direction []string `yaml:"direction"`
	Fees      []string `yaml:"fees"`
	Entered   []string `yaml:"entered"`
	Exited    []string `yaml:"exited"`
}

// DefaultCandidates covers the exports of the supported trading platforms.
var DefaultCandidates = ColumnCandidates{
	PnL:       []string{"pnl", "profit", "net profit", "net_profit", "pl", "amount"},
	Date:      []string{"date", "exit date", "close date", "time", "close time", "exitedat", "trade day", "tradeday", "enteredat"},
	Symbol:    []string{"symbol", "ticker", "instrument", "asset", "contractname", "contract"},
	Duration:  []string{"duration", "holding time", "tradeduration", "trade duration"},
	Direction: []string{"direction", "type", "side"},
	Fees:      []string{"fees", "fee", "commission", "commissions", "cost"},
	Entered:   []string{"enteredat", "entered at", "entry time", "open time", "formatted_entry_time"},
	Exited:    []string{"exitedat", "exited at", "exit time", "close time", "formatted_exit_time"},
}

// Extend appends extra candidates after the existing ones. Built-in priority
// is never changed.
func (c ColumnCandidates) Extend(extra ColumnCandidates) ColumnCandidates {
	return ColumnCandidates{
		PnL:       appendCandidates(c.PnL, extra.PnL),
		Date:      appendCandidates(c.Date, extra.Date),
		Symbol:    appendCandidates(c.Symbol, extra.Symbol),
		Duration:  appendCandidates(c.Duration, extra.Duration),
		Direction: appendCandidates(c.Direction, extra.Direction),
		Fees:      appendCandidates(c.Fees, extra.Fees),
		Entered:   appendCandidates(c.Entered, extra.Entered),
		Exited:    appendCandidates(c.Exited, extra.Exited),
	}
}

func appendCandidates(base, extra []string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	for _, name := range extra {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// LoadCandidates reads a YAML candidate file and extends DefaultCandidates
// with it. An empty path returns the defaults.
func LoadCandidates(path string) (ColumnCandidates, error) {
	if path == "" {
		return DefaultCandidates, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ColumnCandidates{}, fmt.Errorf("failed to read column candidates: %w", err)
	}

	var extra ColumnCandidates
	if err := yaml.Unmarshal(data, &extra); err != nil {
		return ColumnCandidates{}, fmt.Errorf("failed to parse column candidates: %w", err)
	}
	return DefaultCandidates.Extend(extra), nil
}

// fields returns the canonical fields in resolution order
func (c ColumnCandidates) fields() []fieldCandidates {
	return []fieldCandidates{
		{domain.FieldPnL, c.PnL},
		{domain.FieldDate, c.Date},
		{domain.FieldSymbol, c.Symbol},
		{domain.FieldDuration, c.Duration},
		{domain.FieldDirection, c.Direction},
		{domain.FieldFees, c.Fees},
	}
}

type fieldCandidates struct {
	field string
	names []string
}

// NormalizedTable is a raw table whose matched headers carry canonical names.
type NormalizedTable struct {
	Headers []string
	Rows    [][]string

	columns map[string]int
	entered int
	exited  int
}

// Normalize maps raw headers onto canonical fields. Each canonical field takes
// the first candidate present in the header row; a raw column is assigned to at
// most one field. Entry and exit timestamp columns are captured before the
// rename so that they survive even when one of them becomes Date.
func Normalize(table *Table, candidates ColumnCandidates) *NormalizedTable {
	lower := make(map[string]int, len(table.Headers))
	for i, h := range table.Headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, seen := lower[key]; !seen {
			lower[key] = i
		}
	}

	n := &NormalizedTable{
		Headers: append([]string(nil), table.Headers...),
		Rows:    table.Rows,
		columns: make(map[string]int),
		entered: firstMatch(lower, candidates.Entered, nil),
		exited:  firstMatch(lower, candidates.Exited, nil),
	}

	taken := make(map[int]bool)
	for _, fc := range candidates.fields() {
		idx := firstMatch(lower, fc.names, taken)
		if idx < 0 {
			continue
		}
		taken[idx] = true
		n.columns[fc.field] = idx
		n.Headers[idx] = fc.field
	}
	return n
}

func firstMatch(lower map[string]int, names []string, taken map[int]bool) int {
	for _, name := range names {
		if idx, ok := lower[name]; ok && !taken[idx] {
			return idx
		}
	}
	return -1
}

// Has reports whether a canonical field was matched
func (n *NormalizedTable) Has(field string) bool {
	_, ok := n.columns[field]
	return ok
}

// Column returns the cells of a canonical field, or nil when it is absent.
func (n *NormalizedTable) Column(field string) []string {
	idx, ok := n.columns[field]
	if !ok {
		return nil
	}
	return n.columnAt(idx)
}

// Timestamps returns the captured entry and exit columns. ok is false unless
// both were found.
func (n *NormalizedTable) Timestamps() (entered, exited []string, ok bool) {
	if n.entered < 0 || n.exited < 0 {
		return nil, nil, false
	}
	return n.columnAt(n.entered), n.columnAt(n.exited), true
}

// Validate enforces the only hard requirement on an export.
func (n *NormalizedTable) Validate() error {
	if !n.Has(domain.FieldPnL) || !n.Has(domain.FieldDate) {
		return newSchemaError(MissingColumnsMessage, nil)
	}
	return nil
}

// extraColumns returns the indexes of raw columns left unmatched
func (n *NormalizedTable) extraColumns() []int {
	matched := make(map[int]bool, len(n.columns))
	for _, idx := range n.columns {
		matched[idx] = true
	}
	var extra []int
	for i := range n.Headers {
		if !matched[i] {
			extra = append(extra, i)
		}
	}
	return extra
}

func (n *NormalizedTable) columnAt(idx int) []string {
	col := make([]string, len(n.Rows))
	for i, row := range n.Rows {
		col[i] = row[idx]
	}
	return col
}
