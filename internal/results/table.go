package results

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/redeslab/flowreport/internal/experiment"
	"github.com/redeslab/flowreport/internal/metrics"
)

// Row is one populated cell of the table.
type Row struct {
	Key     experiment.Key
	Summary metrics.Summary
}

// Table indexes summaries by protocol, mobility and client count.
// One summary per key; a later Put for the same key replaces the earlier one.
type Table struct {
	cells map[experiment.Protocol]map[experiment.Mobility]map[int]metrics.Summary
}

func NewTable() *Table {
	return &Table{cells: make(map[experiment.Protocol]map[experiment.Mobility]map[int]metrics.Summary)}
}

// Put stores s under k and reports whether an earlier summary was replaced.
func (t *Table) Put(k experiment.Key, s metrics.Summary) bool {
	byMob, ok := t.cells[k.Protocol]
	if !ok {
		byMob = make(map[experiment.Mobility]map[int]metrics.Summary)
		t.cells[k.Protocol] = byMob
	}
	byClients, ok := byMob[k.Mobility]
	if !ok {
		byClients = make(map[int]metrics.Summary)
		byMob[k.Mobility] = byClients
	}
	_, replaced := byClients[k.Clients]
	byClients[k.Clients] = s
	return replaced
}

func (t *Table) Get(k experiment.Key) (metrics.Summary, bool) {
	s, ok := t.cells[k.Protocol][k.Mobility][k.Clients]
	return s, ok
}

// Lookup is Get with absent keys reading as the zero summary.
func (t *Table) Lookup(k experiment.Key) metrics.Summary {
	s, _ := t.Get(k)
	return s
}

func (t *Table) Len() int {
	n := 0
	for _, byMob := range t.cells {
		for _, byClients := range byMob {
			n += len(byClients)
		}
	}
	return n
}

// ClientCounts returns every client count present, ascending.
func (t *Table) ClientCounts() []int {
	seen := make(map[int]struct{})
	for _, byMob := range t.cells {
		for _, byClients := range byMob {
			for n := range byClients {
				seen[n] = struct{}{}
			}
		}
	}
	counts := maps.Keys(seen)
	slices.Sort(counts)
	return counts
}

// Rows returns all populated cells ordered by protocol, mobility, then clients.
func (t *Table) Rows() []Row {
	rows := make([]Row, 0, t.Len())
	for _, p := range experiment.Protocols() {
		for _, m := range experiment.Mobilities() {
			byClients := t.cells[p][m]
			clients := maps.Keys(byClients)
			slices.Sort(clients)
			for _, n := range clients {
				rows = append(rows, Row{
					Key:     experiment.Key{Protocol: p, Mobility: m, Clients: n},
					Summary: byClients[n],
				})
			}
		}
	}
	return rows
}
