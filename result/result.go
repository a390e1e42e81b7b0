// Package result builds the two dual projections of a solved assignment
// (spec §4.6, §6) and serializes them for external reporters. The core
// itself never renders these — calendar layout, spreadsheets and
// locale-aware month names are explicitly out of scope (spec §1) — but it
// hands back a stable, self-describing Result a reporter package can
// consume directly.
package result

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/katalvlaran/lot/dsl"
	"github.com/katalvlaran/lot/model"
	"github.com/katalvlaran/lot/objective"
	"gopkg.in/yaml.v3"
)

// unassigned is the sentinel actor name for a node nobody with a non-zero
// coefficient ended up covering — an "extra"/unavoidable assignment (spec
// §4.6).
const unassigned = "*"

// Result is the only interface a reporter consumes (spec §6).
type Result struct {
	// Nodes maps each node's key (dsl.Node.Key: components joined by
	// '\x1f') to the actor assigned to it, or
	// "*" if the winning actor's coefficient there was zero.
	Nodes map[string]string `yaml:"nodes" json:"nodes"`
	// Actors maps each actor to its sorted list of assigned node keys.
	Actors map[string][]string `yaml:"actors" json:"actors"`

	// nodeOrder/actorOrder preserve the spec's sort contract for callers
	// that want to range deterministically instead of through the maps.
	nodeOrder  []string
	actorOrder []string
}

// NodeOrder returns node keys in sort order (first component, numeric if
// all digits else lexical — spec §4.6).
func (r *Result) NodeOrder() []string { return r.nodeOrder }

// ActorOrder returns actor names in first-appearance (policy) order.
func (r *Result) ActorOrder() []string { return r.actorOrder }

// Build projects a scored assignment into a Result, using m's coefficient
// map to decide the "*" marker (spec §4.6: "the literal '*' when the
// winning actor's coefficient for that node was zero").
func Build(m *model.Model, a objective.Assignment) *Result {
	r := &Result{
		Nodes:  map[string]string{},
		Actors: map[string][]string{},
	}

	for _, actor := range m.Actors {
		r.Actors[actor] = nil
	}

	for idx, node := range m.Nodes {
		key := node.Key()
		winner := unassigned
		for _, actor := range m.Actors {
			p := model.Pair{Actor: actor, Node: idx}
			if !a[p] {
				continue
			}
			if m.Coeff[p] == 0 {
				winner = unassigned
			} else {
				winner = actor
			}
			r.Actors[actor] = append(r.Actors[actor], key)
			break
		}
		r.Nodes[key] = winner
	}

	r.nodeOrder = sortedNodeKeys(m.Nodes)
	r.actorOrder = append([]string(nil), m.Actors...)
	for _, actor := range m.Actors {
		sortKeys(r.Actors[actor])
	}
	return r
}

// sortedNodeKeys returns every node's key, in the same numeric-or-lexical
// order Build used to construct the node set.
func sortedNodeKeys(nodes []dsl.Node) []string {
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = n.Key()
	}
	return keys
}

// sortKeys sorts node keys by their first component, matching the node
// set's own ordering rule (numeric if every key's first component is
// digits, lexical otherwise).
func sortKeys(keys []string) {
	type entry struct {
		root string
		key  string
	}
	entries := make([]entry, len(keys))
	numeric := true
	for i, k := range keys {
		root := firstComponent(k)
		entries[i] = entry{root: root, key: k}
		if _, err := strconv.Atoi(root); err != nil {
			numeric = false
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if numeric {
			vi, _ := strconv.Atoi(entries[i].root)
			vj, _ := strconv.Atoi(entries[j].root)
			return vi < vj
		}
		return entries[i].root < entries[j].root
	})
	for i, e := range entries {
		keys[i] = e.key
	}
}

func firstComponent(key string) string {
	for i, r := range key {
		if r == '\x1f' {
			return key[:i]
		}
	}
	return key
}

// YAML renders the Result as YAML.
func (r *Result) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// JSON renders the Result as indented JSON.
func (r *Result) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
