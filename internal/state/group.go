package state

import (
	"sort"
	"strings"
)

// Group is a node in the `/`-delimited group tree (§3 "Group").
type Group struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	Collapsed bool   `json:"collapsed"`
}

// groupTree reconstructs parent/child relationships from a flat list of
// explicit groups plus the groups implied by each instance's GroupPath
// (§4.7: "Loading rebuilds the in-memory group tree by union of (explicit
// groups list, implied groups from each instance's group_path). Missing
// parent groups are created during rebuild.").
type groupTree struct {
	byPath map[string]*Group
	order  []string
}

func newGroupTree() *groupTree {
	return &groupTree{byPath: make(map[string]*Group)}
}

// ensure inserts path and every ancestor of path that is not already
// present, in order from root to leaf.
func (g *groupTree) ensure(path string) {
	if path == "" {
		return
	}
	parts := strings.Split(path, "/")
	for i := 1; i <= len(parts); i++ {
		p := strings.Join(parts[:i], "/")
		if _, ok := g.byPath[p]; !ok {
			g.byPath[p] = &Group{Path: p, Name: parts[i-1]}
			g.order = append(g.order, p)
		}
	}
}

// rebuildGroupTree unions explicit groups and groups implied by instances,
// creating missing ancestors, and returns the result in insertion order
// (explicit groups first, then implied ones; ancestors before descendants).
func rebuildGroupTree(explicit []Group, instances []*Instance) []Group {
	tree := newGroupTree()
	for _, g := range explicit {
		tree.ensure(g.Path)
		// Preserve explicit metadata (name override, collapsed bit).
		tree.byPath[g.Path].Name = g.Name
		tree.byPath[g.Path].Collapsed = g.Collapsed
	}
	for _, inst := range instances {
		tree.ensure(inst.GroupPath)
	}

	out := make([]Group, 0, len(tree.order))
	for _, p := range tree.order {
		out = append(out, *tree.byPath[p])
	}
	return out
}

// GroupExists reports whether path (or a prefix of a deeper group) is
// present in groups.
func GroupExists(groups []Group, path string) bool {
	for _, g := range groups {
		if g.Path == path {
			return true
		}
	}
	return false
}

// FlatGroup is one row of a depth-first, alphabetical display flattening
// (§4.7 "Group tree operations... Flattening for display").
type FlatGroup struct {
	Path  string
	Name  string
	Depth int
}

// FlattenGroups returns groups depth-first, alphabetical within a parent.
// "ungrouped" sessions are not represented here (callers emit them first
// at depth 0, per §4.7); this only flattens named groups.
func FlattenGroups(groups []Group) []FlatGroup {
	children := map[string][]Group{}
	for _, g := range groups {
		parent := ""
		if i := strings.LastIndex(g.Path, "/"); i >= 0 {
			parent = g.Path[:i]
		}
		children[parent] = append(children[parent], g)
	}
	for k := range children {
		sort.Slice(children[k], func(i, j int) bool { return children[k][i].Name < children[k][j].Name })
	}

	var out []FlatGroup
	var visit func(parent string, depth int)
	visit = func(parent string, depth int) {
		for _, g := range children[parent] {
			out = append(out, FlatGroup{Path: g.Path, Name: g.Name, Depth: depth})
			visit(g.Path, depth+1)
		}
	}
	visit("", 0)
	return out
}

// isDescendantOrSelf reports whether path equals prefix or is nested under
// it ("prefix/...").
func isDescendantOrSelf(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
