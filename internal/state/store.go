package state

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agent-of-empires/aoe/internal/util"
)

// fileFormat is the on-disk shape of sessions.json (§4.7): "{ "sessions":
// [...], "groups": [...] }", ordering preserved as insertion order.
type fileFormat struct {
	Sessions []*Instance `json:"sessions"`
	Groups   []Group     `json:"groups"`
}

// Store holds the in-memory state for one profile: the ordered instance
// list and the reconciled group tree, backed by a single sessions.json.
type Store struct {
	path      string
	instances []*Instance
	groups    []Group
}

// Load reads sessions.json at path, rebuilding the group tree. A missing
// file yields an empty, valid Store (first run).
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Store{path: path}, nil
		}
		return nil, err
	}
	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s := &Store{path: path, instances: ff.Sessions}
	s.groups = rebuildGroupTree(ff.Groups, s.instances)
	return s, nil
}

// Save whole-file-replaces sessions.json: serialize, write to a sibling
// temp file, fsync, rename (§4.7 "Save is whole-file replace").
func (s *Store) Save() error {
	ff := fileFormat{Sessions: s.instances, Groups: s.groups}
	if ff.Sessions == nil {
		ff.Sessions = []*Instance{}
	}
	if ff.Groups == nil {
		ff.Groups = []Group{}
	}
	return util.EnsureDirAndWriteJSON(s.path, ff)
}

// Instances returns the ordered instance list (insertion order).
func (s *Store) Instances() []*Instance {
	return s.instances
}

// Groups returns the reconciled group list in insertion order.
func (s *Store) Groups() []Group {
	return s.groups
}

// Get looks up an instance by id.
func (s *Store) Get(id string) (*Instance, error) {
	for _, inst := range s.instances {
		if inst.ID == id {
			return inst, nil
		}
	}
	return nil, ErrNotFound
}

// Add appends a new instance, enforcing the duplicate-title-at-same-path
// and single-level-parenthood invariants (§3, §7).
func (s *Store) Add(inst *Instance) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	for _, existing := range s.instances {
		if existing.Title == inst.Title && existing.ProjectPath == inst.ProjectPath {
			return ErrDuplicateTitle
		}
	}
	if inst.ParentSessionID != "" {
		parent, err := s.Get(inst.ParentSessionID)
		if err != nil {
			return ErrParentNotFound
		}
		if parent.ParentSessionID != "" {
			return ErrParentHasParent
		}
	}
	s.instances = append(s.instances, inst)
	s.rebuildGroups()
	return nil
}

// Remove deletes an instance by id.
func (s *Store) Remove(id string) error {
	for i, inst := range s.instances {
		if inst.ID == id {
			s.instances = append(s.instances[:i], s.instances[i+1:]...)
			s.rebuildGroups()
			return nil
		}
	}
	return ErrNotFound
}

// Rename updates title, re-checking the duplicate-title-at-same-path rule.
func (s *Store) Rename(id, newTitle string) error {
	inst, err := s.Get(id)
	if err != nil {
		return err
	}
	for _, existing := range s.instances {
		if existing.ID != id && existing.Title == newTitle && existing.ProjectPath == inst.ProjectPath {
			return ErrDuplicateTitle
		}
	}
	inst.Title = newTitle
	return nil
}

func (s *Store) rebuildGroups() {
	s.groups = rebuildGroupTree(s.groups, s.instances)
}

// CreateGroup creates path and all of its ancestors (§4.7 "create_group").
func (s *Store) CreateGroup(path string) {
	explicit := append([]Group{}, s.groups...)
	explicit = append(explicit, Group{Path: path, Name: lastSegment(path)})
	s.groups = rebuildGroupTree(explicit, s.instances)
}

// DeleteGroup removes path and every descendant group in one pass, moving
// any session in the deleted subtree to the empty group (§4.7, §8 S4).
func (s *Store) DeleteGroup(path string) {
	var kept []Group
	for _, g := range s.groups {
		if !isDescendantOrSelf(g.Path, path) {
			kept = append(kept, g)
		}
	}
	for _, inst := range s.instances {
		if isDescendantOrSelf(inst.GroupPath, path) {
			inst.GroupPath = ""
		}
	}
	s.groups = rebuildGroupTree(kept, s.instances)
}

// ToggleCollapsed flips the collapsed bit for path, creating it (and
// ancestors) first if absent (§4.7 "toggle_collapsed").
func (s *Store) ToggleCollapsed(path string) {
	for i := range s.groups {
		if s.groups[i].Path == path {
			s.groups[i].Collapsed = !s.groups[i].Collapsed
			return
		}
	}
	s.CreateGroup(path)
	for i := range s.groups {
		if s.groups[i].Path == path {
			s.groups[i].Collapsed = true
			return
		}
	}
}

// MoveGroup reassigns every instance under oldPath to the equivalent
// location under newPath, and renames the group subtree accordingly.
func (s *Store) MoveGroup(oldPath, newPath string) {
	for _, inst := range s.instances {
		if inst.GroupPath == oldPath {
			inst.GroupPath = newPath
		} else if isDescendantOrSelf(inst.GroupPath, oldPath) {
			inst.GroupPath = newPath + inst.GroupPath[len(oldPath):]
		}
	}
	var kept []Group
	for _, g := range s.groups {
		if isDescendantOrSelf(g.Path, oldPath) {
			g.Path = newPath + g.Path[len(oldPath):]
			if g.Path == newPath {
				g.Name = lastSegment(newPath)
			}
		}
		kept = append(kept, g)
	}
	s.groups = rebuildGroupTree(kept, s.instances)
	s.CreateGroup(newPath)
}

func lastSegment(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}
