package psl

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/tidwall/hashmap"
)

const (
	markerBeginICANN   = "// ===BEGIN ICANN DOMAINS==="
	markerEndICANN     = "// ===END ICANN DOMAINS==="
	markerBeginPrivate = "// ===BEGIN PRIVATE DOMAINS==="
	markerEndPrivate   = "// ===END PRIVATE DOMAINS==="
)

// node is one position in a Public Suffix List trie, keyed by reversed
// DNS labels (root = TLD). children uses the same hashmap.Map the
// teacher's compressed trie used for its eTLD lookup table.
type node struct {
	children         hashmap.Map[string, *node]
	terminal         bool // an explicit PSL rule ends here
	exception        bool // this exact child overrides an ancestor wildcard
	hasWildcardChild bool // this node has a "*" child
}

func newNode() *node {
	return &node{}
}

func (n *node) child(label string) (*node, bool) {
	return n.children.Get(label)
}

func (n *node) getOrCreateChild(label string) *node {
	if c, ok := n.children.Get(label); ok {
		return c
	}
	c := newNode()
	n.children.Set(label, c)
	return c
}

// RuleSet is the parsed, read-only Public Suffix List, split into its two
// independent trees. Once built it carries no mutable state and is safe
// to share across concurrent resolutions (spec.md section 5).
type RuleSet struct {
	icann   *node
	private *node
}

// insert walks labels (reverse DNS order) into root, flagging the final
// node terminal, or exception if this rule came from a "!" prefix. A "*"
// label marks its parent as wildcard-bearing at whatever depth it
// occurs — the teacher's trieConstruct only scanned the root's immediate
// children for "*"; this generalizes that scan to every node, since
// spec.md requires a wildcard-child indicator per node, not just at the
// top level.
func insert(root *node, labels []string, exception bool) {
	cur := root
	for i, label := range labels {
		isLast := i == len(labels)-1
		if label == "*" {
			cur.hasWildcardChild = true
			wc := cur.getOrCreateChild("*")
			cur = wc
			if isLast {
				cur.terminal = true
			}
			continue
		}
		cur = cur.getOrCreateChild(label)
		if isLast {
			if exception {
				cur.exception = true
			} else {
				cur.terminal = true
			}
		}
	}
}

// FromText parses raw Public Suffix List text into a RuleSet. Malformed
// section markers (an END without a matching BEGIN, a BEGIN nested inside
// an open section, or mismatched ICANN/PRIVATE END) fail with
// ErrInvalidRules.
func FromText(text string) (*RuleSet, error) {
	rs := &RuleSet{icann: newNode(), private: newNode()}

	type sectionState int
	const (
		stateNone sectionState = iota
		stateICANN
		statePrivate
	)
	state := stateNone

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case markerBeginICANN:
			if state != stateNone {
				return nil, fmt.Errorf("%w: nested BEGIN ICANN marker", ErrInvalidRules)
			}
			state = stateICANN
			continue
		case markerEndICANN:
			if state != stateICANN {
				return nil, fmt.Errorf("%w: END ICANN marker without matching BEGIN", ErrInvalidRules)
			}
			state = stateNone
			continue
		case markerBeginPrivate:
			if state != stateNone {
				return nil, fmt.Errorf("%w: nested BEGIN PRIVATE marker", ErrInvalidRules)
			}
			state = statePrivate
			continue
		case markerEndPrivate:
			if state != statePrivate {
				return nil, fmt.Errorf("%w: END PRIVATE marker without matching BEGIN", ErrInvalidRules)
			}
			state = stateNone
			continue
		}

		if state == stateNone {
			continue
		}
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		token := fields[0]

		exception := false
		if strings.HasPrefix(token, "!") {
			exception = true
			token = strings.TrimPrefix(token, "!")
		}

		forward := strings.Split(token, ".")
		labels := make([]string, len(forward))
		for i, label := range forward {
			if label == "*" {
				labels[i] = "*"
				continue
			}
			ascii, err := convertLabelToASCII(label, NontransitionalToASCII)
			if err != nil {
				return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidRules, token, err)
			}
			labels[i] = ascii
		}
		reverse(labels)

		switch state {
		case stateICANN:
			insert(rs.icann, labels, exception)
		case statePrivate:
			insert(rs.private, labels, exception)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if state != stateNone {
		return nil, fmt.Errorf("%w: unclosed section marker", ErrInvalidRules)
	}

	return rs, nil
}

// NodeSnapshot is the serializable form of one trie node, used to
// round-trip a RuleSet through the cache collaborator (spec.md section
// 6). Unlike the strict "map or marker" union described there, every
// node here carries both its flags and its children, since real PSL
// nodes are routinely both terminal and interior (e.g. "uk" is itself a
// rule and has children "co", "org", ...); this is the adaptation that
// keeps the round-trip lossless.
type NodeSnapshot struct {
	Terminal  bool                     `json:"terminal,omitempty"`
	Exception bool                     `json:"exception,omitempty"`
	Children  map[string]*NodeSnapshot `json:"children,omitempty"`
}

// Snapshot is the serializable form of a whole RuleSet.
type Snapshot struct {
	ICANN   *NodeSnapshot `json:"icann"`
	Private *NodeSnapshot `json:"private"`
}

func nodeToSnapshot(n *node) *NodeSnapshot {
	snap := &NodeSnapshot{Terminal: n.terminal, Exception: n.exception}
	if n.children.Len() > 0 {
		snap.Children = make(map[string]*NodeSnapshot, n.children.Len())
		n.children.Scan(func(key string, value *node) bool {
			snap.Children[key] = nodeToSnapshot(value)
			return true
		})
	}
	return snap
}

func snapshotToNode(snap *NodeSnapshot) *node {
	n := newNode()
	if snap == nil {
		return n
	}
	n.terminal = snap.Terminal
	n.exception = snap.Exception
	for key, childSnap := range snap.Children {
		child := snapshotToNode(childSnap)
		n.children.Set(key, child)
		if key == "*" {
			n.hasWildcardChild = true
		}
	}
	return n
}

// ToSnapshot serializes rs into its nested-mapping form.
func (rs *RuleSet) ToSnapshot() Snapshot {
	return Snapshot{
		ICANN:   nodeToSnapshot(rs.icann),
		Private: nodeToSnapshot(rs.private),
	}
}

// FromSnapshot rebuilds a RuleSet from the output of ToSnapshot. It is
// the inverse of ToSnapshot: for any RuleSet rs,
// FromSnapshot(rs.ToSnapshot()) matches rs for every resolution.
func FromSnapshot(snap Snapshot) *RuleSet {
	rs := &RuleSet{icann: newNode(), private: newNode()}
	if snap.ICANN != nil {
		rs.icann = snapshotToNode(snap.ICANN)
	}
	if snap.Private != nil {
		rs.private = snapshotToNode(snap.Private)
	}
	return rs
}
