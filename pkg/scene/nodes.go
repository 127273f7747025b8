package scene

// NodeType is the host shader node type
type NodeType string

const (
	NodeValue    NodeType = "VALUE"
	NodeCombine  NodeType = "COMBINE_RGB"
	NodeReroute  NodeType = "REROUTE"
	NodeGroup    NodeType = "GROUP"
	NodeTexImage NodeType = "TEX_IMAGE"
	NodeMix      NodeType = "MIX"
	NodeOutput   NodeType = "OUTPUT_MATERIAL"
	NodeOther    NodeType = "OTHER"
)

// Socket is a node or node-group interface socket. Value holds one component
// for scalars, three for vectors and four for colors.
type Socket struct {
	Name  string
	Value []float64
}

// Scalar returns the first component, or 0
func (s *Socket) Scalar() float64 {
	if len(s.Value) == 0 {
		return 0
	}
	return s.Value[0]
}

// Node is a shader node inside a NodeTree
type Node struct {
	Name    string
	Label   string
	Type    NodeType
	Mute    bool
	Inputs  []*Socket
	Outputs []*Socket
	// Group is the referenced tree for group nodes
	Group *NodeTree

	tree *NodeTree
}

// InputLink returns the link feeding input i, or nil
func (n *Node) InputLink(i int) *Link {
	if n.tree == nil {
		return nil
	}
	for _, l := range n.tree.Links {
		if l.To == n && l.ToSocket == i {
			return l
		}
	}
	return nil
}

// Link connects an output socket of one node to an input of another
type Link struct {
	From       *Node
	FromSocket int
	To         *Node
	ToSocket   int
}

// FromName returns the name of the output socket the link leaves from
func (l *Link) FromName() string {
	if l.FromSocket < 0 || l.FromSocket >= len(l.From.Outputs) {
		return ""
	}
	return l.From.Outputs[l.FromSocket].Name
}

// NodeTree is a material node graph or a shared node group
type NodeTree struct {
	Name  string
	Nodes []*Node
	Links []*Link
	// Active is the node the viewport previews in solid shading
	Active *Node

	// Interface sockets, used by node groups
	Inputs  []*Socket
	Outputs []*Socket
}

// NewNodeTree returns an empty tree
func NewNodeTree(name string) *NodeTree {
	return &NodeTree{Name: name}
}

// AddNode adds n to the tree
func (t *NodeTree) AddNode(n *Node) *Node {
	n.tree = t
	t.Nodes = append(t.Nodes, n)
	return n
}

// Node returns the node called name
func (t *NodeTree) Node(name string) *Node {
	for _, n := range t.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Connect links output out of from to input in of to. Any existing link into
// that input is replaced.
func (t *NodeTree) Connect(from *Node, out int, to *Node, in int) *Link {
	kept := t.Links[:0]
	for _, l := range t.Links {
		if !(l.To == to && l.ToSocket == in) {
			kept = append(kept, l)
		}
	}
	t.Links = kept
	l := &Link{From: from, FromSocket: out, To: to, ToSocket: in}
	t.Links = append(t.Links, l)
	return l
}

// Socket returns the interface socket called name, searching inputs first
func (t *NodeTree) Socket(name string) *Socket {
	for _, s := range t.Inputs {
		if s.Name == name {
			return s
		}
	}
	for _, s := range t.Outputs {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Material is a material slot assignment
type Material struct {
	Name string
	Tree *NodeTree
}

// ValueNode builds a value node with one output
func ValueNode(name string, v float64) *Node {
	return &Node{Name: name, Type: NodeValue, Outputs: []*Socket{{Name: "Value", Value: []float64{v}}}}
}

// CombineNode builds a three input color node
func CombineNode(name string) *Node {
	return &Node{
		Name: name,
		Type: NodeCombine,
		Inputs: []*Socket{
			{Name: "R", Value: []float64{0}},
			{Name: "G", Value: []float64{0}},
			{Name: "B", Value: []float64{0}},
		},
		Outputs: []*Socket{{Name: "Image", Value: []float64{0, 0, 0, 1}}},
	}
}

// TextureNode builds an image texture node
func TextureNode(name string) *Node {
	return &Node{Name: name, Type: NodeTexImage, Outputs: []*Socket{{Name: "Color"}}}
}

// RerouteNode builds a passthrough node
func RerouteNode(name string) *Node {
	return &Node{
		Name:    name,
		Type:    NodeReroute,
		Inputs:  []*Socket{{Name: "Input"}},
		Outputs: []*Socket{{Name: "Output"}},
	}
}

// GroupNode builds a group node with n inputs: the selector index followed by
// n-1 choices. The outputs mirror group's interface outputs when group is set.
func GroupNode(name string, group *NodeTree, inputs int) *Node {
	n := &Node{Name: name, Type: NodeGroup, Group: group}
	for i := 0; i < inputs; i++ {
		n.Inputs = append(n.Inputs, &Socket{Name: "Input"})
	}
	if group != nil {
		for _, s := range group.Outputs {
			n.Outputs = append(n.Outputs, &Socket{Name: s.Name})
		}
		for _, s := range group.Inputs {
			n.Outputs = append(n.Outputs, &Socket{Name: s.Name})
		}
	}
	if len(n.Outputs) == 0 {
		n.Outputs = []*Socket{{Name: "Output"}}
	}
	return n
}
