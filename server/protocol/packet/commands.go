package packet

import "github.com/tesseract-mc/tesseract/server/protocol"

// CommandNodeType is the low 2 bits of a command node's flag byte.
type CommandNodeType uint8

const (
	CommandNodeRoot CommandNodeType = iota
	CommandNodeLiteral
	CommandNodeArgument
)

const (
	commandFlagTypeMask      = 0x03
	commandFlagExecutable    = 0x04
	commandFlagRedirect      = 0x08
	commandFlagHasSuggestion = 0x10
)

// CommandNode is one node of the graph sent by the Commands packet. Indexes
// into the packet's node array are used instead of pointers so the graph
// round-trips as a flat, cycle-tolerant structure.
type CommandNode struct {
	Type       CommandNodeType
	Executable bool
	Children   []int32
	RedirectTo int32 // valid only when Redirect is true
	Redirect   bool

	Name string // literal or argument name; unused for root nodes

	Parser     string // argument nodes only
	Properties []byte // raw, pre-encoded parser properties; argument nodes only

	HasSuggestions  bool
	SuggestionsType string
}

func (n *CommandNode) flags() uint8 {
	f := uint8(n.Type) & commandFlagTypeMask
	if n.Executable {
		f |= commandFlagExecutable
	}
	if n.Redirect {
		f |= commandFlagRedirect
	}
	if n.HasSuggestions {
		f |= commandFlagHasSuggestion
	}
	return f
}

func (n *CommandNode) encode(w *protocol.Writer) {
	w.Uint8(n.flags())
	w.VarInt32(int32(len(n.Children)))
	for _, c := range n.Children {
		w.VarInt32(c)
	}
	if n.Redirect {
		w.VarInt32(n.RedirectTo)
	}
	if n.Type == CommandNodeLiteral || n.Type == CommandNodeArgument {
		w.String(n.Name)
	}
	if n.Type == CommandNodeArgument {
		w.String(n.Parser)
		w.ByteArray(n.Properties)
		if n.HasSuggestions {
			w.String(n.SuggestionsType)
		}
	}
}

func (n *CommandNode) decode(r *protocol.Reader) {
	flags := r.Uint8()
	n.Type = CommandNodeType(flags & commandFlagTypeMask)
	n.Executable = flags&commandFlagExecutable != 0
	n.Redirect = flags&commandFlagRedirect != 0
	n.HasSuggestions = flags&commandFlagHasSuggestion != 0

	childCount := r.VarInt32()
	if childCount > 0 {
		n.Children = make([]int32, childCount)
		for i := range n.Children {
			n.Children[i] = r.VarInt32()
		}
	}
	if n.Redirect {
		n.RedirectTo = r.VarInt32()
	}
	if n.Type == CommandNodeLiteral || n.Type == CommandNodeArgument {
		n.Name = r.String()
	}
	if n.Type == CommandNodeArgument {
		n.Parser = r.String()
		n.Properties = r.ByteArray()
	}
	if n.HasSuggestions {
		n.SuggestionsType = r.String()
	}
}

// Commands replaces the client's command tree with the graph in Nodes,
// rooted at the index Root.
type Commands struct {
	Nodes []CommandNode
	Root  int32
}

var _ Packet = (*Commands)(nil)

func (*Commands) ID() int32 { return 0x0F }

func (p *Commands) Encode(w *protocol.Writer) {
	w.VarInt32(int32(len(p.Nodes)))
	for i := range p.Nodes {
		p.Nodes[i].encode(w)
	}
	w.VarInt32(p.Root)
}

func (p *Commands) Decode(r *protocol.Reader) {
	n := r.VarInt32()
	p.Nodes = make([]CommandNode, n)
	for i := range p.Nodes {
		p.Nodes[i].decode(r)
	}
	p.Root = r.VarInt32()
}
