package materials

import (
	"github.com/arthur-debert/rigkit/pkg/scene"
)

// source follows input 0 of a selector back through reroutes to the socket
// holding its index: a value node output or a controller interface socket
func (s *syncer) source(group *scene.Node) *scene.Socket {
	node := group
	for {
		link := node.InputLink(0)
		if link == nil {
			return nil
		}
		from := link.From
		switch from.Type {
		case scene.NodeReroute:
			node = from
			continue
		case scene.NodeGroup:
			if s.controller != nil && from.Group == s.controller {
				return s.controller.Socket(link.FromName())
			}
			return nil
		case scene.NodeValue:
			if link.FromSocket >= 0 && link.FromSocket < len(from.Outputs) {
				return from.Outputs[link.FromSocket]
			}
			return nil
		}
		return nil
	}
}

// handleSelector picks the input chosen by the selector's index, mutes every
// other image texture feeding the group and, for the active color group,
// makes the chosen node the tree's active node
func (s *syncer) handleSelector(tree *scene.NodeTree, group *scene.Node, activeColor bool) {
	s.report.Selectors++

	index := 1
	if sock := s.source(group); sock != nil {
		index = int(sock.Scalar())
	} else {
		s.report.Unconnected++
		group.Label = s.naming.UnconnectedLabel
		s.logger.Warn().Str("item", tree.Name).Str("node", group.Name).
			Msg("selector value not found, node probably not connected")
	}

	if index < 1 || index >= len(group.Inputs) || group.InputLink(index) == nil {
		index = 1
	}

	var chosen *scene.Node
	if link := group.InputLink(index); link != nil {
		chosen = link.From
	}

	for i := 1; i < len(group.Inputs); i++ {
		link := group.InputLink(i)
		if link == nil || link.From.Type != scene.NodeTexImage {
			continue
		}
		link.From.Mute = i != index
	}

	if chosen == nil {
		return
	}
	chosen.Mute = false
	if activeColor {
		tree.Active = chosen
	}
}
