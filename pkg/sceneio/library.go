package sceneio

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/rigkit/pkg/errors"
)

// Library is an XML file of shared node groups and material trees. Scene
// documents list libraries and refer to their trees by name.
//
//	<library>
//	  <group name="Selector">
//	    <input name="Index" value="0"/>
//	    <output name="Color" value="0 0 0 1"/>
//	    <node name="Mix" type="MIX" inputs="3"/>
//	  </group>
//	  <tree name="Skin" active="Face">
//	    <node name="Face" type="VALUE" value="0"/>
//	    <link from="Face" from-socket="0" to="Sel" to-socket="0"/>
//	  </tree>
//	</library>
type Library struct {
	Path   string
	Groups []TreeDoc
	Trees  map[string]TreeDoc
}

// ReadLibrary loads a node library from disk
func ReadLibrary(path string) (*Library, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrSceneLoad, "failed to read node library %s", path).
			WithDetail("path", path)
	}
	lib, err := parseLibrary(doc)
	if err != nil {
		if re, ok := err.(*errors.RigError); ok {
			return nil, re.WithDetail("path", path)
		}
		return nil, err
	}
	lib.Path = path
	return lib, nil
}

// ParseLibrary parses a node library held in memory
func ParseLibrary(data []byte) (*Library, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrSceneParse, "invalid node library XML")
	}
	return parseLibrary(doc)
}

func parseLibrary(doc *etree.Document) (*Library, error) {
	root := doc.Root()
	if root == nil || root.Tag != "library" {
		return nil, errors.New(errors.ErrSceneParse, "node library must have a <library> root element")
	}
	lib := &Library{Trees: map[string]TreeDoc{}}
	for _, el := range root.ChildElements() {
		switch el.Tag {
		case "group":
			t, err := parseTree(el)
			if err != nil {
				return nil, err
			}
			lib.Groups = append(lib.Groups, t)
		case "tree":
			t, err := parseTree(el)
			if err != nil {
				return nil, err
			}
			if _, dup := lib.Trees[t.Name]; dup {
				return nil, errors.Newf(errors.ErrSceneInvalid, "duplicate tree %q in node library", t.Name)
			}
			lib.Trees[t.Name] = t
		default:
			return nil, errors.Newf(errors.ErrSceneParse, "unexpected <%s> in node library", el.Tag)
		}
	}
	return lib, nil
}

func parseTree(el *etree.Element) (TreeDoc, error) {
	t := TreeDoc{
		Name:   el.SelectAttrValue("name", ""),
		Active: el.SelectAttrValue("active", ""),
	}
	if t.Name == "" {
		return t, errors.Newf(errors.ErrSceneParse, "<%s> without a name", el.Tag)
	}
	for _, child := range el.ChildElements() {
		var err error
		switch child.Tag {
		case "input", "output":
			var s SocketDoc
			s, err = parseSocket(child)
			if child.Tag == "input" {
				t.Inputs = append(t.Inputs, s)
			} else {
				t.Outputs = append(t.Outputs, s)
			}
		case "node":
			var n NodeDoc
			n, err = parseNode(child)
			t.Nodes = append(t.Nodes, n)
		case "link":
			var l LinkDoc
			l, err = parseLink(child)
			t.Links = append(t.Links, l)
		default:
			err = errors.Newf(errors.ErrSceneParse, "unexpected <%s> in %q", child.Tag, t.Name)
		}
		if err != nil {
			return t, errors.Wrapf(err, errors.ErrSceneParse, "in tree %q", t.Name)
		}
	}
	return t, nil
}

func parseSocket(el *etree.Element) (SocketDoc, error) {
	s := SocketDoc{Name: el.SelectAttrValue("name", "")}
	for _, field := range strings.Fields(el.SelectAttrValue("value", "")) {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return s, errors.Wrapf(err, errors.ErrSceneParse, "socket %q has a bad value", s.Name)
		}
		s.Value = append(s.Value, f)
	}
	return s, nil
}

func parseNode(el *etree.Element) (NodeDoc, error) {
	n := NodeDoc{
		Name:  el.SelectAttrValue("name", ""),
		Label: el.SelectAttrValue("label", ""),
		Type:  el.SelectAttrValue("type", ""),
		Group: el.SelectAttrValue("group", ""),
	}
	var err error
	if n.Value, err = floatAttr(el, "value"); err != nil {
		return n, err
	}
	if n.Inputs, err = intAttr(el, "inputs"); err != nil {
		return n, err
	}
	if mute := el.SelectAttrValue("mute", ""); mute != "" {
		if n.Mute, err = strconv.ParseBool(mute); err != nil {
			return n, errors.Wrapf(err, errors.ErrSceneParse, "node %q has a bad mute flag", n.Name)
		}
	}
	return n, nil
}

func parseLink(el *etree.Element) (LinkDoc, error) {
	l := LinkDoc{
		From: el.SelectAttrValue("from", ""),
		To:   el.SelectAttrValue("to", ""),
	}
	var err error
	if l.FromSocket, err = intAttr(el, "from-socket"); err != nil {
		return l, err
	}
	l.ToSocket, err = intAttr(el, "to-socket")
	return l, err
}

func floatAttr(el *etree.Element, name string) (float64, error) {
	raw := el.SelectAttrValue(name, "")
	if raw == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrSceneParse, "attribute %s=%q is not a number", name, raw)
	}
	return f, nil
}

func intAttr(el *etree.Element, name string) (int, error) {
	raw := el.SelectAttrValue(name, "")
	if raw == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, errors.ErrSceneParse, "attribute %s=%q is not an integer", name, raw)
	}
	return i, nil
}
