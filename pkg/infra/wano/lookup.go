package wano

import "gopkg.in/yaml.v3"

// Lookup searches the settings document for a tag, walking mappings in
// document order. The last match wins, so a tag repeated in a later tab
// shadows an earlier one. Only mapping values are descended into; a matching
// key with any other value kind is a leaf.
func Lookup(doc *yaml.Node, key string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	var found any
	ok := false
	walk(doc, key, &found, &ok)
	return found, ok
}

func walk(n *yaml.Node, key string, found *any, ok *bool) {
	switch n.Kind {
	case yaml.DocumentNode:
		for _, c := range n.Content {
			walk(c, key, found, ok)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if v.Kind == yaml.MappingNode {
				walk(v, key, found, ok)
				continue
			}
			if k.Value != key {
				continue
			}
			var value any
			if err := v.Decode(&value); err == nil {
				*found = value
				*ok = true
			}
		}
	}
}
