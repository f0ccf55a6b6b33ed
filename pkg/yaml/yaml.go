package yaml

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

func Unmarshal(in []byte, out any) error {
	return yaml.Unmarshal(in, out)
}

func Encode(v any, indent int) ([]byte, error) {
	b := bytes.NewBuffer(nil)
	e := yaml.NewEncoder(b)
	e.SetIndent(indent)

	if err := e.Encode(v); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}

// Patch - change a key/value pair in a YAML document without breaking
// the rest of the formatting. A nil value removes the key.
func Patch(src []byte, key string, value any, path ...string) ([]byte, error) {
	parent, err := findParent(src, path...)
	if err != nil {
		return nil, err
	}

	var dst []byte

	if parent != nil {
		dst, err = addOrReplace(src, key, value, parent)
	} else {
		dst, err = addToEnd(src, key, value, path...)
	}
	if err != nil {
		return nil, err
	}

	// a patched document has to stay valid YAML
	if err = yaml.Unmarshal(dst, map[string]any{}); err != nil {
		return nil, err
	}

	return dst, nil
}

// Merge - deep merge two YAML documents. Mappings merge recursively,
// anything else in src replaces the same key in dst.
func Merge(dst, src []byte) ([]byte, error) {
	var m1 map[string]any
	if err := yaml.Unmarshal(dst, &m1); err != nil {
		return nil, err
	}
	if m1 == nil {
		m1 = map[string]any{}
	}

	var m2 map[string]any
	if err := yaml.Unmarshal(src, &m2); err != nil {
		return nil, err
	}

	return yaml.Marshal(mergeMaps(m1, m2))
}

func mergeMaps(dst, src map[string]any) map[string]any {
	for k, v := range src {
		if vv, ok := dst[k].(map[string]any); ok {
			if v, ok := v.(map[string]any); ok {
				dst[k] = mergeMaps(vv, v)
				continue
			}
		}
		dst[k] = v
	}
	return dst
}

// findParent - return the mapping node at the path of keys
func findParent(src []byte, path ...string) (*yaml.Node, error) {
	if len(src) == 0 {
		return nil, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, err
	}

	if root.Content == nil {
		return nil, nil
	}

	parent := root.Content[0] // yaml.DocumentNode
	for _, name := range path {
		if parent == nil {
			break
		}
		_, parent = findChild(parent, name)
	}
	return parent, nil
}

// findChild - search the key/value pair for the current node
func findChild(node *yaml.Node, name string) (key, value *yaml.Node) {
	for i, child := range node.Content {
		if child.Value == name {
			return child, node.Content[i+1]
		}
	}
	return nil, nil
}

func firstChild(node *yaml.Node) *yaml.Node {
	if node.Content == nil {
		return node
	}
	return node.Content[0]
}

func lastChild(node *yaml.Node) *yaml.Node {
	if node.Content == nil {
		return node
	}
	return lastChild(node.Content[len(node.Content)-1])
}

func addOrReplace(src []byte, key string, value any, parent *yaml.Node) ([]byte, error) {
	put, err := Encode(map[string]any{key: value}, 2)
	if err != nil {
		return nil, err
	}

	if nodeKey, nodeValue := findChild(parent, key); nodeKey != nil {
		put = addIndent(put, nodeKey.Column-1)

		i0 := lineOffset(src, nodeKey.Line)
		i1 := lineOffset(src, lastChild(nodeValue).Line+1)

		if i1 < 0 { // no new line on the end of file
			if value != nil {
				return append(src[:i0], put...), nil
			}
			return src[:i0], nil
		}

		dst := make([]byte, 0, len(src)+len(put))
		dst = append(dst, src[:i0]...)
		if value != nil {
			dst = append(dst, put...)
		}
		return append(dst, src[i1:]...), nil
	}

	put = addIndent(put, firstChild(parent).Column-1)

	i := lineOffset(src, lastChild(parent).Line+1)

	if i < 0 { // no new line on the end of file
		src = append(src, '\n')
		if value != nil {
			src = append(src, put...)
		}
		return src, nil
	}

	dst := make([]byte, 0, len(src)+len(put))
	dst = append(dst, src[:i]...)
	if value != nil {
		dst = append(dst, put...)
	}
	return append(dst, src[i:]...), nil
}

func addToEnd(src []byte, key string, value any, path ...string) ([]byte, error) {
	if len(path) != 1 || value == nil {
		return nil, errors.New("yaml: path not exist")
	}

	put, err := Encode(map[string]map[string]any{path[0]: {key: value}}, 2)
	if err != nil {
		return nil, err
	}

	dst := make([]byte, 0, len(src)+len(put)+1)
	dst = append(dst, src...)
	if l := len(src); l > 0 && src[l-1] != '\n' {
		dst = append(dst, '\n')
	}
	return append(dst, put...), nil
}

func addIndent(src []byte, indent int) (dst []byte) {
	pre := bytes.Repeat([]byte{' '}, indent)
	for len(src) > 0 {
		dst = append(dst, pre...)
		i := bytes.IndexByte(src, '\n') + 1
		if i == 0 {
			return append(dst, src...)
		}
		dst = append(dst, src[:i]...)
		src = src[i:]
	}
	return
}

func lineOffset(b []byte, line int) (offset int) {
	for l := 1; ; l++ {
		if l == line {
			return offset
		}

		i := bytes.IndexByte(b[offset:], '\n') + 1
		if i == 0 {
			break
		}
		offset += i
	}
	return -1
}
