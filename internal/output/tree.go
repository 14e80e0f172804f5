package output

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// annotationColumn is where annotations start when the line is short enough.
	annotationColumn = 40
)

// TreeNode is a directory or file in a rendered tree.
type TreeNode struct {
	Name       string
	Annotation string
	IsDir      bool
	Children   []*TreeNode
}

// RenderTree renders slash-separated relative paths as a tree under root.
// Each path maps to an annotation, for example the glob that matched it.
func RenderTree(root string, paths map[string]string) string {
	if len(paths) == 0 {
		return ""
	}

	top := &TreeNode{Name: root, IsDir: true}
	for path, note := range paths {
		insert(top, strings.Split(filepath.ToSlash(path), "/"), note)
	}
	sortTree(top)

	var sb strings.Builder
	sb.WriteString(StyleBold.Render(strings.TrimSuffix(root, "/") + "/"))
	sb.WriteString("\n")
	for i, child := range top.Children {
		renderNode(&sb, child, "", i == len(top.Children)-1)
	}
	return sb.String()
}

func insert(node *TreeNode, parts []string, note string) {
	for i, part := range parts {
		leaf := i == len(parts)-1
		var next *TreeNode
		for _, c := range node.Children {
			if c.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			next = &TreeNode{Name: part, IsDir: !leaf}
			node.Children = append(node.Children, next)
		}
		if leaf {
			next.Annotation = note
		}
		node = next
	}
}

// sortTree orders directories before files, then by name.
func sortTree(node *TreeNode) {
	sort.Slice(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if a.IsDir != b.IsDir {
			return a.IsDir
		}
		return a.Name < b.Name
	})
	for _, child := range node.Children {
		sortTree(child)
	}
}

func renderNode(sb *strings.Builder, node *TreeNode, prefix string, last bool) {
	connector, indent := treeEdge, treeVert
	if last {
		connector, indent = treeLast, treeSpace
	}

	name := node.Name
	if node.IsDir {
		name += "/"
	}
	line := prefix + connector + name
	if node.Annotation != "" {
		pad := max(annotationColumn-len([]rune(line)), 2)
		line += strings.Repeat(" ", pad) + StyleDim.Render(node.Annotation)
	}
	sb.WriteString(line)
	sb.WriteString("\n")

	for i, child := range node.Children {
		renderNode(sb, child, prefix+indent, i == len(node.Children)-1)
	}
}
