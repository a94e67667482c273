package scene

// Walk visits the node hierarchy depth first, calling fn with each node and
// its depth (root is 0). A node reachable from several parents is visited once
// per path. Returning false from fn skips the node's children.
func Walk(root *Node, fn func(n *Node, depth int) bool) {
	if root == nil {
		return
	}
	walk(root, 0, fn, map[*Node]bool{})
}

func walk(n *Node, depth int, fn func(*Node, int) bool, onPath map[*Node]bool) {
	if onPath[n] {
		return
	}
	if !fn(n, depth) {
		return
	}
	onPath[n] = true
	for _, c := range n.Children {
		if c != nil {
			walk(c, depth+1, fn, onPath)
		}
	}
	delete(onPath, n)
}

// Stats summarizes a scene for display.
type Stats struct {
	Nodes      int
	MaxDepth   int
	Meshes     int
	Vertices   int
	Faces      int
	Bones      int
	Materials  int
	Textures   int
	Lights     int
	Cameras    int
	Animations int
	Channels   int
}

// Collect computes statistics for s.
func Collect(s *Scene) Stats {
	st := Stats{
		Meshes:     len(s.Meshes),
		Materials:  len(s.Materials),
		Textures:   len(s.Textures),
		Lights:     len(s.Lights),
		Cameras:    len(s.Cameras),
		Animations: len(s.Animations),
	}
	Walk(s.RootNode, func(_ *Node, depth int) bool {
		st.Nodes++
		if depth > st.MaxDepth {
			st.MaxDepth = depth
		}
		return true
	})
	for _, m := range s.Meshes {
		st.Vertices += len(m.Vertices)
		st.Faces += len(m.Faces)
		st.Bones += len(m.Bones)
	}
	for _, a := range s.Animations {
		st.Channels += len(a.Channels)
	}
	return st
}
