package visitor

import "errors"

// ErrStop ends a walk early without reporting a failure.
var ErrStop = errors.New("stop walking")

// VisitFunc is called once per node. Returning ErrStop ends the walk.
type VisitFunc func(depth int, name string) error

// Node is a named tree.
type Node struct {
	Name     string
	Children []Node
}

// Walk visits n and its descendants depth-first.
func Walk(n Node, visit VisitFunc) error {
	err := walk(n, 0, visit)
	if errors.Is(err, ErrStop) {
		return nil
	}

	return err
}

func walk(n Node, depth int, visit VisitFunc) error {
	err := visit(depth, n.Name)
	if err != nil {
		return err
	}

	for _, child := range n.Children {
		err = walk(child, depth+1, visit)
		if err != nil {
			return err
		}
	}

	return nil
}
