package cast

// Visitor receives pre- and post-order callbacks as Walk descends a
// statement tree. VisitPre returning false skips the node's children (but
// VisitPost still fires for the node itself), mirroring the open-recursion
// visitor shape used by AST-walking tools generally.
type Visitor interface {
	VisitPre(s *Stmt) bool
	VisitPost(s *Stmt)
}

// Walk performs a depth-first traversal of s, invoking v at each node. A nil
// s is a no-op, since If/Loop children can legitimately be absent.
func Walk(s *Stmt, v Visitor) {
	if s == nil {
		return
	}
	if v.VisitPre(s) {
		for _, child := range s.Kind.Children() {
			Walk(child, v)
		}
	}
	v.VisitPost(s)
}

// WalkFunc adapts a pair of plain functions to the Visitor interface for
// callers that don't need both pre- and post-order hooks.
type WalkFunc struct {
	Pre  func(s *Stmt) bool
	Post func(s *Stmt)
}

func (f WalkFunc) VisitPre(s *Stmt) bool {
	if f.Pre == nil {
		return true
	}
	return f.Pre(s)
}

func (f WalkFunc) VisitPost(s *Stmt) {
	if f.Post != nil {
		f.Post(s)
	}
}
