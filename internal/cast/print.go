package cast

import "strings"

// Xform is how an edit history applies to a tree without ever mutating it.
// Resolve substitutes the statement that should actually be printed at a
// given position — Delete, Put, and Swap replace the kind in place; Append
// replaces it with a synthetic Block holding the original content followed
// by a clone of its source, so an Append's effect is visible uniformly
// wherever its target sid sits (a Block child, an If branch, a Loop body).
// Resolve defaults to identity when no edit applies, so the zero Xform
// renders the baseline program unchanged.
type Xform struct {
	Resolve func(s *Stmt) *Stmt
}

// Identity is the Xform that substitutes nothing, used to print the
// baseline program with no edit history applied.
var Identity = Xform{
	Resolve: func(s *Stmt) *Stmt { return s },
}

func (x Xform) resolve(s *Stmt) *Stmt {
	if x.Resolve == nil {
		return s
	}
	return x.Resolve(s)
}

// Print renders f through xform.
func Print(f *File, xform Xform) string {
	var b strings.Builder
	if f.Preamble != "" {
		b.WriteString(f.Preamble)
		if !strings.HasSuffix(f.Preamble, "\n") {
			b.WriteByte('\n')
		}
	}
	printStmt(&b, xform.resolve(f.Root), xform, 0)
	b.WriteByte('\n')
	return b.String()
}

func printStmt(b *strings.Builder, s *Stmt, xform Xform, depth int) {
	if s == nil {
		return
	}

	indent := strings.Repeat("  ", depth)

	switch k := s.Kind.(type) {
	case Block:
		b.WriteString(indent)
		b.WriteString("{\n")
		for _, child := range k.Stmts {
			printStmt(b, xform.resolve(child), xform, depth+1)
		}
		b.WriteString(indent)
		b.WriteString("}\n")

	case If:
		b.WriteString(indent)
		b.WriteString("if (")
		b.WriteString(k.Cond)
		b.WriteString(")\n")
		printStmt(b, xform.resolve(k.Then), xform, depth+1)
		if k.Else != nil {
			b.WriteString(indent)
			b.WriteString("else\n")
			printStmt(b, xform.resolve(k.Else), xform, depth+1)
		}

	case Loop:
		b.WriteString(indent)
		b.WriteString("for (; ")
		b.WriteString(k.Cond)
		b.WriteString("; ")
		b.WriteString(k.Post)
		b.WriteString(")\n")
		printStmt(b, xform.resolve(k.Body), xform, depth+1)

	case Return:
		b.WriteString(indent)
		b.WriteString("return")
		if k.Expr != "" {
			b.WriteByte(' ')
			b.WriteString(k.Expr)
		}
		b.WriteString(";\n")

	case InstrList:
		for _, instr := range k.Instrs {
			b.WriteString(indent)
			b.WriteString(instr)
			b.WriteString(";\n")
		}

	case Empty:
		// Deleted statement: prints as nothing.

	default:
		b.WriteString(indent)
		b.WriteString("/* unknown statement kind */\n")
	}
}

// Clone returns a shallow copy of s with a fresh Stmt wrapper, for
// synthesizing a new occurrence of an existing statement without aliasing
// the original pointer (internal/transform builds its Append statements
// directly rather than through Clone). The clone's ID is set
// to NoSID so the printer's xform lookup never re-matches it against an
// edit meant for the original.
func Clone(s *Stmt) *Stmt {
	if s == nil {
		return nil
	}
	return &Stmt{ID: NoSID, Kind: s.Kind}
}
