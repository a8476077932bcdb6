package printer

import (
	"go/ast"
	"go/token"
	"go/types"

	"go2ts/internal/adapter"
	"go2ts/internal/diagnostic"
)

func (p *Printer) printStmt(s ast.Stmt) {
	p.push(s)
	defer p.pop()

	switch s := s.(type) {
	case *ast.BlockStmt:
		p.PrintIndent()
		p.printBlock(s, nil)
		p.Print("\n")

	case *ast.ExprStmt, *ast.AssignStmt, *ast.IncDecStmt:
		p.PrintIndent()
		p.printSimple(s)
		p.Print(";\n")

	case *ast.DeclStmt:
		gd, ok := s.Decl.(*ast.GenDecl)
		if !ok || gd.Tok == token.TYPE || gd.Tok == token.IMPORT {
			p.Report(s, diagnostic.KindUnsupportedNode, "local type declaration")
			return
		}

		for _, spec := range gd.Specs {
			p.printValueSpec(gd, spec.(*ast.ValueSpec), adapter.VariableLocal)
		}

	case *ast.ReturnStmt:
		p.PrintIndent()
		p.printReturn(s)
		p.Print(";\n")

	case *ast.IfStmt:
		p.withInit(s.Init, func() {
			p.PrintIndent()
			p.printIfChain(s)
			p.Print("\n")
		})

	case *ast.ForStmt:
		p.PrintIndent()
		p.Print("for (")
		p.printSimple(s.Init)
		p.Print("; ")

		if s.Cond != nil {
			p.printExpr(s.Cond)
		}

		p.Print("; ")
		p.printSimple(s.Post)
		p.Print(") ")
		p.printBlock(s.Body, nil)
		p.Print("\n")

	case *ast.RangeStmt:
		p.PrintIndent()
		p.printRange(s)
		p.Print("\n")

	case *ast.SwitchStmt:
		p.withInit(s.Init, func() { p.printSwitch(s) })

	case *ast.TypeSwitchStmt:
		p.withInit(s.Init, func() { p.printTypeSwitch(s) })

	case *ast.BranchStmt:
		switch s.Tok {
		case token.BREAK, token.CONTINUE:
			p.PrintIndent()
			p.Print(s.Tok.String())

			if s.Label != nil {
				p.Print(" " + s.Label.Name)
			}

			p.Print(";\n")

		case token.FALLTHROUGH:
			// handled by printSwitch

		default:
			p.Report(s, diagnostic.KindUnsupportedNode, s.Tok.String())
		}

	case *ast.LabeledStmt:
		p.PrintIndent()
		p.Print(s.Label.Name + ":\n")
		p.printStmt(s.Stmt)

	case *ast.EmptyStmt:

	default:
		p.Report(s, diagnostic.KindUnsupportedNode, nodeName(s))
		p.println("/* unsupported: " + nodeName(s) + " */")
	}
}

// withInit scopes the init statement of an if or switch in a block.
func (p *Printer) withInit(init ast.Stmt, fn func()) {
	if init == nil {
		fn()
		return
	}

	p.println("{")
	p.StartIndent()
	p.PrintIndent()
	p.printSimple(init)
	p.Print(";\n")
	fn()
	p.EndIndent()
	p.println("}")
}

// printSimple prints a simple statement without indentation or trailing
// semicolon.
func (p *Printer) printSimple(s ast.Stmt) {
	switch s := s.(type) {
	case nil:

	case *ast.ExprStmt:
		p.printExpr(s.X)

	case *ast.AssignStmt:
		p.printAssign(s)

	case *ast.IncDecStmt:
		if p.isMapIndex(s.X) {
			p.printAssign(incDecAssign(s))
			return
		}

		p.printExpr(s.X)
		p.Print(s.Tok.String())

	default:
		p.Report(s, diagnostic.KindUnsupportedNode, nodeName(s))
	}
}

// incDecAssign rewrites x++ as x += 1 so assignment decisions see it.
func incDecAssign(s *ast.IncDecStmt) *ast.AssignStmt {
	tok := token.ADD_ASSIGN
	if s.Tok == token.DEC {
		tok = token.SUB_ASSIGN
	}

	return &ast.AssignStmt{
		Lhs:    []ast.Expr{s.X},
		TokPos: s.TokPos,
		Tok:    tok,
		Rhs:    []ast.Expr{&ast.BasicLit{ValuePos: s.TokPos, Kind: token.INT, Value: "1"}},
	}
}

func (p *Printer) isMapIndex(x ast.Expr) bool {
	ix, ok := ast.Unparen(x).(*ast.IndexExpr)
	if !ok {
		return false
	}

	t := p.unit.TypeOf(ix.X)
	if t == nil {
		return false
	}

	_, isMap := t.Underlying().(*types.Map)

	return isMap
}

// printBlock prints a braced block; prelude lines open the block.
func (p *Printer) printBlock(b *ast.BlockStmt, prelude []string) {
	p.push(b)
	defer p.pop()

	p.Print("{\n")
	p.StartIndent()

	for _, line := range prelude {
		p.println(line)
	}

	for _, stmt := range b.List {
		p.printStmt(stmt)
	}

	p.EndIndent()
	p.PrintIndent()
	p.Print("}")
}

func (p *Printer) printAssign(s *ast.AssignStmt) {
	if p.adapter.SubstituteAssignment(s) {
		return
	}

	switch s.Tok {
	case token.DEFINE:
		p.printDefine(s)

	case token.ASSIGN:
		p.printPlainAssign(s)

	case token.AND_NOT_ASSIGN:
		p.printExpr(s.Lhs[0])
		p.Print(" &= ~(")
		p.printExpr(s.Rhs[0])
		p.Print(")")

	case token.QUO_ASSIGN:
		if isInteger(p.unit.TypeOf(s.Lhs[0])) {
			p.printExpr(s.Lhs[0])
			p.Print(" = Math.trunc(")
			p.printExpr(s.Lhs[0])
			p.Print(" / (")
			p.printExpr(s.Rhs[0])
			p.Print("))")

			return
		}

		fallthrough

	default:
		p.printExpr(s.Lhs[0])
		p.Print(" " + s.Tok.String() + " ")
		p.printExpr(s.Rhs[0])
	}
}

// lhsName returns the printed name of an assignment target, a fresh name
// for blanks.
func (p *Printer) lhsName(lhs ast.Expr) string {
	id, ok := lhs.(*ast.Ident)
	if !ok {
		return p.capture(func() { p.printExpr(lhs) })
	}

	if id.Name == "_" {
		return p.freshName("blank")
	}

	if obj := p.unit.ObjectOf(id); obj != nil {
		return p.adapter.Identifier(obj)
	}

	return id.Name
}

func (p *Printer) printDefine(s *ast.AssignStmt) {
	var declared []*ast.Ident

	allNew := true

	for _, lhs := range s.Lhs {
		id, ok := lhs.(*ast.Ident)
		if !ok || id.Name == "_" {
			continue
		}

		if p.unit.Info.Defs[id] == nil {
			allNew = false
			continue
		}

		declared = append(declared, id)
	}

	if len(s.Lhs) == len(s.Rhs) && allNew {
		p.Print("let ")

		for i, lhs := range s.Lhs {
			if i > 0 {
				p.Print(", ")
			}

			p.Print(p.lhsName(lhs))

			if t := p.unit.TypeOf(lhs); t != nil {
				p.Print(": ")
				p.printType(nil, t)
			}

			p.Print(" = ")
			p.printAssigned(p.unit.TypeOf(lhs), s.Rhs[i])
		}

		return
	}

	if allNew && !p.isCommaOk(s.Rhs) {
		p.Print("let [" + p.destructuringTargets(s.Lhs) + "] = ")
		p.printExpr(s.Rhs[0])

		return
	}

	// some targets already exist: declare the new ones first
	for _, id := range declared {
		obj := p.unit.ObjectOf(id)
		p.Print("let " + p.adapter.Identifier(obj) + ": ")
		p.printType(nil, obj.Type())
		p.Print(";\n")
		p.PrintIndent()
	}

	p.printPlainAssign(s)
}

func (p *Printer) printPlainAssign(s *ast.AssignStmt) {
	if len(s.Lhs) == 1 && len(s.Rhs) == 1 {
		if id, ok := s.Lhs[0].(*ast.Ident); ok && id.Name == "_" {
			p.printExpr(s.Rhs[0])
			return
		}

		p.printExpr(s.Lhs[0])
		p.Print(" = ")
		p.printAssigned(p.unit.TypeOf(s.Lhs[0]), s.Rhs[0])

		return
	}

	if len(s.Lhs) == len(s.Rhs) {
		p.Print("[" + p.destructuringTargets(s.Lhs) + "] = [")

		for i, rhs := range s.Rhs {
			if i > 0 {
				p.Print(", ")
			}

			p.printAssigned(p.unit.TypeOf(s.Lhs[i]), rhs)
		}

		p.Print("]")

		return
	}

	if assert, ok := ast.Unparen(s.Rhs[0]).(*ast.TypeAssertExpr); ok && len(s.Lhs) == 2 {
		p.printCommaOkAssert(s, assert)
		return
	}

	if p.isCommaOk(s.Rhs) {
		p.Report(s, diagnostic.KindUnsupportedNode, "comma-ok form")
	}

	p.Print("[" + p.destructuringTargets(s.Lhs) + "] = ")
	p.printExpr(s.Rhs[0])
}

// printCommaOkAssert prints v, ok = x.(T) as an instanceof test followed
// by a conditional cast.
func (p *Printer) printCommaOkAssert(s *ast.AssignStmt, assert *ast.TypeAssertExpr) {
	value, ok := p.lhsName(s.Lhs[0]), p.lhsName(s.Lhs[1])
	t := p.unit.TypeOf(assert.Type)
	subject := p.capture(func() { p.printExpr(assert.X) })

	p.Print(ok + " = ")
	p.printInstanceof(subject, assert.X, t)
	p.Print(";\n")
	p.PrintIndent()
	p.Print(value + " = " + ok + " ? (" + subject + " as ")
	p.printType(assert.Type, t)
	p.Print(") : " + p.zeroValue(t))
}

func (p *Printer) isCommaOk(rhs []ast.Expr) bool {
	if len(rhs) != 1 {
		return false
	}

	switch r := ast.Unparen(rhs[0]).(type) {
	case *ast.TypeAssertExpr:
		return true
	case *ast.IndexExpr:
		_, isMap := types.Unalias(p.unit.TypeOf(r.X)).Underlying().(*types.Map)
		return isMap
	case *ast.UnaryExpr:
		return r.Op == token.ARROW
	default:
		return false
	}
}

func (p *Printer) destructuringTargets(lhs []ast.Expr) string {
	out := ""

	for i, l := range lhs {
		if i > 0 {
			out += ", "
		}

		if id, ok := l.(*ast.Ident); ok && id.Name == "_" {
			continue
		}

		out += p.lhsName(l)
	}

	return out
}

func (p *Printer) printReturn(s *ast.ReturnStmt) {
	p.Print("return")

	if len(p.funcs) == 0 {
		return
	}

	results := p.funcs[len(p.funcs)-1].Results()

	switch {
	case len(s.Results) == 0:
		if results.Len() == 0 || results.At(0).Name() == "" {
			return
		}

		names := make([]string, results.Len())
		for i := range names {
			names[i] = p.adapter.Identifier(results.At(i))
		}

		if len(names) == 1 {
			p.Print(" " + names[0])
			return
		}

		p.Print(" [")

		for i, n := range names {
			if i > 0 {
				p.Print(", ")
			}

			p.Print(n)
		}

		p.Print("]")

	case len(s.Results) == 1 && results.Len() > 1:
		p.Print(" ")
		p.printExpr(s.Results[0])

	case len(s.Results) == 1:
		p.Print(" ")
		p.printAssigned(results.At(0).Type(), s.Results[0])

	default:
		p.Print(" [")

		for i, r := range s.Results {
			if i > 0 {
				p.Print(", ")
			}

			p.printAssigned(results.At(i).Type(), r)
		}

		p.Print("]")
	}
}

func (p *Printer) printIfChain(s *ast.IfStmt) {
	p.Print("if (")
	p.printExpr(s.Cond)
	p.Print(") ")
	p.printBlock(s.Body, nil)

	switch e := s.Else.(type) {
	case nil:

	case *ast.IfStmt:
		p.Print(" else ")

		if e.Init != nil {
			p.Print("{\n")
			p.StartIndent()
			p.printStmt(e)
			p.EndIndent()
			p.PrintIndent()
			p.Print("}")

			return
		}

		p.push(e)
		p.printIfChain(e)
		p.pop()

	case *ast.BlockStmt:
		p.Print(" else ")
		p.printBlock(e, nil)
	}
}

func (p *Printer) printRange(s *ast.RangeStmt) {
	t := p.unit.TypeOf(s.X)
	if t == nil {
		p.Report(s, diagnostic.KindUnsupportedNode, "range over untyped value")
		return
	}

	under := t.Underlying()
	if ptr, ok := under.(*types.Pointer); ok {
		under = ptr.Elem().Underlying()
	}

	key, value := p.rangeVar(s.Key), p.rangeVar(s.Value)

	indexVar := key
	if indexVar == "" {
		indexVar = p.freshName("i")
	}

	hasLength := false

	switch u := under.(type) {
	case *types.Slice, *types.Array:
		hasLength = true
	case *types.Basic:
		hasLength = u.Info()&types.IsString != 0
	}

	if p.adapter.SubstituteForEachLoop(s, hasLength, indexVar) {
		return
	}

	decl := "const "
	counter := "let "

	if s.Tok != token.DEFINE {
		decl, counter = "", ""
	}

	subject := p.capture(func() { p.printExpr(s.X) })

	switch u := under.(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsInteger != 0:
			p.Print("for (" + counter + indexVar + " = 0; " + indexVar + " < " + subject + "; " + indexVar + "++) ")
			p.printBlock(s.Body, nil)

		case u.Info()&types.IsString != 0:
			p.printIndexLoop(s, subject, indexVar, counter, value, decl, subject+".charCodeAt("+indexVar+")")

		default:
			p.Report(s, diagnostic.KindUnsupportedNode, "range over "+u.String())
		}

	case *types.Slice, *types.Array:
		if key == "" && value != "" {
			p.Print("for (" + decl + value + " of " + subject + ") ")
			p.printBlock(s.Body, nil)

			return
		}

		p.printIndexLoop(s, subject, indexVar, counter, value, decl, subject+"["+indexVar+"]")

	case *types.Map:
		target := "_"

		switch {
		case key != "" && value != "":
			target = "[" + key + ", " + value + "]"
		case key != "":
			target = "[" + key + "]"
		case value != "":
			target = "[, " + value + "]"
		}

		p.Print("for (" + decl + target + " of " + subject + ") ")
		p.printBlock(s.Body, nil)

	default:
		p.Report(s, diagnostic.KindUnsupportedNode, "range over "+types.TypeString(t, nil))
		p.Print("{}")
	}
}

func (p *Printer) printIndexLoop(s *ast.RangeStmt, subject, indexVar, counter, value, decl, element string) {
	p.Print("for (" + counter + indexVar + " = 0; " + indexVar + " < " + subject + ".length; " + indexVar + "++) ")

	var prelude []string
	if value != "" {
		prelude = append(prelude, decl+value+" = "+element+";")
	}

	p.printBlock(s.Body, prelude)
}

func (p *Printer) rangeVar(e ast.Expr) string {
	id, ok := e.(*ast.Ident)
	if !ok || id.Name == "_" {
		if e != nil && !ok {
			return p.capture(func() { p.printExpr(e) })
		}

		return ""
	}

	if obj := p.unit.ObjectOf(id); obj != nil {
		return p.adapter.Identifier(obj)
	}

	return id.Name
}

func (p *Printer) printSwitch(s *ast.SwitchStmt) {
	p.PrintIndent()
	p.Print("switch (")

	if s.Tag != nil {
		p.printExpr(s.Tag)
	} else {
		p.Print("true")
	}

	p.Print(") {\n")
	p.StartIndent()

	for _, stmt := range s.Body.List {
		cc := stmt.(*ast.CaseClause)
		p.push(cc)

		if cc.List == nil {
			p.println("default: {")
		}

		for i, e := range cc.List {
			p.PrintIndent()
			p.Print("case ")

			if !p.adapter.SubstituteCaseStatementPattern(cc, e) {
				p.printExpr(e)
			}

			p.Print(":")

			if i == len(cc.List)-1 {
				p.Print(" {")
			}

			p.Print("\n")
		}

		p.StartIndent()

		body := cc.Body
		fallsThrough := false

		if n := len(body); n > 0 {
			if br, ok := body[n-1].(*ast.BranchStmt); ok && br.Tok == token.FALLTHROUGH {
				fallsThrough = true
				body = body[:n-1]
			}
		}

		for _, st := range body {
			p.printStmt(st)
		}

		if !fallsThrough && !terminates(body) {
			p.println("break;")
		}

		p.EndIndent()
		p.println("}")
		p.pop()
	}

	p.EndIndent()
	p.println("}")
}

func terminates(body []ast.Stmt) bool {
	if len(body) == 0 {
		return false
	}

	switch body[len(body)-1].(type) {
	case *ast.ReturnStmt, *ast.BranchStmt:
		return true
	default:
		return false
	}
}

func (p *Printer) printTypeSwitch(s *ast.TypeSwitchStmt) {
	var (
		subjectExpr ast.Expr
		bind        bool
	)

	switch a := s.Assign.(type) {
	case *ast.AssignStmt:
		subjectExpr = a.Rhs[0].(*ast.TypeAssertExpr).X
		bind = true
	case *ast.ExprStmt:
		subjectExpr = a.X.(*ast.TypeAssertExpr).X
	}

	subject := p.capture(func() { p.printExpr(subjectExpr) })

	wrapped := false
	if _, isIdent := ast.Unparen(subjectExpr).(*ast.Ident); !isIdent {
		tmp := p.freshName("subject")
		p.println("{")
		p.StartIndent()
		p.println("const " + tmp + " = " + subject + ";")

		subject = tmp
		wrapped = true
	}

	var def *ast.CaseClause

	first := true

	for _, stmt := range s.Body.List {
		cc := stmt.(*ast.CaseClause)
		if cc.List == nil {
			def = cc
			continue
		}

		p.push(cc)

		if first {
			p.PrintIndent()
		} else {
			p.Print(" else ")
		}

		first = false

		p.Print("if (")

		for i, te := range cc.List {
			if i > 0 {
				p.Print(" || ")
			}

			if p.isNil(te) {
				p.Print(subject + " == null")
				continue
			}

			p.printInstanceof(subject, subjectExpr, p.unit.TypeOf(te))
		}

		p.Print(") ")
		p.printBlock(&ast.BlockStmt{List: cc.Body}, p.typeSwitchBinding(cc, bind, subject))
		p.pop()
	}

	if def != nil {
		p.push(def)

		if first {
			p.PrintIndent()
		} else {
			p.Print(" else ")
		}

		p.printBlock(&ast.BlockStmt{List: def.Body}, p.typeSwitchBinding(def, bind, subject))
		p.pop()
	}

	if !first || def != nil {
		p.Print("\n")
	}

	if wrapped {
		p.EndIndent()
		p.println("}")
	}
}

func (p *Printer) typeSwitchBinding(cc *ast.CaseClause, bind bool, subject string) []string {
	if !bind {
		return nil
	}

	obj := p.unit.Info.Implicits[cc]
	if obj == nil {
		return nil
	}

	line := "const " + p.adapter.Identifier(obj) + " = " + subject
	if len(cc.List) == 1 && !p.isNil(cc.List[0]) {
		line += " as " + p.capture(func() { p.printType(nil, obj.Type()) })
	}

	return []string{line + ";"}
}

// printInstanceof prints a dynamic type test of subject against t.
func (p *Printer) printInstanceof(subject string, expr ast.Expr, t types.Type) {
	if p.adapter.SubstituteInstanceof(subject, expr, t) {
		return
	}

	target := t
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		target = ptr.Elem()
	}

	if named, ok := types.Unalias(target).(*types.Named); ok {
		if _, isStruct := named.Underlying().(*types.Struct); isStruct {
			p.Print(subject + " instanceof " + p.adapter.QualifiedTypeName(named.Obj(), false))
			return
		}
	}

	p.reportType(expr, t)
	p.Print("false")
}
