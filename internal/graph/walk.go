package graph

// Walk visits n and every node reachable from it, pre-order. The node
// variant set is closed (spec §9), so a type switch is the idiomatic
// traversal here rather than requiring every variant to implement a
// Visitor interface. Used both to register every built node into the
// Graph arena (see RegisterAll) and by the resolver passes to
// visit every node of a finished run.
func Walk(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)

	switch v := n.(type) {
	case *TranslationUnit:
		for _, ns := range v.Namespaces {
			Walk(ns, visit)
		}
		for _, p := range v.Problems {
			Walk(p, visit)
		}
	case *Namespace:
		for _, r := range v.Records {
			Walk(r, visit)
		}
		for _, fn := range v.Functions {
			Walk(fn, visit)
		}
		for _, vv := range v.Variables {
			Walk(vv, visit)
		}
		for _, inc := range v.Includes {
			Walk(inc, visit)
		}
	case *Record:
		for _, fd := range v.Fields {
			Walk(fd, visit)
		}
		for _, m := range v.Methods {
			Walk(m, visit)
		}
	case *Method:
		for _, p := range v.Parameters {
			Walk(p, visit)
		}
		if v.Receiver != nil {
			Walk(v.Receiver, visit)
		}
		if v.Body != nil {
			Walk(v.Body, visit)
		}
	case *Function:
		for _, p := range v.Parameters {
			Walk(p, visit)
		}
		if v.Body != nil {
			Walk(v.Body, visit)
		}
	case *Variable:
		if v.Initializer != nil {
			Walk(v.Initializer, visit)
		}
	case *Compound:
		for _, s := range v.Statements {
			Walk(s, visit)
		}
	case *If:
		if v.Condition != nil {
			Walk(v.Condition, visit)
		}
		if v.Then != nil {
			Walk(v.Then, visit)
		}
		if v.Else != nil {
			Walk(v.Else, visit)
		}
	case *For:
		if v.Init != nil {
			Walk(v.Init, visit)
		}
		if v.Condition != nil {
			Walk(v.Condition, visit)
		}
		if v.Post != nil {
			Walk(v.Post, visit)
		}
		if v.Body != nil {
			Walk(v.Body, visit)
		}
	case *ForEach:
		if v.Variable != nil {
			Walk(v.Variable, visit)
		}
		if v.Iterable != nil {
			Walk(v.Iterable, visit)
		}
		if v.Body != nil {
			Walk(v.Body, visit)
		}
	case *Switch:
		if v.Selector != nil {
			Walk(v.Selector, visit)
		}
		for _, c := range v.Cases {
			Walk(c, visit)
		}
		if v.Default != nil {
			Walk(v.Default, visit)
		}
	case *Case:
		for _, e := range v.Values {
			Walk(e, visit)
		}
		for _, s := range v.Body {
			Walk(s, visit)
		}
	case *Default:
		for _, s := range v.Body {
			Walk(s, visit)
		}
	case *Return:
		for _, e := range v.Values {
			Walk(e, visit)
		}
	case *DeclarationStatement:
		for _, d := range v.Declarations {
			Walk(d, visit)
		}
	case *Label:
		if v.Statement != nil {
			Walk(v.Statement, visit)
		}
	case *Member:
		if v.Base != nil {
			Walk(v.Base, visit)
		}
	case *MemberCall:
		if v.Base != nil {
			Walk(v.Base, visit)
		}
		for _, a := range v.Arguments {
			Walk(a, visit)
		}
	case *Call:
		if v.Callee != nil {
			Walk(v.Callee, visit)
		}
		for _, a := range v.Arguments {
			Walk(a, visit)
		}
	case *Binary:
		if v.LHS != nil {
			Walk(v.LHS, visit)
		}
		if v.RHS != nil {
			Walk(v.RHS, visit)
		}
	case *Unary:
		if v.Input != nil {
			Walk(v.Input, visit)
		}
	case *Cast:
		if v.Inner != nil {
			Walk(v.Inner, visit)
		}
	case *New:
		if v.Initializer != nil {
			Walk(v.Initializer, visit)
		}
	case *ArrayCreation:
		for _, d := range v.Dimensions {
			Walk(d, visit)
		}
	case *Construct:
		for _, a := range v.Arguments {
			Walk(a, visit)
		}
	case *InitializerList:
		for _, i := range v.Initializers {
			Walk(i, visit)
		}
	case *KeyValue:
		if v.Key != nil {
			Walk(v.Key, visit)
		}
		if v.Value != nil {
			Walk(v.Value, visit)
		}
	case *Tuple:
		for _, e := range v.Elements {
			Walk(e, visit)
		}
	case *Lambda:
		if v.Function != nil {
			Walk(v.Function, visit)
		}
	}
}

// WalkGraph visits every node reachable from g's translation units.
func WalkGraph(g *Graph, visit func(Node)) {
	for _, tu := range g.TranslationUnits {
		Walk(tu, visit)
	}
}
