package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpgo/cpgo/internal/graph"
)

// writeProject materializes files (relative path -> source) under a fresh
// temp directory and returns its root, matching the teacher's table-driven
// fixture style but building the fixture on disk since the frontend reads
// real files via go/parser.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, src := range files {
		full := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", full, err)
		}
		if err := os.WriteFile(full, []byte(src), 0644); err != nil {
			t.Fatalf("write %s: %v", full, err)
		}
	}
	return root
}

// Scenario 1 (spec §8): struct with one field and one method.
func TestBuild_StructWithMethodAndField(t *testing.T) {
	root := writeProject(t, map[string]string{
		"go.mod": "module p\n\ngo 1.22\n",
		"struct.go": `package p

type MyStruct struct {
	MyField int
}

func (s MyStruct) MyFunc() string {
	return "x"
}
`,
	})

	result, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rec, ok := result.Graph.RecordByFQN("p.MyStruct")
	if !ok {
		t.Fatalf("expected FQN index to contain p.MyStruct, got keys %v", keys(result.Graph.FQNIndex))
	}
	if len(rec.Fields) != 1 || rec.Fields[0].Name != "MyField" {
		t.Fatalf("expected exactly one field MyField, got %+v", rec.Fields)
	}
	if rec.Fields[0].Type == nil || rec.Fields[0].Type.CanonicalName() != "int" {
		t.Fatalf("expected MyField to be typed int, got %v", rec.Fields[0].Type)
	}
	if len(rec.Methods) != 1 || rec.Methods[0].Name != "MyFunc" {
		t.Fatalf("expected exactly one method MyFunc, got %+v", rec.Methods)
	}
	if got := rec.Methods[0].FuncType.CanonicalName(); got != "func() string" {
		t.Fatalf("expected canonical func name %q, got %q", "func() string", got)
	}
}

// Scenario 2 (spec §8): interface embedding another interface.
func TestBuild_InterfaceEmbedding(t *testing.T) {
	root := writeProject(t, map[string]string{
		"go.mod": "module p\n\ngo 1.22\n",
		"embed.go": `package p

type MyOtherInterface interface {
	Other() int
}

type MyInterface interface {
	MyOtherInterface
	Mine() string
}
`,
	})

	result, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rec, ok := result.Graph.RecordByFQN("p.MyInterface")
	if !ok {
		t.Fatalf("expected p.MyInterface in FQN index")
	}
	foundSuperClass := false
	for _, sc := range rec.SuperClasses {
		if sc.CanonicalName() == "p.MyOtherInterface" {
			foundSuperClass = true
		}
	}
	if !foundSuperClass {
		t.Fatalf("expected p.MyOtherInterface among SuperClasses, got %v", rec.SuperClasses)
	}
	foundSuperDecl := false
	for _, sd := range rec.SuperTypeDeclarations {
		if sd.Name == "p.MyOtherInterface" {
			foundSuperDecl = true
		}
	}
	if !foundSuperDecl {
		t.Fatalf("expected p.MyOtherInterface resolved into SuperTypeDeclarations")
	}
}

// Scenario 3 (spec §8): structural interface implementation widens
// PossibleSubTypes on a reference typed as the interface.
func TestBuild_StructuralImplementationWidensSubTypes(t *testing.T) {
	root := writeProject(t, map[string]string{
		"go.mod": "module p\n\ngo 1.22\n",
		"impl.go": `package p

type I interface {
	F() int
}

type S struct{}

func (s S) F() int { return 1 }

func Use(i I) int {
	return i.F()
}
`,
	})

	result, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	s, ok := result.Graph.RecordByFQN("p.S")
	if !ok {
		t.Fatalf("expected p.S in FQN index")
	}
	foundImpl := false
	for _, ifc := range s.ImplementedInterfaces {
		if ifc.CanonicalName() == "p.I" {
			foundImpl = true
		}
	}
	if !foundImpl {
		t.Fatalf("expected p.S.ImplementedInterfaces to contain p.I, got %v", s.ImplementedInterfaces)
	}

	// Find the `i I` parameter on Use and check its widened PossibleSubTypes.
	fn, ok := findFunction(result.Graph, "Use")
	if !ok {
		t.Fatalf("expected to find function Use")
	}
	if len(fn.Parameters) != 1 {
		t.Fatalf("expected Use to have one parameter, got %d", len(fn.Parameters))
	}
	param := fn.Parameters[0]
	foundSub := false
	for _, st := range param.PossibleSubTypes {
		if st.CanonicalName() == "p.S" {
			foundSub = true
		}
	}
	if !foundSub {
		t.Fatalf("expected parameter i's PossibleSubTypes to widen to include p.S, got %v", param.PossibleSubTypes)
	}
}

// Scenario 4 (spec §8): multi-valued return with destructuring.
func TestBuild_MultiReturnDestructure(t *testing.T) {
	root := writeProject(t, map[string]string{
		"go.mod": "module p\n\ngo 1.22\n",
		"multiret.go": `package p

func f() (int, error) {
	return 0, nil
}

func caller() {
	a, b := f()
	_ = a
	_ = b
}
`,
	})

	result, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	fn, ok := findFunction(result.Graph, "caller")
	if !ok {
		t.Fatalf("expected to find function caller")
	}

	var declStmt *graph.DeclarationStatement
	graph.Walk(fn.Body, func(n graph.Node) {
		if ds, ok := n.(*graph.DeclarationStatement); ok && declStmt == nil {
			declStmt = ds
		}
	})
	if declStmt == nil {
		t.Fatalf("expected a DeclarationStatement for `a, b := f()`")
	}
	if len(declStmt.Declarations) != 2 {
		t.Fatalf("expected 2 destructured variable declarations, got %d", len(declStmt.Declarations))
	}

	var indices []int
	var refersTo string
	for _, d := range declStmt.Declarations {
		v, ok := d.(*graph.Variable)
		if !ok {
			t.Fatalf("expected a Variable declaration, got %T", d)
		}
		dt, ok := v.Initializer.(*graph.DestructureTuple)
		if !ok {
			t.Fatalf("expected variable %s's initializer to be a DestructureTuple, got %T", v.Name, v.Initializer)
		}
		indices = append(indices, dt.Index)
		if refersTo == "" {
			refersTo = dt.RefersToID
		} else if dt.RefersToID != refersTo {
			t.Fatalf("expected both DestructureTuple expressions to share one RefersTo target")
		}
	}
	if len(indices) != 2 || !containsInt(indices, 0) || !containsInt(indices, 1) {
		t.Fatalf("expected indices {0,1}, got %v", indices)
	}
}

// spec §4.3: a plain (non-DEFINE) multi-valued assignment lowers to a
// Compound of N binary "=" assignments sharing one DestructureTuple pattern,
// not a DeclarationStatement (which is reserved for actual declarations).
func TestBuild_PlainMultiAssignLowersToCompoundOfBinaries(t *testing.T) {
	root := writeProject(t, map[string]string{
		"go.mod": "module p\n\ngo 1.22\n",
		"multiassign.go": `package p

func f() (int, error) {
	return 0, nil
}

func caller() {
	var a int
	var b error
	a, b = f()
	_ = a
	_ = b
}
`,
	})

	result, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	fn, ok := findFunction(result.Graph, "caller")
	if !ok {
		t.Fatalf("expected to find function caller")
	}

	var compound *graph.Compound
	var binaries []*graph.Binary
	graph.Walk(fn.Body, func(n graph.Node) {
		if c, ok := n.(*graph.Compound); ok && c != fn.Body && compound == nil {
			compound = c
		}
		if b, ok := n.(*graph.Binary); ok && b.Op == "=" {
			binaries = append(binaries, b)
		}
	})
	if compound == nil {
		t.Fatalf("expected `a, b = f()` to lower to a nested Compound, not a DeclarationStatement")
	}
	if len(compound.Statements) != 2 {
		t.Fatalf("expected the Compound to hold 2 binary assignments, got %d", len(compound.Statements))
	}

	var indices []int
	var refersTo string
	for _, s := range compound.Statements {
		b, ok := s.(*graph.Binary)
		if !ok {
			t.Fatalf("expected each statement in the Compound to be a Binary, got %T", s)
		}
		if b.Op != "=" {
			t.Fatalf("expected Op \"=\", got %q", b.Op)
		}
		dt, ok := b.RHS.(*graph.DestructureTuple)
		if !ok {
			t.Fatalf("expected each assignment's RHS to be a DestructureTuple, got %T", b.RHS)
		}
		indices = append(indices, dt.Index)
		if refersTo == "" {
			refersTo = dt.RefersToID
		} else if dt.RefersToID != refersTo {
			t.Fatalf("expected both DestructureTuple expressions to share one RefersTo target")
		}
	}
	if len(indices) != 2 || !containsInt(indices, 0) || !containsInt(indices, 1) {
		t.Fatalf("expected indices {0,1}, got %v", indices)
	}
	if len(binaries) < 2 {
		t.Fatalf("expected at least 2 Binary \"=\" nodes in the function body, got %d", len(binaries))
	}
}

// Scenario 5 (spec §8): type assertion lowers to a Cast.
func TestBuild_TypeAssertionLowersToCast(t *testing.T) {
	root := writeProject(t, map[string]string{
		"go.mod": "module p\n\ngo 1.22\n",
		"type_assert.go": `package p

type MyStructTA struct{}

func caller(f any) {
	s := f.(MyStructTA)
	_ = s
}
`,
	})

	result, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	fn, ok := findFunction(result.Graph, "caller")
	if !ok {
		t.Fatalf("expected to find function caller")
	}

	var cast *graph.Cast
	graph.Walk(fn.Body, func(n graph.Node) {
		if c, ok := n.(*graph.Cast); ok && cast == nil {
			cast = c
		}
	})
	if cast == nil {
		t.Fatalf("expected a Cast expression for the type assertion")
	}
	if cast.CastType == nil || cast.CastType.CanonicalName() != "p.MyStructTA" {
		t.Fatalf("expected cast type p.MyStructTA, got %v", cast.CastType)
	}
	ref, ok := cast.Inner.(*graph.DeclaredReference)
	if !ok {
		t.Fatalf("expected the asserted expression to be a DeclaredReference, got %T", cast.Inner)
	}
	if ref.FQN != "f" {
		t.Fatalf("expected the inner reference to name f, got %q", ref.FQN)
	}
}

// Scenario 6 (spec §8): composite-literal field DFG.
func TestBuild_CompositeLiteralFieldDFG(t *testing.T) {
	root := writeProject(t, map[string]string{
		"go.mod": "module p\n\ngo 1.22\n",
		"dfg.go": `package p

type Point struct {
	X int
	Y int
}

func caller() {
	p := Point{X: 1, Y: 2}
	_ = p
}
`,
	})

	result, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	rec, ok := result.Graph.RecordByFQN("p.Point")
	if !ok {
		t.Fatalf("expected p.Point in FQN index")
	}
	var xField *graph.Field
	for _, f := range rec.Fields {
		if f.Name == "X" {
			xField = f
		}
	}
	if xField == nil {
		t.Fatalf("expected a field X on Point")
	}
	if len(xField.PrevDFG) == 0 {
		t.Fatalf("expected field X to have at least one incoming DFG edge from its composite-literal value")
	}
}

func findFunction(g *graph.Graph, name string) (*graph.Function, bool) {
	var found *graph.Function
	graph.WalkGraph(g, func(n graph.Node) {
		if fn, ok := n.(*graph.Function); ok && fn.Name == name {
			found = fn
		}
	})
	return found, found != nil
}

func containsInt(list []int, want int) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func keys(m map[string]*graph.Record) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

// Running the whole pipeline twice over the same input must produce
// isomorphic graphs under node-identity renaming (spec §8's idempotency
// property): here checked via stable counts and FQNs rather than a full
// isomorphism check, since node IDs are deterministic (graph.NewID) and
// therefore comparable directly run-to-run.
func TestBuild_IsDeterministicAcrossRuns(t *testing.T) {
	root := writeProject(t, map[string]string{
		"go.mod": "module p\n\ngo 1.22\n",
		"struct.go": `package p

type MyStruct struct {
	MyField int
}

func (s MyStruct) MyFunc() string { return "x" }
`,
	})

	r1, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("first Build: %v", err)
	}
	r2, err := Build(Options{Root: root, SkipCoarseScan: true})
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}

	if len(r1.Graph.FQNIndex) != len(r2.Graph.FQNIndex) {
		t.Fatalf("expected same record count across runs, got %d and %d", len(r1.Graph.FQNIndex), len(r2.Graph.FQNIndex))
	}
	rec1, ok1 := r1.Graph.RecordByFQN("p.MyStruct")
	rec2, ok2 := r2.Graph.RecordByFQN("p.MyStruct")
	if !ok1 || !ok2 {
		t.Fatalf("expected p.MyStruct in both runs")
	}
	if rec1.ID != rec2.ID {
		t.Fatalf("expected stable node IDs across runs, got %q and %q", rec1.ID, rec2.ID)
	}
}
