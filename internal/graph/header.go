// Package graph defines the typed node model for the code property graph:
// a closed set of declaration, statement, expression and type-adjacent
// node variants sharing a common Header (identity, name, location, comment,
// language tag), plus the Graph arena that owns every node for a run and
// the indices (FQN->Record, ID->Node) the resolver and driver consume.
//
// Node variants are tagged structs rather than a class hierarchy, per the
// polymorphism guidance in spec §9: every variant embeds Header and
// implements Node by exposing it; AST parent/child relationships are plain
// Go struct fields (a tree, so no cycle-handling is needed there), while
// DFG, refers-to and invokes relationships are stored as node-ID
// references resolved through the Graph arena rather than as live
// pointers. Implemented interfaces and super-classes are held as interned
// types, and resolved super-type declarations as *Record pointers.
package graph

// Kind tags every node with its variant. The set is closed: spec §3 lists
// every member.
type Kind string

const (
	KindTranslationUnit Kind = "TranslationUnit"
	KindNamespace        Kind = "Namespace"
	KindRecord            Kind = "Record"
	KindFunction          Kind = "Function"
	KindMethod            Kind = "Method"
	KindParamVariable     Kind = "ParamVariable"
	KindVariable          Kind = "Variable"
	KindField             Kind = "Field"
	KindInclude           Kind = "Include"
	KindProblem           Kind = "Problem"

	KindCompound    Kind = "Compound"
	KindIf          Kind = "If"
	KindFor         Kind = "For"
	KindForEach     Kind = "ForEach"
	KindSwitch      Kind = "Switch"
	KindCase        Kind = "Case"
	KindDefault     Kind = "Default"
	KindReturn      Kind = "Return"
	KindDeclStmt    Kind = "DeclarationStatement"
	KindBreak       Kind = "Break"
	KindContinue    Kind = "Continue"
	KindLabel       Kind = "Label"

	KindLiteral           Kind = "Literal"
	KindDeclaredReference Kind = "DeclaredReference"
	KindMember            Kind = "Member"
	KindMemberCall        Kind = "MemberCall"
	KindCall              Kind = "Call"
	KindBinary            Kind = "Binary"
	KindUnary             Kind = "Unary"
	KindCast              Kind = "Cast"
	KindNew               Kind = "New"
	KindArrayCreation     Kind = "ArrayCreation"
	KindConstruct         Kind = "Construct"
	KindInitializerList   Kind = "InitializerList"
	KindKeyValue          Kind = "KeyValue"
	KindTuple             Kind = "Tuple"
	KindDestructureTuple  Kind = "DestructureTuple"
	KindLambda            Kind = "Lambda"
)

// RecordKind narrows a Record declaration to one of the three source-level
// type-declaration forms spec §3 allows.
type RecordKind string

const (
	RecordStruct    RecordKind = "struct"
	RecordInterface RecordKind = "interface"
	RecordAlias     RecordKind = "type-alias"
)

// Location is a source position: file plus byte offsets and line/column
// pairs, matching the oracle contract's file-set in spec §6.
type Location struct {
	File        string
	StartOffset int
	EndOffset   int
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Header carries the fields every node variant shares.
type Header struct {
	ID       string
	Name     string
	Kind     Kind
	Location *Location
	Comment  string
	Language string
}

func (h *Header) Head() *Header { return h }

// Node is implemented by every graph node variant via an embedded Header.
type Node interface {
	Head() *Header
}

// DataFlow is embedded by any node that can sit on a DFG edge. Edges are
// stored as the IDs of the neighboring nodes rather than live pointers, so
// that a DFG cycle (explicitly permitted by spec §3) never requires special
// traversal-time handling beyond a visited set keyed by these IDs.
type DataFlow struct {
	PrevDFG []string
	NextDFG []string
}

func (d *DataFlow) DFG() *DataFlow { return d }

// HasDFG is implemented by any node embedding DataFlow.
type HasDFG interface {
	DFG() *DataFlow
}

func appendUnique(list []string, id string) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	return append(list, id)
}

// AddDFGEdge records a data-flow edge from -> to on the graph, provided
// both endpoints participate in DFG (spec §3's DFG edge, directional, may
// form cycles). It is idempotent: re-running a resolver pass never
// duplicates an edge, matching the idempotency requirement in spec §7.
func AddDFGEdge(g *Graph, from, to Node) {
	if from == nil || to == nil {
		return
	}
	fromID := from.Head().ID
	toID := to.Head().ID

	if fd, ok := from.(HasDFG); ok {
		fd.DFG().NextDFG = appendUnique(fd.DFG().NextDFG, toID)
	}
	if td, ok := to.(HasDFG); ok {
		td.DFG().PrevDFG = appendUnique(td.DFG().PrevDFG, fromID)
	}
}

// RefersTo is embedded by nodes that can point at a declaration: a
// DeclaredReference's resolved target, or a Member expression's resolved
// field. A nil target (empty ID) means unresolved, per spec §3 invariant 4.
type RefersTo struct {
	RefersToID string
}

func (r *RefersTo) Refers() *RefersTo { return r }
