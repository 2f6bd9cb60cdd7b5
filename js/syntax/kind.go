// Copyright 2020-2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package syntax defines the syntax kinds of the JavaScript subset understood
// by this toolchain.
package syntax

import (
	"fmt"

	"github.com/rome/tools-sub011/rowan"
)

// Kind is a JavaScript syntax kind.
type Kind uint16

// Token kinds.
const (
	Tombstone Kind = iota

	EOF
	Ident
	Number
	String
	ErrorToken // A character the lexer does not understand.

	LParen
	RParen
	LCurly
	RCurly
	LBrack
	RBrack
	Semicolon
	Comma
	Dot
	Colon
	Question
	FatArrow

	Eq
	PlusEq
	MinusEq
	StarEq
	SlashEq

	Plus
	Minus
	Star
	Slash
	Percent
	Eq2
	Eq3
	Neq
	Neq2
	Lt
	Gt
	LtEq
	GtEq
	Amp2
	Pipe2
	Question2
	Bang
	Plus2
	Minus2

	BreakKw
	CaseKw
	CatchKw
	ClassKw
	ConstKw
	ContinueKw
	DefaultKw
	DoKw
	ElseKw
	FalseKw
	FinallyKw
	ForKw
	FunctionKw
	IfKw
	InKw
	InstanceofKw
	LetKw
	NewKw
	NullKw
	ReturnKw
	SwitchKw
	ThisKw
	ThrowKw
	TrueKw
	TryKw
	TypeofKw
	VarKw
	WhileKw

	lastToken
)

// Node kinds.
const (
	Module Kind = lastToken + iota
	StatementList

	FunctionDeclaration
	ClassDeclaration
	VariableStatement
	VariableDeclaration
	VariableDeclaratorList
	VariableDeclarator
	Initializer
	IfStatement
	ElseClause
	WhileStatement
	DoWhileStatement
	ForStatement
	ForInStatement
	ForOfStatement
	SwitchStatement
	SwitchCaseList
	CaseClause
	DefaultClause
	TryStatement
	CatchClause
	CatchDeclaration
	FinallyClause
	BreakStatement
	ContinueStatement
	ReturnStatement
	ThrowStatement
	LabeledStatement
	BlockStatement
	ExpressionStatement
	EmptyStatement

	IdentifierBinding
	Parameters
	ParameterList
	FunctionBody
	ClassMemberList
	ConstructorMember
	MethodMember
	GetterMember
	SetterMember
	PropertyMember
	LiteralMemberName

	IdentifierExpression
	AssignmentExpression
	BinaryExpression
	LogicalExpression
	ConditionalExpression
	UnaryExpression
	PrefixUpdateExpression
	PostfixUpdateExpression
	CallExpression
	CallArguments
	ArgumentList
	NewExpression
	StaticMemberExpression
	ComputedMemberExpression
	ParenthesizedExpression
	NumberLiteralExpression
	StringLiteralExpression
	BooleanLiteralExpression
	NullLiteralExpression
	ThisExpression
	ArrayExpression
	ArrayElementList
	ObjectExpression
	ObjectMemberList
	PropertyObjectMember
	ShorthandPropertyObjectMember
	ArrowFunctionExpression
	FunctionExpression

	Bogus
	BogusStatement
	BogusExpression
	BogusMember

	lastKind
)

var names = [...]string{
	Tombstone:  "TOMBSTONE",
	EOF:        "EOF",
	Ident:      "IDENT",
	Number:     "JS_NUMBER_LITERAL",
	String:     "JS_STRING_LITERAL",
	ErrorToken: "ERROR_TOKEN",

	LParen:    "L_PAREN",
	RParen:    "R_PAREN",
	LCurly:    "L_CURLY",
	RCurly:    "R_CURLY",
	LBrack:    "L_BRACK",
	RBrack:    "R_BRACK",
	Semicolon: "SEMICOLON",
	Comma:     "COMMA",
	Dot:       "DOT",
	Colon:     "COLON",
	Question:  "QUESTION",
	FatArrow:  "FAT_ARROW",

	Eq:      "EQ",
	PlusEq:  "PLUSEQ",
	MinusEq: "MINUSEQ",
	StarEq:  "STAREQ",
	SlashEq: "SLASHEQ",

	Plus:      "PLUS",
	Minus:     "MINUS",
	Star:      "STAR",
	Slash:     "SLASH",
	Percent:   "PERCENT",
	Eq2:       "EQ2",
	Eq3:       "EQ3",
	Neq:       "NEQ",
	Neq2:      "NEQ2",
	Lt:        "L_ANGLE",
	Gt:        "R_ANGLE",
	LtEq:      "LTEQ",
	GtEq:      "GTEQ",
	Amp2:      "AMP2",
	Pipe2:     "PIPE2",
	Question2: "QUESTION2",
	Bang:      "BANG",
	Plus2:     "PLUS2",
	Minus2:    "MINUS2",

	BreakKw:      "BREAK_KW",
	CaseKw:       "CASE_KW",
	CatchKw:      "CATCH_KW",
	ClassKw:      "CLASS_KW",
	ConstKw:      "CONST_KW",
	ContinueKw:   "CONTINUE_KW",
	DefaultKw:    "DEFAULT_KW",
	DoKw:         "DO_KW",
	ElseKw:       "ELSE_KW",
	FalseKw:      "FALSE_KW",
	FinallyKw:    "FINALLY_KW",
	ForKw:        "FOR_KW",
	FunctionKw:   "FUNCTION_KW",
	IfKw:         "IF_KW",
	InKw:         "IN_KW",
	InstanceofKw: "INSTANCEOF_KW",
	LetKw:        "LET_KW",
	NewKw:        "NEW_KW",
	NullKw:       "NULL_KW",
	ReturnKw:     "RETURN_KW",
	SwitchKw:     "SWITCH_KW",
	ThisKw:       "THIS_KW",
	ThrowKw:      "THROW_KW",
	TrueKw:       "TRUE_KW",
	TryKw:        "TRY_KW",
	TypeofKw:     "TYPEOF_KW",
	VarKw:        "VAR_KW",
	WhileKw:      "WHILE_KW",

	Module:        "JS_MODULE",
	StatementList: "JS_STATEMENT_LIST",

	FunctionDeclaration:    "JS_FUNCTION_DECLARATION",
	ClassDeclaration:       "JS_CLASS_DECLARATION",
	VariableStatement:      "JS_VARIABLE_STATEMENT",
	VariableDeclaration:    "JS_VARIABLE_DECLARATION",
	VariableDeclaratorList: "JS_VARIABLE_DECLARATOR_LIST",
	VariableDeclarator:     "JS_VARIABLE_DECLARATOR",
	Initializer:            "JS_INITIALIZER_CLAUSE",
	IfStatement:            "JS_IF_STATEMENT",
	ElseClause:             "JS_ELSE_CLAUSE",
	WhileStatement:         "JS_WHILE_STATEMENT",
	DoWhileStatement:       "JS_DO_WHILE_STATEMENT",
	ForStatement:           "JS_FOR_STATEMENT",
	ForInStatement:         "JS_FOR_IN_STATEMENT",
	ForOfStatement:         "JS_FOR_OF_STATEMENT",
	SwitchStatement:        "JS_SWITCH_STATEMENT",
	SwitchCaseList:         "JS_SWITCH_CASE_LIST",
	CaseClause:             "JS_CASE_CLAUSE",
	DefaultClause:          "JS_DEFAULT_CLAUSE",
	TryStatement:           "JS_TRY_STATEMENT",
	CatchClause:            "JS_CATCH_CLAUSE",
	CatchDeclaration:       "JS_CATCH_DECLARATION",
	FinallyClause:          "JS_FINALLY_CLAUSE",
	BreakStatement:         "JS_BREAK_STATEMENT",
	ContinueStatement:      "JS_CONTINUE_STATEMENT",
	ReturnStatement:        "JS_RETURN_STATEMENT",
	ThrowStatement:         "JS_THROW_STATEMENT",
	LabeledStatement:       "JS_LABELED_STATEMENT",
	BlockStatement:         "JS_BLOCK_STATEMENT",
	ExpressionStatement:    "JS_EXPRESSION_STATEMENT",
	EmptyStatement:         "JS_EMPTY_STATEMENT",

	IdentifierBinding: "JS_IDENTIFIER_BINDING",
	Parameters:        "JS_PARAMETERS",
	ParameterList:     "JS_PARAMETER_LIST",
	FunctionBody:      "JS_FUNCTION_BODY",
	ClassMemberList:   "JS_CLASS_MEMBER_LIST",
	ConstructorMember: "JS_CONSTRUCTOR_CLASS_MEMBER",
	MethodMember:      "JS_METHOD_CLASS_MEMBER",
	GetterMember:      "JS_GETTER_CLASS_MEMBER",
	SetterMember:      "JS_SETTER_CLASS_MEMBER",
	PropertyMember:    "JS_PROPERTY_CLASS_MEMBER",
	LiteralMemberName: "JS_LITERAL_MEMBER_NAME",

	IdentifierExpression:          "JS_IDENTIFIER_EXPRESSION",
	AssignmentExpression:          "JS_ASSIGNMENT_EXPRESSION",
	BinaryExpression:              "JS_BINARY_EXPRESSION",
	LogicalExpression:             "JS_LOGICAL_EXPRESSION",
	ConditionalExpression:         "JS_CONDITIONAL_EXPRESSION",
	UnaryExpression:               "JS_UNARY_EXPRESSION",
	PrefixUpdateExpression:        "JS_PRE_UPDATE_EXPRESSION",
	PostfixUpdateExpression:       "JS_POST_UPDATE_EXPRESSION",
	CallExpression:                "JS_CALL_EXPRESSION",
	CallArguments:                 "JS_CALL_ARGUMENTS",
	ArgumentList:                  "JS_CALL_ARGUMENT_LIST",
	NewExpression:                 "JS_NEW_EXPRESSION",
	StaticMemberExpression:        "JS_STATIC_MEMBER_EXPRESSION",
	ComputedMemberExpression:      "JS_COMPUTED_MEMBER_EXPRESSION",
	ParenthesizedExpression:       "JS_PARENTHESIZED_EXPRESSION",
	NumberLiteralExpression:       "JS_NUMBER_LITERAL_EXPRESSION",
	StringLiteralExpression:       "JS_STRING_LITERAL_EXPRESSION",
	BooleanLiteralExpression:      "JS_BOOLEAN_LITERAL_EXPRESSION",
	NullLiteralExpression:         "JS_NULL_LITERAL_EXPRESSION",
	ThisExpression:                "JS_THIS_EXPRESSION",
	ArrayExpression:               "JS_ARRAY_EXPRESSION",
	ArrayElementList:              "JS_ARRAY_ELEMENT_LIST",
	ObjectExpression:              "JS_OBJECT_EXPRESSION",
	ObjectMemberList:              "JS_OBJECT_MEMBER_LIST",
	PropertyObjectMember:          "JS_PROPERTY_OBJECT_MEMBER",
	ShorthandPropertyObjectMember: "JS_SHORTHAND_PROPERTY_OBJECT_MEMBER",
	ArrowFunctionExpression:       "JS_ARROW_FUNCTION_EXPRESSION",
	FunctionExpression:            "JS_FUNCTION_EXPRESSION",

	Bogus:           "JS_BOGUS",
	BogusStatement:  "JS_BOGUS_STATEMENT",
	BogusExpression: "JS_BOGUS_EXPRESSION",
	BogusMember:     "JS_BOGUS_MEMBER",
}

var keywords = map[string]Kind{
	"break":      BreakKw,
	"case":       CaseKw,
	"catch":      CatchKw,
	"class":      ClassKw,
	"const":      ConstKw,
	"continue":   ContinueKw,
	"default":    DefaultKw,
	"do":         DoKw,
	"else":       ElseKw,
	"false":      FalseKw,
	"finally":    FinallyKw,
	"for":        ForKw,
	"function":   FunctionKw,
	"if":         IfKw,
	"in":         InKw,
	"instanceof": InstanceofKw,
	"let":        LetKw,
	"new":        NewKw,
	"null":       NullKw,
	"return":     ReturnKw,
	"switch":     SwitchKw,
	"this":       ThisKw,
	"throw":      ThrowKw,
	"true":       TrueKw,
	"try":        TryKw,
	"typeof":     TypeofKw,
	"var":        VarKw,
	"while":      WhileKw,
}

// Keyword returns the keyword kind for an identifier-like word, if it is a
// reserved word.
func Keyword(word string) (Kind, bool) {
	k, ok := keywords[word]
	return k, ok
}

// Raw converts this kind to a [rowan.RawSyntaxKind].
func (k Kind) Raw() rowan.RawSyntaxKind {
	return rowan.RawSyntaxKind(k)
}

// IsToken returns whether this is a token kind.
func (k Kind) IsToken() bool {
	return k < lastToken
}

// IsKeyword returns whether this is a keyword token.
func (k Kind) IsKeyword() bool {
	return k >= BreakKw && k <= WhileKw
}

// IsList returns whether nodes of this kind are lists.
func (k Kind) IsList() bool {
	switch k {
	case StatementList, VariableDeclaratorList, SwitchCaseList, ParameterList,
		ClassMemberList, ArgumentList, ArrayElementList, ObjectMemberList:
		return true
	default:
		return false
	}
}

// IsBogus returns whether this kind stands in for invalid syntax.
func (k Kind) IsBogus() bool {
	return k >= Bogus && k <= BogusMember
}

// IsStatement returns whether nodes of this kind are statements.
func (k Kind) IsStatement() bool {
	switch k {
	case FunctionDeclaration, ClassDeclaration, VariableStatement, IfStatement,
		WhileStatement, DoWhileStatement, ForStatement, ForInStatement, ForOfStatement,
		SwitchStatement, TryStatement, BreakStatement, ContinueStatement,
		ReturnStatement, ThrowStatement, LabeledStatement, BlockStatement,
		ExpressionStatement, EmptyStatement, BogusStatement:
		return true
	default:
		return false
	}
}

// IsFunctionLike returns whether nodes of this kind introduce a function
// scope with its own control flow.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case FunctionDeclaration, FunctionExpression, ArrowFunctionExpression,
		ConstructorMember, MethodMember, GetterMember, SetterMember:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if int(k) < len(names) && names[k] != "" {
		return names[k]
	}
	return fmt.Sprintf("Kind(%d)", uint16(k))
}

// KindOf returns the kind of a node, or [Tombstone] for the nil node.
func KindOf(node rowan.SyntaxNode) Kind {
	if node.IsZero() {
		return Tombstone
	}
	return Kind(node.Kind())
}

// TokenKind returns the kind of a token, or [Tombstone] for the nil token.
func TokenKind(tok rowan.SyntaxToken) Kind {
	if tok.IsZero() {
		return Tombstone
	}
	return Kind(tok.Kind())
}

// Language is the [rowan.Language] of JavaScript trees.
type Language struct{}

var _ rowan.Language = Language{}

// KindName implements [rowan.Language].
func (Language) KindName(kind rowan.RawSyntaxKind) string { return Kind(kind).String() }

// IsList implements [rowan.Language].
func (Language) IsList(kind rowan.RawSyntaxKind) bool { return Kind(kind).IsList() }

// IsBogus implements [rowan.Language].
func (Language) IsBogus(kind rowan.RawSyntaxKind) bool { return Kind(kind).IsBogus() }
