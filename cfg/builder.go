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

package cfg

import "github.com/rome/tools-sub011/rowan"

// FunctionBuilder builds the [ControlFlowGraph] of one function.
//
// Instructions are appended to the block under the cursor, which starts at
// the entry block.
type FunctionBuilder struct {
	graph  ControlFlowGraph
	cursor BlockIndex
}

// NewFunctionBuilder returns a builder for the function node, with a single
// empty entry block.
func NewFunctionBuilder(node rowan.SyntaxNode) *FunctionBuilder {
	return &FunctionBuilder{graph: ControlFlowGraph{
		Node:        node,
		Blocks:      []BasicBlock{{}},
		EntryBlocks: []BlockIndex{0},
	}}
}

// AppendBlock appends a new empty block, and returns its index. The cursor
// does not move.
func (b *FunctionBuilder) AppendBlock() BlockIndex {
	b.graph.Blocks = append(b.graph.Blocks, BasicBlock{})
	return BlockIndex(len(b.graph.Blocks) - 1)
}

// Cursor returns the block instructions are currently appended to.
func (b *FunctionBuilder) Cursor() BlockIndex {
	return b.cursor
}

// SetCursor moves the cursor to block.
func (b *FunctionBuilder) SetCursor(block BlockIndex) {
	if int(block) >= len(b.graph.Blocks) {
		panic("cfg: cursor set to nonexistent block")
	}
	b.cursor = block
}

// AppendStatement appends a statement instruction.
func (b *FunctionBuilder) AppendStatement(node rowan.SyntaxNode) {
	b.append(Instruction{Kind: Statement, Node: node})
}

// AppendJump appends a jump to block. node may be zero.
func (b *FunctionBuilder) AppendJump(conditional bool, block BlockIndex, node rowan.SyntaxNode) {
	b.append(Instruction{Kind: Jump, Conditional: conditional, Block: block, Node: node})
}

// AppendReturn appends a return instruction. node may be zero.
func (b *FunctionBuilder) AppendReturn(node rowan.SyntaxNode) {
	b.append(Instruction{Kind: Return, Node: node})
}

// IsTerminated returns whether the block under the cursor contains a
// terminator, so that anything appended to it is dead.
func (b *FunctionBuilder) IsTerminated() bool {
	for _, inst := range b.graph.Blocks[b.cursor].Instructions {
		if inst.IsTerminator() {
			return true
		}
	}
	return false
}

// Finish returns the finished graph. The builder must not be used
// afterwards.
//
// The block under the cursor is where control leaves the function. Blocks
// for nested constructs may have been appended after it, so unless it is
// already terminated it gets an implicit return with no node.
func (b *FunctionBuilder) Finish() *ControlFlowGraph {
	if int(b.cursor) < len(b.graph.Blocks)-1 && !b.IsTerminated() {
		b.AppendReturn(rowan.SyntaxNode{})
	}
	g := b.graph
	b.graph = ControlFlowGraph{}
	return &g
}

func (b *FunctionBuilder) append(inst Instruction) {
	block := &b.graph.Blocks[b.cursor]
	block.Instructions = append(block.Instructions, inst)
}
