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

// Package cfg defines control flow graphs over syntax trees.
//
// A graph is a list of basic blocks. Block 0 is always the entry of the
// function the graph describes. Control falls through from block i to block
// i+1 unless block i ends in an unconditional jump or a return; any other
// edge is an explicit jump instruction.
package cfg

import (
	"fmt"
	"iter"
	"strings"

	"github.com/rome/tools-sub011/rowan"
)

// BlockIndex is the index of a block in a [ControlFlowGraph].
type BlockIndex uint32

// InstructionKind is the kind of an [Instruction].
type InstructionKind byte

const (
	// Statement is a statement that does not transfer control.
	Statement InstructionKind = iota
	// Jump transfers control to another block, possibly conditionally.
	Jump
	// Return leaves the function.
	Return
)

// String implements [fmt.Stringer].
func (k InstructionKind) String() string {
	switch k {
	case Statement:
		return "statement"
	case Jump:
		return "jump"
	case Return:
		return "return"
	default:
		return fmt.Sprintf("InstructionKind(%d)", byte(k))
	}
}

// Instruction is one instruction of a [BasicBlock].
type Instruction struct {
	Kind InstructionKind

	// For jumps: whether the jump is only taken sometimes, and where it goes.
	Conditional bool
	Block       BlockIndex

	// The syntax this instruction was created for, if any. For a conditional
	// jump this is the condition. It is only used for diagnostics.
	Node rowan.SyntaxNode
}

// IsTerminator returns whether control never continues past this
// instruction in its block.
func (i Instruction) IsTerminator() bool {
	return i.Kind == Return || (i.Kind == Jump && !i.Conditional)
}

// BasicBlock is a straight-line run of instructions.
type BasicBlock struct {
	Instructions []Instruction
}

// ControlFlowGraph is the control flow graph of one function-like scope.
type ControlFlowGraph struct {
	// The function, method, or script this graph describes.
	Node rowan.SyntaxNode

	Blocks []BasicBlock

	// Blocks control can enter the function at. Always starts with 0.
	EntryBlocks []BlockIndex
}

// Block returns the block at idx.
func (g *ControlFlowGraph) Block(idx BlockIndex) *BasicBlock {
	return &g.Blocks[idx]
}

// Successors returns an iterator over the blocks control may flow to from
// the end of block, in instruction order, followed by the fallthrough
// block. Jumps that follow a terminator are dead and are not edges.
func (g *ControlFlowGraph) Successors(block BlockIndex) iter.Seq[BlockIndex] {
	return func(yield func(BlockIndex) bool) {
		for _, inst := range g.Blocks[block].Instructions {
			if inst.Kind == Jump && !yield(inst.Block) {
				return
			}
			if inst.IsTerminator() {
				return
			}
		}
		if next := int(block) + 1; next < len(g.Blocks) {
			yield(BlockIndex(next))
		}
	}
}

// Reachable returns, for each block, whether it can be reached from an entry
// block.
func (g *ControlFlowGraph) Reachable() []bool {
	seen := make([]bool, len(g.Blocks))
	queue := append([]BlockIndex(nil), g.EntryBlocks...)
	for len(queue) > 0 {
		block := queue[0]
		queue = queue[1:]
		if seen[block] {
			continue
		}
		seen[block] = true
		for next := range g.Successors(block) {
			if !seen[next] {
				queue = append(queue, next)
			}
		}
	}
	return seen
}

// InstructionRef identifies an instruction in a graph.
type InstructionRef struct {
	Block BlockIndex
	Index int
}

// Unreachable returns an iterator over the instructions that can never
// execute: every instruction in an unreachable block, and every instruction
// that follows a terminator in its block.
func (g *ControlFlowGraph) Unreachable() iter.Seq2[InstructionRef, Instruction] {
	reachable := g.Reachable()
	return func(yield func(InstructionRef, Instruction) bool) {
		for b, block := range g.Blocks {
			dead := !reachable[b]
			for i, inst := range block.Instructions {
				if dead && !yield(InstructionRef{BlockIndex(b), i}, inst) {
					return
				}
				dead = dead || inst.IsTerminator()
			}
		}
	}
}

// String renders this graph for debugging.
func (g *ControlFlowGraph) String() string {
	var b strings.Builder
	for i, block := range g.Blocks {
		fmt.Fprintf(&b, "block %d:\n", i)
		for _, inst := range block.Instructions {
			b.WriteString("  ")
			switch inst.Kind {
			case Jump:
				if inst.Conditional {
					b.WriteString("jump if ")
				} else {
					b.WriteString("jump ")
				}
				fmt.Fprintf(&b, "-> %d", inst.Block)
			default:
				b.WriteString(inst.Kind.String())
			}
			if !inst.Node.IsZero() {
				fmt.Fprintf(&b, " %s %q", inst.Node.KindName(), inst.Node.TextTrimmed())
			}
			b.WriteByte('\n')
		}
	}
	return b.String()
}
