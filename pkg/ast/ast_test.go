// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kraklabs/angelgo/pkg/span"
)

func TestItemSpans(t *testing.T) {
	sp := span.New(3, 1, 10)
	items := []Item{
		&ClassDecl{SourceSpan: sp, Name: "Player"},
		&InterfaceDecl{SourceSpan: sp, Name: "IDraw"},
		&EnumDecl{SourceSpan: sp, Name: "Color"},
		&FuncdefDecl{SourceSpan: sp, Name: "Callback"},
		&GlobalFuncDecl{SourceSpan: sp},
		&GlobalVarDecl{SourceSpan: sp, Name: "g"},
	}
	for _, it := range items {
		assert.Equal(t, sp, it.Span())
	}
}

func TestExprSpans(t *testing.T) {
	sp := span.Point(1, 1)
	exprs := []Expr{
		&IntLiteral{SourceSpan: sp, Value: 5},
		&FloatLiteral{SourceSpan: sp, Value: 1.5},
		&BoolLiteral{SourceSpan: sp, Value: true},
		&StringLiteral{SourceSpan: sp, Value: []byte("hi")},
		&NullLiteral{SourceSpan: sp},
		&NameExpr{SourceSpan: sp, Name: "x"},
		&MemberExpr{SourceSpan: sp, Name: "field"},
		&CallExpr{SourceSpan: sp},
		&BinaryExpr{SourceSpan: sp, Op: "+"},
		&UnaryExpr{SourceSpan: sp, Op: "-"},
		&HandleOfExpr{SourceSpan: sp},
		&CastExpr{SourceSpan: sp},
		&ConstructExpr{SourceSpan: sp},
		&IndexExpr{SourceSpan: sp},
		&LambdaExpr{SourceSpan: sp},
	}
	for _, e := range exprs {
		assert.Equal(t, sp, e.Span())
	}
}

func TestStmtSpans(t *testing.T) {
	sp := span.Point(2, 1)
	stmts := []Stmt{
		&ExprStmt{SourceSpan: sp},
		&VarDeclStmt{SourceSpan: sp},
		&AssignStmt{SourceSpan: sp},
		&ReturnStmt{SourceSpan: sp},
		&BlockStmt{SourceSpan: sp},
		&IfStmt{SourceSpan: sp},
		&WhileStmt{SourceSpan: sp},
		&DoWhileStmt{SourceSpan: sp},
		&ForStmt{SourceSpan: sp},
		&SwitchStmt{SourceSpan: sp},
		&BreakStmt{SourceSpan: sp},
		&ContinueStmt{SourceSpan: sp},
	}
	for _, s := range stmts {
		assert.Equal(t, sp, s.Span())
	}
}

func TestBehaviorKindsAreDistinctStrings(t *testing.T) {
	kinds := []BehaviorKind{
		BehaviorConstruct, BehaviorDestruct, BehaviorFactory, BehaviorListFactory,
		BehaviorAddRef, BehaviorRelease, BehaviorGetWeakRefFlag, BehaviorTemplateCallback,
		BehaviorGetRefCount, BehaviorSetGCFlag, BehaviorGetGCFlag, BehaviorEnumRefs,
		BehaviorReleaseRefs, OpAdd, OpEquals, OpCmp, OpAssign, OpAddAssign, OpCall,
		OpIndex, OpImplConv, OpConv, OpCast, OpNeg, OpCom, OpPreInc, OpPreDec,
	}
	seen := make(map[BehaviorKind]bool)
	for _, k := range kinds {
		assert.False(t, seen[k], "duplicate behavior kind %s", k)
		seen[k] = true
	}
}
