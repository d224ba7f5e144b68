package main

import (
	"strings"
	"testing"

	"github.com/alecthomas/participle"
)

func TestGenerateMarkers(t *testing.T) {
	parser := participle.MustBuild(&Unions{})

	decls := Unions{}
	src := "union Param = | Ident | Annotated ;\nunion StringPart = | StringContent ;"
	if err := parser.ParseString(src, &decls); err != nil {
		t.Fatal(err)
	}
	if len(decls.Unions) != 2 || len(decls.Unions[0].Members) != 2 {
		t.Fatalf("parsed %+v", decls)
	}

	out := GenerateMarkers("ast", &decls)
	for _, want := range []string{
		"// Code generated by adtgen from nodes.adt. DO NOT EDIT.",
		"package ast",
		"type Param interface {",
		"func (*Ident) isParam() {}",
		"func (*Annotated) isParam() {}",
		"func (*StringContent) isStringPart() {}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q:\n%s", want, out)
		}
	}
}
