package main

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type Unions struct {
	Unions []*Union `@@*`
}

// Union declares a sealed node category and the node types that belong to it.
type Union struct {
	Name    string   `"union" @Ident "="`
	Members []string `("|" @Ident)+ ";"`
}

func GenerateMarkers(pkgname string, u *Unions) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by adtgen from nodes.adt. DO NOT EDIT.")

	for _, union := range u.Unions {
		marker := "is" + union.Name

		f.Type().Id(union.Name).Interface(
			Id("Node"),
			Id(marker).Params(),
		)

		for _, member := range union.Members {
			f.Func().Params(Op("*").Id(member)).Id(marker).Params().Block()
		}
	}

	return fmt.Sprintf("%#v", f)
}

func main() {
	parser := participle.MustBuild(&Unions{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	decls := Unions{}
	err = parser.ParseBytes(inData, &decls)
	if err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateMarkers(pkgname, &decls)), 0644)
	if err != nil {
		panic(err)
	}
}
