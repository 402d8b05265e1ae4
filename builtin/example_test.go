package builtin_test

import (
	"context"
	"fmt"

	"github.com/ardnew/tmpl/builtin"
	"github.com/ardnew/tmpl/lang"
)

func ExampleRegistry() {
	root, err := lang.Parse(context.Background(), "%{user.name upper}",
		lang.WithRegistry(builtin.Default()))
	if err != nil {
		fmt.Println(err)

		return
	}

	in := root.Children[0].(*lang.Interpolation)
	out, _ := in.Transform.(*builtin.Transform).Apply("ada")

	fmt.Println(in.Path, "->", out)
	// Output:
	// user.name -> ADA
}
