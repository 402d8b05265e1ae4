package lang_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ardnew/tmpl/lang"
)

func ExampleParse() {
	root, err := lang.Parse(context.Background(),
		"Hello %{user.name}<#if(user.age() >= limits.adult && !(user.banned == flags.yes))>, welcome</#if>!")
	if err != nil {
		fmt.Println(err)

		return
	}

	_ = root.Print(os.Stdout)
	// Output:
	// Root
	//   Literal: "Hello "
	//   Interpolation: user.name
	//   Conditional
	//     And
	//       Comparison: user.age() >= limits.adult
	//       Not
	//         Comparison: user.banned == flags.yes
	//     Literal: ", welcome"
	//   Literal: "!"
}

func ExampleParse_strict() {
	_, err := lang.Parse(context.Background(), "%{user.}", lang.WithStrict(true))

	fmt.Println(errors.Is(err, lang.ErrMalformedInterpolation))
	// Output:
	// true
}

func ExampleRoot_String() {
	root, _ := lang.Parse(context.Background(), "<#if( a==b&&c!=d )>%{ x }</#if>")

	fmt.Println(root.String())
	// Output:
	// <#if(a == b && c != d)>%{x}</#if>
}
