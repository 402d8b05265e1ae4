package render_test

import (
	"context"
	"fmt"

	"github.com/ardnew/tmpl/builtin"
	"github.com/ardnew/tmpl/lang"
	"github.com/ardnew/tmpl/render"
)

func ExampleString() {
	out, err := render.String(context.Background(),
		"Dear %{user.name title},<#if(user.vip == true)> welcome back!</#if>",
		map[string]any{"user": map[string]any{"name": "ada lovelace", "vip": true}},
		lang.WithRegistry(builtin.Default()))
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(out)
	// Output:
	// Dear Ada Lovelace, welcome back!
}
