// Command blogsvc serves the blog and comment API.
package main

import (
	"fmt"
	"os"

	"github.com/rpupo63/blog-platform/api"
	"github.com/rpupo63/blog-platform/app"
)

func main() {
	if err := app.Run(api.BlogService); err != nil {
		fmt.Fprintf(os.Stderr, "blogsvc: %v\n", err)
		os.Exit(1)
	}
}
