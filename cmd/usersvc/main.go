// Command usersvc serves the user profile API.
package main

import (
	"fmt"
	"os"

	"github.com/rpupo63/blog-platform/api"
	"github.com/rpupo63/blog-platform/app"
)

func main() {
	if err := app.Run(api.UserService); err != nil {
		fmt.Fprintf(os.Stderr, "usersvc: %v\n", err)
		os.Exit(1)
	}
}
