// cmd/sweepagg/main.go
package main

import (
	cmd "github.com/phamill/sweepagg/internal/cli"
)

// main starts the sweepagg CLI by delegating to the cobra root command
// defined in the cli package.
func main() {
	cmd.Execute()
}
