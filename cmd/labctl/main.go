// Command labctl is the operator CLI for the lab reservation service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand(openRuntime).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
