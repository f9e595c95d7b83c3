// Command stitchctl is the operator tool for the Stitchdesk backend.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
