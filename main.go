// main.go is ruloc's program entry point. It only injects the version
// string and runs the Cobra root command, keeping business logic in
// cmd/ and internal/ where it can be tested directly.
package main

import (
	"fmt"
	"os"

	"ruloc/cmd"
)

// version defaults to "dev"; release builds override it via
// -ldflags "-X main.version=vX.Y.Z".
var version = "dev"

func main() {
	if err := cmd.Execute(version); err != nil {
		fmt.Fprintf(os.Stderr, "ruloc: %v\n", err)
		os.Exit(1)
	}
}
