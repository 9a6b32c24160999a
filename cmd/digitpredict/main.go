// Command digitpredict classifies a digit image without the GUI.
package main

import (
	"os"

	"digit-canvas/cmd/digitpredict/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
