package main

import (
	"os"

	"horse.fit/podscript/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
