package main

import (
	"os"

	"github.com/fkie-cad/loadmeter/app"
)

func main() {
	app.RunApp(os.Args)
}
