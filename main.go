package main

import (
	_ "time/tzdata"

	"github.com/chrisdamba/flavormetrics/cmd"
)

func main() {
	cmd.Execute()
}
