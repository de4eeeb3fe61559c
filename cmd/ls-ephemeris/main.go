// Command ls-ephemeris computes solar system ephemerides: body
// positions, light-time corrected observations, visibility windows,
// and an interactive terminal orrery.
package main

import "github.com/litescript/ls-ephemeris/internal/cli"

func main() {
	cli.Execute()
}
