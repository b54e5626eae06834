package main

import (
	"github.com/labstack/gommon/color"
	"github.com/legalconnect/intakego/internal/app/intake"
)

func main() {
	printBanner()
	intake.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
    _       __        __
   (_)___  / /_____ _/ /_____
  / / __ \/ __/ __ ` + "`" + `/ //_/ _ \
 / / / / / /_/ /_/ / ,< /  __/
/_/_/ /_/\__/\__,_/_/|_|\___/  v: %s
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/legalconnect/intakego"))
}
