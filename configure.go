package main

import (
	"github.com/urfave/cli"
)

func configure(app *cli.App) {
	serveCMD := makeServeCMD()
	fetchCMD := makeFetchCMD()
	app.Commands = []cli.Command{serveCMD, fetchCMD}
}
