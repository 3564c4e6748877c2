// @title Looply Spotify API
// @version 1.0
// @description Підключення Spotify, життєвий цикл OAuth токенів і проксі до Spotify Web API
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"log"
	"os"

	"looply-spotify/internal/build"
	"looply-spotify/internal/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "looply-spotify"
	app.Version = build.Version
	app.Usage = "Looply Spotify connection service"

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
