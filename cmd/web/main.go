package main

import "creerlio_backend/internal/app"

func main() {
	app.Run()
}
