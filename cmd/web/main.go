package main

import "uniplug_backend/internal/app"

func main() {
	app.Run()
}
