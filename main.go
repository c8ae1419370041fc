package main

import "afisha/internal/app"

func main() {
	app.Run()
}
