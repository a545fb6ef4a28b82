package main

import "github.com/avdoshkin/task-manager/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustInitStorage()
	defer app.CloseStorage()

	app.MustListenAndServeHTTP()
}
