package main

import "github.com/hausgraph/autochain/internal/app"

func main() {
	err := app.NewAutochainApp().Run()
	if err != nil {
		panic(err)
	}
}
