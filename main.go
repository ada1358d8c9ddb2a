package main

import "mealcircle-client/cmd"

func main() {
	cmd.Run()
}
