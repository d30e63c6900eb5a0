package main

import "github.com/sadopc/foodsurvey/cmd"

func main() {
	cmd.Execute()
}
