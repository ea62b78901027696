package main

import "pomodoro/cmd/pomo/root"

func main() {
	root.Execute()
}
