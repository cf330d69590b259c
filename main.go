package main

import "github.com/KaramelBytes/physan/cmd"

func main() {
	cmd.Execute()
}
