// Command atlas explores the map of LLM research from the terminal.
package main

import "github.com/papapumpkin/atlas/cmd"

func main() {
	cmd.Execute()
}
