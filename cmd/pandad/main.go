/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package main

import "github.com/allbin/pandad/internal/cli"

func main() {
	cli.Execute()
}
