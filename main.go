/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/sandipmaity/foliochat/cmd"

func main() {
	cmd.Execute()
}
