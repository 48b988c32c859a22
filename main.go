/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/sorane/t3c/cmd"

func main() {
	cmd.Execute()
}
