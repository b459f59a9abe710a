// Copyright © 2024 The schym authors

package main

import "github.com/schymlang/schym/cmd"

func main() {
	cmd.Execute()
}
