package main

import (
	"fmt"
	"net/http"
	"os"
)

func main() {
	cmd := newRootCmd(http.DefaultClient)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
