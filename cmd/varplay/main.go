package main

import (
	"fmt"
	"os"
)

func main() {
	app := newAppContext()
	err := newRootCmd(app).Execute()
	_ = app.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
