package main

import (
	logs "github.com/danmuck/smplog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logs.Fatalf(err, "listbench failed")
	}
}
