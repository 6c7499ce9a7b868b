// Package main - quant CLI
// 진단/시그널 엔진 운영 CLI
//
// 사용법:
//
//	go run ./cmd/quant migrate up
//	go run ./cmd/quant collect breadth
//	go run ./cmd/quant diagnose 005930
package main

import (
	"os"

	"github.com/wonny/quantdiag/cmd/quant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
