package main

import (
	"TeatimeAuthority/internal/repository"
	"TeatimeAuthority/pkg/logger"
)

func main() {
	logger.Init()
	defer logger.Sync()

	repository.RunGenerate()
}
