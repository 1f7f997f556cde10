package main

import (
	"context"
	"etfreplica/cmd"
	"etfreplica/internal/logger"
	"log"
	"os"
)

func main() {
	apiHandler, secrets, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	logger.FromContext(context.Background()).Infow("starting api", "port", secrets.Port, "fund", secrets.Fund.Code, "commit", os.Getenv("commit_hash"))
	err = apiHandler.StartApi(secrets.Port)
	if err != nil {
		log.Fatal(err)
	}
}
