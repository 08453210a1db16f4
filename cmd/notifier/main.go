package main

import (
	stdLog "log"
	"os"

	"github.com/Astemirdum/library-circulation/notifier/app"
	"github.com/Astemirdum/library-circulation/notifier/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	app.Run(config.NewConfig(config.WithLogLevel(zapcore.DebugLevel)))
}
