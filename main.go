package main

import (
	"github.com/v4l2enc/encd/internal/api"
	"github.com/v4l2enc/encd/internal/app"
	"github.com/v4l2enc/encd/internal/encoders"
	"github.com/v4l2enc/encd/pkg/shell"
)

func main() {
	app.Init() // init config and logs

	api.Init() // init HTTP API server

	encoders.Init() // init encoder components

	shell.RunUntilSignal()
}
