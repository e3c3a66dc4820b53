package main

import (
	"github.com/carlosduarte/devices-api/internal/runtime"
)

func main() {
	runtime.New().Run()
}
