package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/jhoicas/Invoicing-api/internal/interfaces/cli"
)

func main() {
	// .env opcional: las variables ya definidas en el entorno tienen prioridad.
	if err := godotenv.Load(); err != nil {
		log.Printf("aviso: no se cargó .env: %v", err)
	}
	cli.Execute()
}
