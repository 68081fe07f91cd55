// token emite un JWT de caja para probar la API (no hay login en este servicio).
//
// Uso: go run ./cmd/token -user <uuid> -name "Caja 1"
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/jhoicas/pos-inventario/pkg/config"
	pkgjwt "github.com/jhoicas/pos-inventario/pkg/jwt"
)

func main() {
	userID := flag.String("user", "", "ID del usuario (vacío = uno nuevo)")
	name := flag.String("name", "Caja", "nombre visible")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	if cfg.JWT.Secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET no está definido")
		os.Exit(1)
	}
	if *userID == "" {
		*userID = uuid.NewString()
	}
	tok, err := pkgjwt.Generate(cfg.JWT.Secret, *userID, *name, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Firmar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
