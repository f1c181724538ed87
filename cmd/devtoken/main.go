// devtoken firma un JWT de desarrollo con la identidad indicada.
//
// Uso: go run ./cmd/devtoken -user u-1 -employee emp-1 -roles purchase_user,inventory_manager
// Usa JWT_SECRET, JWT_ISSUER y JWT_EXPIRATION de la configuración.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/stockflow/pkg/config"
	"github.com/jhoicas/stockflow/pkg/jwt"
)

func main() {
	user := flag.String("user", "dev-user", "id de usuario")
	employee := flag.String("employee", "", "id de empleado")
	roles := flag.String("roles", "", "roles separados por coma")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cargar configuración:", err)
		os.Exit(1)
	}

	id := jwt.Identity{UserID: *user, EmployeeID: *employee}
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			id.Roles = append(id.Roles, r)
		}
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, id, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintln(os.Stderr, "firmar token:", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
