package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/drbijoux/storefront/app/cmd"
	"github.com/drbijoux/storefront/app/configs"
	"github.com/drbijoux/storefront/app/routes"
)

func main() {
	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	if err := configs.ValidateProduction(env); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	stripeEnabled := configs.InitStripe(env)

	router := routes.NewRouter(env, db, stripeEnabled)

	server := http.Server{
		Addr:         env.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
