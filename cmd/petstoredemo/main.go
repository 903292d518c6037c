// Command petstoredemo exercises several methods of the petstore example
// binding against a configurable host, built through client.NewClient
// with credentials and debug logging toggled from the environment.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/deploymenttheory/go-retrofit/examples/petstore"
	"github.com/deploymenttheory/go-retrofit/retrofit/client"
)

func newClientFromEnv() (*client.Client, error) {
	host := os.Getenv("PETSTORE_HOST")
	if host == "" {
		host = "petstore.example.com"
	}

	opts := []client.ClientOption{
		client.WithTimeout(30 * time.Second),
	}
	if token := os.Getenv("PETSTORE_API_KEY"); token != "" {
		opts = append(opts, client.WithCredentials(token, nil))
	}
	if os.Getenv("PETSTORE_DEBUG") != "" {
		opts = append(opts, client.WithDebug())
	}

	return client.NewClient(host, opts...)
}

func main() {
	c, err := newClientFromEnv()
	if err != nil {
		log.Fatalf("petstoredemo: failed to create client: %v", err)
	}
	svc := petstore.NewService(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pet, err := svc.GetPet(ctx, "a/b")
	if err != nil {
		log.Fatalf("petstoredemo: GetPet failed: %v", err)
	}
	fmt.Printf("fetched pet: %+v\n", pet)

	alive, err := svc.ProbePet(ctx, pet.ID)
	if err != nil {
		log.Fatalf("petstoredemo: ProbePet failed: %v", err)
	}
	fmt.Printf("pet alive: %v\n", alive)

	watch := svc.WatchPet(ctx, pet.ID)
	watched, err := watch.Get(ctx)
	if err != nil {
		log.Fatalf("petstoredemo: WatchPet failed: %v", err)
	}
	fmt.Printf("watched pet: %+v\n", watched)

	ping := svc.Ping(ctx)
	if _, err := ping.Get(ctx); err != nil {
		log.Fatalf("petstoredemo: Ping failed: %v", err)
	}
	fmt.Println("ping ok")
}
