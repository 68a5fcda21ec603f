// cmd/seeder/main.go
package main

import (
    "fmt"
    "log"
    "os"

    _ "github.com/lib/pq"

    "github.com/franquimap/crm-backend/internal/config"
    "github.com/franquimap/crm-backend/internal/db"
)

func main() {
    cfg := config.Load()

    conn, err := db.Open(cfg)
    if err != nil {
        log.Fatal(err)
    }
    defer conn.Close()

    seedFiles := []string{
        "seed/schema.sql",
        "seed/zones.sql",
        "seed/contacts.sql",
    }

    for _, file := range seedFiles {
        content, err := os.ReadFile(file)
        if err != nil {
            log.Fatalf("failed to read %s: %v", file, err)
        }

        _, err = conn.Exec(string(content))
        if err != nil {
            log.Fatalf("failed to execute %s: %v", file, err)
        }
        fmt.Printf("Seeded: %s\n", file)
    }

    fmt.Println("Database seeding completed successfully!")
}
