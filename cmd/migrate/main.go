package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"dappvotes/internal/domain"
	"dappvotes/internal/keys"
	"dappvotes/internal/ledger"
	"dappvotes/pkg/database"
)

const usage = "Usage: go run ./cmd/migrate [up|drop|status|seed]"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Get database URL
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}
	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if _, err := conn.Exec(ctx, database.PostgresSchema); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Printf("✅ Table %s created successfully\n", database.TableName)

	case "drop":
		if _, err := conn.Exec(ctx, database.PostgresDropSchema); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Printf("✅ Table %s dropped successfully\n", database.TableName)

	case "status":
		if err := printStatus(ctx, conn); err != nil {
			log.Fatalf("Failed to read status: %v", err)
		}

	case "seed":
		if err := seed(ctx, dbURL); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("✅ Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func printStatus(ctx context.Context, conn *pgx.Conn) error {
	var exists bool
	if err := conn.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, database.TableName).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		fmt.Printf("Table %s does not exist, run 'up'\n", database.TableName)
		return nil
	}

	var rows, bytes int64
	err := conn.QueryRow(ctx,
		`SELECT count(*), coalesce(sum(octet_length(key) + octet_length(value)), 0) FROM kv_store`,
	).Scan(&rows, &bytes)
	if err != nil {
		return err
	}
	fmt.Printf("Table %s: %d pairs, %d bytes\n", database.TableName, rows, bytes)
	return nil
}

// seed creates a demo poll with two contestants through the ledger, so the
// stored records go through the same codec and key scheme as the server.
func seed(ctx context.Context, dbURL string) error {
	db, err := database.NewPostgresDB(ctx, dbURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "production"
	}
	l := ledger.New(db, keys.NewKeyBuilder(environment), nil, nil)

	now := uint64(time.Now().Unix())
	env := domain.Env{Caller: "seed", BlockTime: now}

	resp, err := l.Execute(ctx, env, domain.CreatePoll{
		Image:       "https://example.com/poll.png",
		Title:       "Demo poll",
		Description: "Seeded by cmd/migrate",
		StartsAt:    now,
		EndsAt:      now + 7*24*3600,
	})
	if err != nil {
		return err
	}
	id, _ := resp.Attr("id")
	fmt.Printf("  Created poll %s\n", id)

	pollID, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return err
	}
	for _, name := range []string{"Alice", "Bob"} {
		resp, err := l.Execute(ctx, env, domain.Contest{PollID: pollID, Name: name, Avatar: "https://example.com/" + name + ".png"})
		if err != nil {
			return err
		}
		cid, _ := resp.Attr("contestant_id")
		fmt.Printf("  Added contestant %s (%s)\n", cid, name)
	}
	return nil
}
